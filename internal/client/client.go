// Package client is the model gateway: a uniform contract over backend
// adapters with batch and incremental delivery.
package client

import (
	"context"
)

// Payload is a backend-specific response. Only the adapter that produced
// it knows its shape; ExtractText maps it to plain text.
type Payload any

// Options is the fixed configuration block supplied with every call.
type Options struct {
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

// Adapter is a backend-specific implementation of model invocation.
type Adapter interface {
	// Name is the registry key, e.g. "gemini".
	Name() string

	// Model is the backend model identifier.
	Model() string

	// SupportsStreaming reports whether InvokeStream delivers incrementally.
	SupportsStreaming() bool

	// Invoke performs one non-incremental call.
	Invoke(ctx context.Context, prompt string, opts Options) (Payload, error)

	// InvokeStream starts an incremental call. Adapters that cannot stream
	// return ErrStreamingUnsupported.
	InvokeStream(ctx context.Context, prompt string, opts Options) (*Stream, error)

	// ExtractText maps a payload from Invoke to plain text. A payload
	// missing the expected field yields *InvalidResponseShapeError.
	ExtractText(p Payload) (string, error)
}
