package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/ollama/ollama/api"
)

var (
	// ErrStreamingUnsupported is returned by InvokeStream on adapters that
	// only deliver complete responses.
	ErrStreamingUnsupported = errors.New("streaming not supported")

	// ErrAdapterNotFound is returned when no adapter is registered under a
	// name and no fallback exists.
	ErrAdapterNotFound = errors.New("adapter not found")
)

// InvalidResponseShapeError reports a payload missing an expected field.
type InvalidResponseShapeError struct {
	Adapter string
	Field   string
}

func (e *InvalidResponseShapeError) Error() string {
	return fmt.Sprintf("invalid %s response: missing %q", e.Adapter, e.Field)
}

func shapeError(adapter, field string) error {
	return &InvalidResponseShapeError{Adapter: adapter, Field: field}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func retryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// IsRetryableError reports whether a failed call is worth repeating.
// Typed checks come first; the string fallback covers untyped errors from
// third-party libraries.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return retryableStatus(httpErr.StatusCode)
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return retryableStatus(statusErr.StatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"rate limit",
		"timeout",
		"eof",
		"no such host",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}
