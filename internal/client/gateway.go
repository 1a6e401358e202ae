package client

import (
	"context"
	"errors"
	"fmt"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/robustness"
)

// ErrorText is returned by Gateway.Invoke when the backend call fails.
const ErrorText = "Error while invoking the model"

// Gateway selects an adapter and converts adapter failures into text or
// empty streams so callers never see a raw backend error.
type Gateway struct {
	cfg      *config.Config
	adapters map[string]Adapter
	breakers map[string]*robustness.CircuitBreaker
	order    []string
}

// NewGateway registers adapters under their names. Later adapters with a
// duplicate name replace earlier ones.
func NewGateway(cfg *config.Config, adapters ...Adapter) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		adapters: make(map[string]Adapter, len(adapters)),
		breakers: make(map[string]*robustness.CircuitBreaker, len(adapters)),
	}
	for _, a := range adapters {
		if _, dup := g.adapters[a.Name()]; !dup {
			g.order = append(g.order, a.Name())
		}
		g.adapters[a.Name()] = a
		g.breakers[a.Name()] = robustness.NewCircuitBreaker(
			cfg.API.Retry.CircuitThreshold, cfg.API.Retry.CircuitReset)
	}
	return g
}

// Names returns the registered adapter names in registration order.
func (g *Gateway) Names() []string {
	return append([]string(nil), g.order...)
}

// Adapter returns the adapter registered under name.
func (g *Gateway) Adapter(name string) (Adapter, error) {
	a, ok := g.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, name)
	}
	return a, nil
}

// Default returns the configured adapter, else the fallback adapter, else
// the first registered one.
func (g *Gateway) Default() (Adapter, error) {
	if a, ok := g.adapters[g.cfg.Model.Default]; ok {
		return a, nil
	}
	if a, ok := g.adapters[g.cfg.Model.Fallback]; ok {
		logging.Debug("default adapter not registered, using fallback",
			"default", g.cfg.Model.Default, "fallback", a.Name())
		return a, nil
	}
	if len(g.order) > 0 {
		return g.adapters[g.order[0]], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, g.cfg.Model.Default)
}

// DefaultName returns "adapter/model" for the default adapter, or "none".
func (g *Gateway) DefaultName() string {
	a, err := g.Default()
	if err != nil {
		return "none"
	}
	return a.Name() + "/" + a.Model()
}

// CircuitState returns the breaker state of the named adapter.
func (g *Gateway) CircuitState(name string) robustness.State {
	if b, ok := g.breakers[name]; ok {
		return b.GetState()
	}
	return robustness.StateClosed
}

// SupportsStreaming reports whether the default adapter streams.
func (g *Gateway) SupportsStreaming() bool {
	a, err := g.Default()
	return err == nil && a.SupportsStreaming()
}

func (g *Gateway) options(a Adapter, prompt string) Options {
	ac := g.cfg.Adapter(a.Name())
	return Options{
		Prompt:      prompt,
		MaxTokens:   ac.MaxTokens,
		Temperature: *ac.Temperature,
	}
}

// Invoke performs one non-incremental call on the default adapter. A failed
// call yields ErrorText and a malformed payload yields "Error: <detail>".
func (g *Gateway) Invoke(ctx context.Context, prompt string) string {
	a, err := g.Default()
	if err != nil {
		logging.Error("no adapter available", "error", err)
		return ErrorText
	}

	var payload Payload
	err = g.breakers[a.Name()].Execute(ctx, func() error {
		var callErr error
		payload, callErr = a.Invoke(ctx, prompt, g.options(a, prompt))
		return callErr
	})
	if errors.Is(err, robustness.ErrCircuitOpen) {
		logging.Warn("adapter skipped after repeated failures", "adapter", a.Name())
		return ErrorText
	}
	if err != nil || payload == nil {
		logging.Error("model invocation failed", "adapter", a.Name(), "error", err)
		return ErrorText
	}

	text, err := a.ExtractText(payload)
	if err != nil {
		var shapeErr *InvalidResponseShapeError
		if errors.As(err, &shapeErr) {
			logging.Warn("unexpected response shape", "adapter", shapeErr.Adapter, "field", shapeErr.Field)
		}
		return "Error: " + err.Error()
	}
	return text
}

// InvokeStream starts an incremental call on the default adapter. A
// non-streaming adapter yields one chunk holding Invoke's text. A call that
// fails to start yields an empty stream whose Err is set.
func (g *Gateway) InvokeStream(ctx context.Context, prompt string) *Stream {
	a, err := g.Default()
	if err != nil {
		logging.Error("no adapter available", "error", err)
		return FailedStream(err)
	}

	if !a.SupportsStreaming() {
		return TextStream(g.Invoke(ctx, prompt))
	}

	breaker := g.breakers[a.Name()]
	if err := breaker.Allow(); err != nil {
		return FailedStream(fmt.Errorf("%s: %w", a.Name(), err))
	}

	stream, err := a.InvokeStream(ctx, prompt, g.options(a, prompt))
	if err != nil || stream == nil {
		if err == nil {
			err = fmt.Errorf("%s returned no stream", a.Name())
		}
		breaker.Record(ctx, err)
		logging.Warn("stream failed to start", "adapter", a.Name(), "error", err)
		return FailedStream(err)
	}
	return observe(ctx, stream, breaker)
}

// observe forwards the chunks of in and records how the stream ended: a
// terminal error chunk is a failure, a clean close a success. The breaker
// is updated before the last chunk is delivered.
func observe(ctx context.Context, in *Stream, breaker *robustness.CircuitBreaker) *Stream {
	out := make(chan Chunk)
	go func() {
		defer close(out)
		for chunk := range in.Chunks() {
			if chunk.Err != nil {
				breaker.Record(ctx, chunk.Err)
				send(ctx, out, chunk)
				return
			}
			if !send(ctx, out, chunk) {
				return
			}
		}
		if ctx.Err() == nil {
			breaker.Record(ctx, in.Err())
		}
	}()
	return NewStream(out)
}
