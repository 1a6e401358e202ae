// Package ui renders model responses to the terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"scribe/internal/client"
	"scribe/internal/config"
	"scribe/internal/logging"
)

// ErrAborted is returned by Render when the turn was interrupted.
var ErrAborted = errors.New("render aborted")

// Placeholder is shown until the first chunk arrives.
const Placeholder = "🔄 Starting stream..."

// State is a StreamRenderer state.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateStreaming
	StateFallback
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateStreaming:
		return "streaming"
	case StateFallback:
		return "fallback"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Model is the part of the gateway the renderer needs.
type Model interface {
	SupportsStreaming() bool
	Invoke(ctx context.Context, prompt string) string
	InvokeStream(ctx context.Context, prompt string) *client.Stream
}

// Outcome describes a completed render.
type Outcome struct {
	Text string

	// Chunks is the number of chunks received while streaming.
	Chunks int

	// Degraded is set when the text came from the non-incremental fallback.
	Degraded bool

	// RenderFailures counts updates shown as raw text because markdown
	// rendering failed.
	RenderFailures int
}

// StreamRenderer displays a model response while it arrives.
type StreamRenderer struct {
	model    Model
	markdown MarkdownRenderer
	styles   *Styles
	out      io.Writer
	liveOpts []LiveOption
	refresh  rate.Limit
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// RendererOption configures a StreamRenderer.
type RendererOption func(*StreamRenderer)

// WithMarkdown sets the markdown renderer.
func WithMarkdown(md MarkdownRenderer) RendererOption {
	return func(r *StreamRenderer) { r.markdown = md }
}

// WithLiveOptions sets options for each live region.
func WithLiveOptions(opts ...LiveOption) RendererOption {
	return func(r *StreamRenderer) { r.liveOpts = opts }
}

// WithRendererClock sets the time source for refresh throttling.
func WithRendererClock(now func() time.Time) RendererOption {
	return func(r *StreamRenderer) { r.now = now }
}

// WithStyles sets the frame styles.
func WithStyles(s *Styles) RendererOption {
	return func(r *StreamRenderer) { r.styles = s }
}

// NewStreamRenderer creates a renderer writing to out. The refresh rate
// and markdown theme come from cfg.UI.
func NewStreamRenderer(model Model, cfg *config.Config, out io.Writer, opts ...RendererOption) *StreamRenderer {
	refresh := cfg.UI.RefreshRate
	if refresh <= 0 {
		refresh = config.DefaultRefreshRate
	}

	r := &StreamRenderer{
		model:   model,
		styles:  DefaultStyles(),
		out:     out,
		refresh: rate.Limit(refresh),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.markdown == nil {
		md, err := NewMarkdownRenderer(cfg.UI.Theme, wrapWidth(cfg.UI.WordWrap, out))
		if err != nil {
			logging.Warn("markdown rendering disabled", "error", err)
			md = PlainRenderer{}
		}
		r.markdown = md
	}
	return r
}

// wrapWidth resolves a word_wrap setting of 0 to the width of out.
func wrapWidth(setting int, out io.Writer) int {
	if setting > 0 {
		return setting
	}
	if cols := TerminalWidth(out); cols > 0 {
		return cols
	}
	return defaultWidth
}

// State returns the current state.
func (r *StreamRenderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *StreamRenderer) setState(s State) {
	r.mu.Lock()
	prev := r.state
	r.state = s
	r.mu.Unlock()
	logging.Debug("renderer state", "from", prev.String(), "to", s.String())
}

// Render invokes the model with prompt and renders the response under
// title. It streams when the model supports it and falls back to a single
// invoke when streaming is unsupported or fails. An interrupted render
// returns ErrAborted and no text.
func (r *StreamRenderer) Render(ctx context.Context, title, prompt string) (Outcome, error) {
	live := NewLive(r.out, r.liveOpts...)
	defer live.Close()

	r.setState(StateStarting)
	live.Update(r.frame(r.styles.StreamTitle.Render(title), r.styles.Dim.Render(Placeholder)))

	if !r.model.SupportsStreaming() {
		return r.fallback(ctx, live, title, prompt, nil)
	}

	stream := r.model.InvokeStream(ctx, prompt)
	limiter := rate.NewLimiter(r.refresh, 1)
	streamingTitle := r.styles.StreamTitle.Render(title + " (streaming...)")

	var (
		acc     strings.Builder
		outcome Outcome
	)
	for {
		select {
		case <-ctx.Done():
			return r.abort(live)

		case chunk, ok := <-stream.Chunks():
			if !ok {
				if ctx.Err() != nil {
					return r.abort(live)
				}
				if err := stream.Err(); err != nil {
					return r.fallback(ctx, live, title, prompt, err)
				}
				outcome.Text = acc.String()
				return r.complete(live, title, outcome)
			}

			if chunk.Err != nil {
				if ctx.Err() != nil {
					return r.abort(live)
				}
				return r.fallback(ctx, live, title, prompt, chunk.Err)
			}

			if r.State() == StateStarting {
				r.setState(StateStreaming)
			}
			outcome.Chunks++
			acc.WriteString(chunk.Text)

			if limiter.AllowN(r.now(), 1) {
				body, ok := r.body(acc.String())
				if !ok {
					outcome.RenderFailures++
				}
				live.Update(r.frame(streamingTitle, body))
			}
		}
	}
}

func (r *StreamRenderer) fallback(ctx context.Context, live *Live, title, prompt string, cause error) (Outcome, error) {
	if cause != nil {
		logging.Warn("streaming failed, falling back", "error", cause)
	}
	r.setState(StateFallback)

	text := r.model.Invoke(ctx, prompt)
	if ctx.Err() != nil {
		return r.abort(live)
	}
	return r.complete(live, title, Outcome{Text: text, Degraded: true})
}

func (r *StreamRenderer) complete(live *Live, title string, outcome Outcome) (Outcome, error) {
	body, ok := r.body(outcome.Text)
	if !ok {
		outcome.RenderFailures++
	}
	live.Final(r.frame(r.styles.CompleteTitle.Render(title+" ✅ Complete"), body))
	r.setState(StateCompleted)
	return outcome, nil
}

func (r *StreamRenderer) abort(live *Live) (Outcome, error) {
	live.Close()
	r.setState(StateAborted)
	return Outcome{}, ErrAborted
}

// body renders markdown, or returns the raw text when rendering fails.
func (r *StreamRenderer) body(text string) (string, bool) {
	if text == "" {
		return "", true
	}
	rendered, ok := renderSafely(r.markdown, text)
	if !ok {
		return text, false
	}
	return strings.TrimRight(rendered, "\n"), true
}

func (r *StreamRenderer) frame(title, body string) string {
	if body == "" {
		return title
	}
	return title + "\n" + body
}
