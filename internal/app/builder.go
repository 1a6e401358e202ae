package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"scribe/internal/chat"
	"scribe/internal/client"
	"scribe/internal/clipboard"
	"scribe/internal/commands"
	"scribe/internal/config"
	"scribe/internal/highlight"
	"scribe/internal/input"
	"scribe/internal/ui"
)

// Builder assembles an App. Components that are not set are built from
// the config.
type Builder struct {
	cfg *config.Config

	registry     *commands.Registry
	reader       input.LineReader
	out          io.Writer
	model        ui.Model
	clip         clipboard.Clipboard
	clipSet      bool
	rendererOpts []ui.RendererOption
	signals      bool

	buildErrors []error
}

// NewBuilder creates a Builder for cfg.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// WithRegistry sets the command table.
func (b *Builder) WithRegistry(r *commands.Registry) *Builder {
	b.registry = r
	return b
}

// WithInput sets where lines are read from.
func (b *Builder) WithInput(r input.LineReader) *Builder {
	b.reader = r
	return b
}

// WithOutput sets where the console and the renderer write.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.out = w
	return b
}

// WithModel sets the model. By default a gateway over the configured
// adapters is used.
func (b *Builder) WithModel(m ui.Model) *Builder {
	b.model = m
	return b
}

// WithClipboard sets the clipboard. nil disables it.
func (b *Builder) WithClipboard(c clipboard.Clipboard) *Builder {
	b.clip = c
	b.clipSet = true
	return b
}

// WithRendererOptions passes options to the stream renderer.
func (b *Builder) WithRendererOptions(opts ...ui.RendererOption) *Builder {
	b.rendererOpts = append(b.rendererOpts, opts...)
	return b
}

// WithSignalHandling makes Run handle SIGINT, SIGTERM and SIGQUIT.
func (b *Builder) WithSignalHandling() *Builder {
	b.signals = true
	return b
}

// Build creates the App.
func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, errors.New("app: config is required")
	}

	b.initRegistry()
	b.initModel(ctx)
	if len(b.buildErrors) > 0 {
		return nil, errors.Join(b.buildErrors...)
	}

	if b.reader == nil {
		b.reader = input.NewConsole(os.Stdin)
	}
	if b.out == nil {
		b.out = os.Stdout
	}
	if !b.clipSet {
		b.clip = clipboard.Default()
	}

	console := ui.NewConsole(b.out, ui.DefaultStyles())
	a := &App{
		cfg:           b.cfg,
		registry:      b.registry,
		reader:        b.reader,
		session:       chat.NewSession(chat.WithCapacity(b.cfg.Session.HistorySize)),
		model:         b.model,
		renderer:      ui.NewStreamRenderer(b.model, b.cfg, b.out, b.rendererOpts...),
		console:       console,
		clip:          b.clip,
		hl:            highlight.New(b.cfg.UI.CodeStyle),
		handleSignals: b.signals,
	}
	a.parser = input.NewParser(a.registry, a.reader, a.clip)
	a.parser.SetPrompter(a)
	a.session.SetChangeHandler(a.contextChanged)
	return a, nil
}

func (b *Builder) initRegistry() {
	if b.registry != nil {
		return
	}
	r, err := commands.DefaultRegistry()
	if err != nil {
		b.buildErrors = append(b.buildErrors, fmt.Errorf("command table: %w", err))
		return
	}
	b.registry = r
}

func (b *Builder) initModel(ctx context.Context) {
	if b.model != nil {
		return
	}
	adapters := client.NewAdapters(ctx, b.cfg)
	if len(adapters) == 0 {
		b.buildErrors = append(b.buildErrors, client.ErrAdapterNotFound)
		return
	}
	b.model = client.NewGateway(b.cfg, adapters...)
}
