// Package app runs the interactive text-processing session.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"scribe/internal/chat"
	"scribe/internal/clipboard"
	"scribe/internal/commands"
	"scribe/internal/config"
	"scribe/internal/highlight"
	"scribe/internal/input"
	"scribe/internal/logging"
	"scribe/internal/ui"
)

// Prompt is shown before each line of input.
const Prompt = "\n> "

// InterruptedMessage is printed after an interrupt.
const InterruptedMessage = "Interrupted. Continue or type 'q' to quit."

// App is the session loop. It owns the conversation context and is the
// only component that prints to the console.
type App struct {
	cfg      *config.Config
	registry *commands.Registry
	reader   input.LineReader
	parser   *input.Parser
	session  *chat.Session
	model    ui.Model
	renderer *ui.StreamRenderer
	console  *ui.Console
	clip     clipboard.Clipboard
	hl       *highlight.Highlighter

	handleSignals bool

	// cancel for the read or turn in progress
	turnMu     sync.Mutex
	turnCancel context.CancelFunc
}

// Run reads and processes lines until the user quits, input ends, or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.handleSignals {
		stop := a.watchSignals(ctx, cancel)
		defer stop()
	}

	logging.Info("session started", "session", a.session.ID, "adapter", a.cfg.Model.Default)
	a.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := a.readLine(ctx)
		switch {
		case errors.Is(err, io.EOF):
			a.console.Dim("Goodbye!")
			return nil
		case errors.Is(err, input.ErrInterrupted):
			if ctx.Err() != nil {
				return nil
			}
			a.console.Warn(InterruptedMessage)
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		if quit := a.Turn(ctx, line); quit {
			a.console.Dim("Goodbye!")
			return nil
		}
	}
}

func (a *App) readLine(ctx context.Context) (string, error) {
	readCtx, done := a.beginTurn(ctx)
	defer done()

	a.console.Prompt(Prompt)
	return a.reader.ReadLine(readCtx)
}

// Turn processes one line of input and reports whether the user asked to
// quit. Errors are printed; they never end the session.
func (a *App) Turn(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if d, ok := parseDirective(trimmed); ok {
		return a.runDirective(d)
	}

	turnCtx, done := a.beginTurn(ctx)
	defer done()

	log := logging.With("turn", uuid.NewString())
	a.previewCompletions(trimmed)

	parsed, err := a.parser.Classify(turnCtx, line)
	if err != nil {
		log.Debug("input rejected", "error", err)
		a.reportInputError(err)
		return false
	}
	log.Debug("input classified",
		"command", parsed.Command.ID.String(),
		"source", parsed.Source.String(),
		"chars", len([]rune(parsed.Text)))

	if parsed.HasCommand {
		a.console.Dim("🔧 Processing with command: %s", parsed.Command.Trigger)
		if parsed.Command.ID == commands.FollowUp && a.session.IsEmpty() {
			a.console.Warn("No previous conversation to follow up on. Answering as a new question.")
		}
	} else {
		a.suggest(parsed.Text)
		a.console.Dim("💬 Free conversation")
	}

	res := a.handle(turnCtx, parsed)
	log.Debug("turn finished", "kind", res.Kind.String())
	a.finish(parsed, res)
	return false
}

// finish prints the result and records the exchange. Aborted and failed
// turns leave the context untouched.
func (a *App) finish(p input.Parsed, res Result) {
	if !a.reportResult(res) {
		return
	}
	a.session.Record(p.Raw, res.Text)
}

// contextChanged reports the context size after an exchange is recorded.
func (a *App) contextChanged(e chat.ChangeEvent) {
	logging.Debug("conversation context changed", "from", e.OldCount, "to", e.NewCount)
	if e.NewCount > 0 {
		a.printContextStatus(e.NewCount)
	}
}

// Interrupt cancels the read or turn in progress. The session continues.
func (a *App) Interrupt() {
	a.turnMu.Lock()
	defer a.turnMu.Unlock()
	if a.turnCancel != nil {
		a.turnCancel()
	}
}

// beginTurn derives the context that Interrupt cancels.
func (a *App) beginTurn(ctx context.Context) (context.Context, func()) {
	turnCtx, cancel := context.WithCancel(ctx)

	a.turnMu.Lock()
	a.turnCancel = cancel
	a.turnMu.Unlock()

	return turnCtx, func() {
		a.turnMu.Lock()
		a.turnCancel = nil
		a.turnMu.Unlock()
		cancel()
	}
}

// Session returns the conversation context.
func (a *App) Session() *chat.Session {
	return a.session
}

// Registry returns the command registry.
func (a *App) Registry() *commands.Registry {
	return a.registry
}

// MultilineStarted tells the user how to end a multi-line capture.
func (a *App) MultilineStarted(mode input.Source) {
	switch mode {
	case input.SourcePaste:
		a.console.Dim("Paste mode: enter your text, then press Ctrl-D on an empty line.")
	case input.SourceDelimited:
		a.console.Dim("Multi-line mode: finish with ''' on its own line.")
	}
}

func (a *App) summaryOptions() chat.SummaryOptions {
	opts := chat.DefaultSummaryOptions()
	if n := a.cfg.Session.SummaryExchanges; n > 0 {
		opts.MaxExchanges = n
	}
	if n := a.cfg.Session.UserCap; n > 0 {
		opts.UserCap = n
	}
	if n := a.cfg.Session.AssistantCap; n > 0 {
		opts.AssistantCap = n
	}
	return opts
}
