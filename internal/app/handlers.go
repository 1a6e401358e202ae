package app

import (
	"context"
	"errors"
	"fmt"

	"scribe/internal/commands"
	"scribe/internal/input"
	"scribe/internal/ui"
)

// ResultKind classifies how a turn ended.
type ResultKind int

const (
	// ResultRendered: the model response was rendered by the renderer.
	ResultRendered ResultKind = iota
	// ResultPassThrough: the input text is the result; nothing was rendered.
	ResultPassThrough
	// ResultAborted: the turn was interrupted.
	ResultAborted
	// ResultFailed: the turn could not be handled.
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultRendered:
		return "rendered"
	case ResultPassThrough:
		return "pass_through"
	case ResultAborted:
		return "aborted"
	case ResultFailed:
		return "failed"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the typed outcome of a handler. Handlers never print.
type Result struct {
	Kind    ResultKind
	Text    string
	Outcome ui.Outcome
	Err     error

	// NoContext is set when a follow-up was answered without history.
	NoContext bool
}

// handle dispatches parsed input to the handler for its command. Free text
// gets the generic response handler.
func (a *App) handle(ctx context.Context, p input.Parsed) Result {
	if !p.HasCommand {
		return a.respond(ctx, p.Text)
	}

	switch id := p.Command.ID; id {
	case commands.Null:
		return Result{Kind: ResultPassThrough, Text: p.Text}
	case commands.FollowUp:
		return a.followUp(ctx, p.Command, p.Text)
	case commands.Summarize, commands.Critical, commands.Respond,
		commands.RewriteCode, commands.UnitTest, commands.ListTypos,
		commands.CodeReview, commands.SecReview, commands.Reword:
		return a.render(ctx, p.Command.Title, commands.Prompt(id, p.Text))
	default:
		return Result{Kind: ResultFailed, Err: fmt.Errorf("no handler for command %s", id)}
	}
}

func (a *App) respond(ctx context.Context, text string) Result {
	title := "💭 AI Response"
	if cmd, ok := a.registry.Lookup(commands.Respond); ok {
		title = cmd.Title
	}
	return a.render(ctx, title, commands.Prompt(commands.Respond, text))
}

// followUp answers a question in light of the recent exchanges. Without
// history it is answered as a plain response.
func (a *App) followUp(ctx context.Context, cmd commands.Command, question string) Result {
	if a.session.IsEmpty() {
		res := a.respond(ctx, question)
		res.NoContext = true
		return res
	}
	summary := a.session.Summarize(a.summaryOptions())
	return a.render(ctx, cmd.Title, commands.FollowUpPrompt(summary, question))
}

func (a *App) render(ctx context.Context, title, prompt string) Result {
	outcome, err := a.renderer.Render(ctx, title, prompt)
	switch {
	case errors.Is(err, ui.ErrAborted):
		return Result{Kind: ResultAborted}
	case err != nil:
		return Result{Kind: ResultFailed, Err: err}
	}
	return Result{Kind: ResultRendered, Text: outcome.Text, Outcome: outcome}
}
