package app

import (
	"errors"

	"scribe/internal/input"
)

// reportInputError explains why a line produced no turn.
func (a *App) reportInputError(err error) {
	switch {
	case errors.Is(err, input.ErrNoInputAvailable):
		a.console.Warn("No text in clipboard.")
		a.console.Dim("Tip: add text after the command, e.g. \\s your text here")
		a.console.Dim("Tip: type 'paste' (or \\s paste) to enter several lines, finished with Ctrl-D")
		a.console.Dim("Tip: end a line with ''' to keep typing until a closing '''")
	case errors.Is(err, input.ErrNothingEntered):
		a.console.Warn("No content entered.")
	case errors.Is(err, input.ErrCancelled), errors.Is(err, input.ErrInterrupted):
		a.console.Warn(InterruptedMessage)
	default:
		a.console.Error("Error: %v", err)
	}
}

// reportResult prints the outcome of a handler and reports whether it
// should be recorded in the conversation context.
func (a *App) reportResult(res Result) bool {
	switch res.Kind {
	case ResultAborted:
		a.console.Warn(InterruptedMessage)
		return false
	case ResultFailed:
		a.console.Error("Error: %v", res.Err)
		return false
	case ResultPassThrough:
		if res.Text != "" {
			a.console.Print(res.Text)
		}
	case ResultRendered:
		a.reportCompletion(res)
	}
	return res.Text != ""
}
