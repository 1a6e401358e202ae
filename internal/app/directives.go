package app

import (
	"fmt"
	"strings"

	"scribe/internal/commands"
	"scribe/internal/robustness"
	"scribe/internal/ui"
)

// directive is a session-level keyword handled before command parsing.
type directive int

const (
	directiveQuit directive = iota
	directiveHelp
	directiveClear
	directiveStatus
)

// maxPreview caps the autocomplete panel.
const maxPreview = 5

var directives = map[string]directive{
	"q":      directiveQuit,
	"quit":   directiveQuit,
	"exit":   directiveQuit,
	"help":   directiveHelp,
	"clear":  directiveClear,
	"status": directiveStatus,
}

func parseDirective(line string) (directive, bool) {
	d, ok := directives[strings.ToLower(strings.TrimSpace(line))]
	return d, ok
}

// runDirective executes d and reports whether the session should end.
func (a *App) runDirective(d directive) bool {
	switch d {
	case directiveQuit:
		return true
	case directiveHelp:
		a.printHelp()
	case directiveClear:
		a.session.Clear()
		a.console.Success("Conversation context cleared.")
	case directiveStatus:
		a.printStatus()
	}
	return false
}

func (a *App) printWelcome() {
	a.console.Header("scribe")

	var b strings.Builder
	for _, cmd := range a.registry.Quick() {
		fmt.Fprintf(&b, "%s  %s\n", a.trigger(cmd.Trigger), cmd.Description)
	}
	b.WriteString("\nChat naturally or use a command. 'help' lists all commands, 'q' quits.\n")
	b.WriteString(`Multi-line input: 'paste', '\s paste', or end a line with '''`)
	a.console.Panel("Quick commands", b.String())
}

// printHelp prints the full command reference grouped by category.
func (a *App) printHelp() {
	var b strings.Builder
	for i, group := range a.registry.ByCategory() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", group.Info.Icon, a.console.Styles().Bold.Render(group.Info.Name))
		for _, cmd := range group.Commands {
			fmt.Fprintf(&b, "  %s  %s\n", a.trigger(cmd.Trigger), cmd.Description)
		}
	}

	b.WriteString("\nInput\n")
	b.WriteString("  \\cmd text       run a command on text\n")
	b.WriteString("  \\cmd            run a command on the clipboard\n")
	b.WriteString("  paste, ml       multi-line input until Ctrl-D\n")
	b.WriteString("  text '''        multi-line input until a line with '''\n")
	b.WriteString("  \\f question     follow up on the recent conversation\n")

	b.WriteString("\nSession\n")
	b.WriteString("  help            show this reference\n")
	b.WriteString("  clear           forget the conversation context\n")
	b.WriteString("  status          show model and context status\n")
	b.WriteString("  q, quit, exit   leave")

	a.console.Panel("Commands", b.String())
}

// circuits is implemented by models that guard several adapters.
type circuits interface {
	Names() []string
	CircuitState(name string) robustness.State
}

func (a *App) printStatus() {
	adapter := "none"
	if d, ok := a.model.(interface{ DefaultName() string }); ok {
		adapter = d.DefaultName()
	}

	streaming := "no"
	if a.model.SupportsStreaming() {
		streaming = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Model:      %s\n", adapter)
	if g, ok := a.model.(circuits); ok {
		states := make([]string, 0, len(g.Names()))
		for _, name := range g.Names() {
			states = append(states, fmt.Sprintf("%s (%s)", name, g.CircuitState(name)))
		}
		fmt.Fprintf(&b, "Adapters:   %s\n", strings.Join(states, ", "))
	}
	fmt.Fprintf(&b, "Streaming:  %s\n", streaming)
	fmt.Fprintf(&b, "Context:    %d/%d exchanges\n", a.session.Len(), a.session.Capacity())
	fmt.Fprintf(&b, "Clipboard:  %s\n", onOff(a.clip != nil))
	fmt.Fprintf(&b, "Copy code:  %s\n", onOff(a.cfg.UI.CopyCodeBlocks))
	fmt.Fprintf(&b, "Session:    %s", a.session.ID)
	a.console.Panel("Status", b.String())
}

func (a *App) trigger(t string) string {
	return a.console.Styles().Trigger.Render(fmt.Sprintf("%-4s", t))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// previewCompletions lists the commands an ambiguous trigger could become.
func (a *App) previewCompletions(line string) {
	if len(line) < 2 || !strings.HasPrefix(line, `\`) {
		return
	}
	matches := a.registry.Complete(line)
	if len(matches) < 2 {
		return
	}
	if len(matches) > maxPreview {
		matches = matches[:maxPreview]
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s → %s", a.trigger(m.Trigger), m.Description)
	}
	a.console.Panel("⚡ Autocomplete", b.String())
}

// printContextStatus reminds the user that follow-ups are available.
func (a *App) printContextStatus(n int) {
	a.console.Dim("💭 Conversation history: %d exchanges • Use \\f for follow-up questions", n)
}

// suggest offers commands related to longer free text.
func (a *App) suggest(text string) {
	if !a.cfg.UI.ShowSuggestions || len([]rune(text)) <= 10 {
		return
	}
	if cmds := a.registry.Suggest(text); len(cmds) > 0 {
		a.console.Hint("Try: %s", describe(cmds))
	}
}

func describe(cmds []commands.Command) string {
	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Trigger, c.Description))
	}
	return strings.Join(parts, ", ")
}

// reportCompletion prints the response statistics and handles code blocks.
func (a *App) reportCompletion(res Result) {
	if res.Text == "" {
		a.console.Warn("The model returned an empty response.")
		return
	}

	chars := len([]rune(res.Text))
	if res.Outcome.Degraded {
		a.console.Dim("Response complete! (%d characters)", chars)
	} else {
		a.console.Dim("Response complete! (%d chunks, %d characters)", res.Outcome.Chunks, chars)
	}

	if !a.cfg.UI.CopyCodeBlocks {
		return
	}
	report := ui.CopyCodeBlocks(res.Text, a.clip, a.hl)
	switch {
	case len(report.Blocks) == 0:
		return
	case report.Copied:
		a.console.Success("%s Code block copied to clipboard!", ui.MessageIcons["clip"])
	default:
		a.console.Warn("Could not copy code to clipboard")
	}
	for _, p := range report.Previews {
		a.console.Dim("  also: %s", p)
	}
}
