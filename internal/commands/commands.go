package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ID identifies a command. The set is closed: handlers switch on it.
type ID int

const (
	None ID = iota
	Summarize
	Critical
	Respond
	RewriteCode
	UnitTest
	ListTypos
	CodeReview
	SecReview
	Null
	Reword
	FollowUp
)

var idNames = [...]string{
	None:        "none",
	Summarize:   "summarize",
	Critical:    "critical",
	Respond:     "respond",
	RewriteCode: "rewrite_code",
	UnitTest:    "unit_test",
	ListTypos:   "list_typos",
	CodeReview:  "code_review",
	SecReview:   "sec_review",
	Null:        "null",
	Reword:      "reword",
	FollowUp:    "follow_up",
}

func (id ID) String() string {
	if id < 0 || int(id) >= len(idNames) {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return idNames[id]
}

// Command is one entry of the trigger table.
type Command struct {
	ID          ID
	Trigger     string
	Description string
	Category    Category
	// Title heads the rendered response panel.
	Title string
}

// ErrInvalidCommandTable is returned when a trigger table cannot be used.
var ErrInvalidCommandTable = errors.New("invalid command table")

// Registry resolves raw input to commands. It is immutable after construction.
type Registry struct {
	commands []Command // table order, for help
	byLength []Command // longest trigger first, for resolution
	byID     map[ID]Command
}

// NewRegistry validates cmds and builds a registry.
func NewRegistry(cmds []Command) (*Registry, error) {
	if len(cmds) == 0 {
		return nil, fmt.Errorf("%w: no commands", ErrInvalidCommandTable)
	}

	seenTrigger := make(map[string]bool, len(cmds))
	byID := make(map[ID]Command, len(cmds))
	for _, cmd := range cmds {
		if strings.TrimSpace(cmd.Trigger) == "" || cmd.Trigger != strings.TrimSpace(cmd.Trigger) {
			return nil, fmt.Errorf("%w: trigger %q for %s", ErrInvalidCommandTable, cmd.Trigger, cmd.ID)
		}
		if cmd.ID == None {
			return nil, fmt.Errorf("%w: trigger %q has no command id", ErrInvalidCommandTable, cmd.Trigger)
		}
		if seenTrigger[cmd.Trigger] {
			return nil, fmt.Errorf("%w: duplicate trigger %q", ErrInvalidCommandTable, cmd.Trigger)
		}
		if _, dup := byID[cmd.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate command id %s", ErrInvalidCommandTable, cmd.ID)
		}
		seenTrigger[cmd.Trigger] = true
		byID[cmd.ID] = cmd
	}

	ordered := make([]Command, len(cmds))
	copy(ordered, cmds)

	byLength := make([]Command, len(cmds))
	copy(byLength, cmds)
	sort.SliceStable(byLength, func(i, j int) bool {
		return len(byLength[i].Trigger) > len(byLength[j].Trigger)
	})

	return &Registry{
		commands: ordered,
		byLength: byLength,
		byID:     byID,
	}, nil
}

// DefaultRegistry returns the registry for the built-in trigger table.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(Builtin())
}

// Builtin returns the built-in trigger table.
func Builtin() []Command {
	return []Command{
		{ID: Summarize, Trigger: `\s`, Description: "summarize", Category: CategoryText, Title: "📝 Text Summary"},
		{ID: Critical, Trigger: `\c`, Description: "critical response", Category: CategoryChat, Title: "🔍 Critical Analysis"},
		{ID: Respond, Trigger: `\r`, Description: "response", Category: CategoryChat, Title: "💭 AI Response"},
		{ID: RewriteCode, Trigger: `\rc`, Description: "rewrite code", Category: CategoryCode, Title: "🔧 Code Rewrite"},
		{ID: UnitTest, Trigger: `\uc`, Description: "generate unit test", Category: CategoryCode, Title: "🧪 Unit Tests"},
		{ID: ListTypos, Trigger: `\lt`, Description: "list typos", Category: CategoryText, Title: "📝 Typo Check"},
		{ID: CodeReview, Trigger: `\cr`, Description: "code review", Category: CategoryCode, Title: "👀 Code Review"},
		{ID: SecReview, Trigger: `\sr`, Description: "security review", Category: CategoryCode, Title: "🔒 Security Review"},
		{ID: Null, Trigger: `\n`, Description: "null", Category: CategoryUtils, Title: "Null"},
		{ID: Reword, Trigger: `\rw`, Description: "reword", Category: CategoryText, Title: "✏️ Text Rewrite"},
		{ID: FollowUp, Trigger: `\f`, Description: "follow-up", Category: CategoryChat, Title: "🔄 Follow-up Response"},
	}
}

// Resolve matches the trimmed input against the triggers, longest first.
// It returns the command, the trimmed text after the trigger and true, or
// the trimmed input and false when no trigger is a prefix.
func (r *Registry) Resolve(raw string) (Command, string, bool) {
	input := strings.TrimSpace(raw)

	for _, cmd := range r.byLength {
		if strings.HasPrefix(input, cmd.Trigger) {
			return cmd, strings.TrimSpace(input[len(cmd.Trigger):]), true
		}
	}

	return Command{}, input, false
}

// Lookup returns the command with the given id.
func (r *Registry) Lookup(id ID) (Command, bool) {
	cmd, ok := r.byID[id]
	return cmd, ok
}

// Commands returns all commands in table order.
func (r *Registry) Commands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Complete returns the commands whose trigger starts with partial.
func (r *Registry) Complete(partial string) []Command {
	partial = strings.TrimSpace(partial)
	if !strings.HasPrefix(partial, `\`) {
		return nil
	}

	var matches []Command
	for _, cmd := range r.commands {
		if strings.HasPrefix(cmd.Trigger, partial) {
			matches = append(matches, cmd)
		}
	}
	return matches
}
