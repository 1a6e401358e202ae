package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := DefaultRegistry()
	require.NoError(t, err)
	return r
}

func TestResolve(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		input     string
		wantID    ID
		wantFound bool
		wantRest  string
	}{
		{`\s some text`, Summarize, true, "some text"},
		{`\rc func main() {}`, RewriteCode, true, "func main() {}"},
		{`\rw hello`, Reword, true, "hello"},
		{`\r hello`, Respond, true, "hello"},
		{`\cr x`, CodeReview, true, "x"},
		{`\c x`, Critical, true, "x"},
		{`\sr`, SecReview, true, ""},
		{`\s`, Summarize, true, ""},
		{"   \\lt   spaced out   ", ListTypos, true, "spaced out"},
		{`\n pass`, Null, true, "pass"},
		{`\f why?`, FollowUp, true, "why?"},
		{`\uc`, UnitTest, true, ""},
		{"just chatting", None, false, "just chatting"},
		{"  padded  ", None, false, "padded"},
		{`\x unknown`, None, false, `\x unknown`},
		{"", None, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, rest, found := r.Resolve(tt.input)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantID, cmd.ID)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

// Every input resolves to the longest trigger that prefixes it.
func TestResolvePicksLongestPrefix(t *testing.T) {
	r := newTestRegistry(t)
	suffixes := []string{"", " ", "x", " tail", "c", "w", "r"}

	for _, cmd := range r.Commands() {
		for _, suffix := range suffixes {
			input := cmd.Trigger + suffix

			var want Command
			for _, candidate := range r.Commands() {
				if strings.HasPrefix(strings.TrimSpace(input), candidate.Trigger) &&
					len(candidate.Trigger) > len(want.Trigger) {
					want = candidate
				}
			}

			got, _, found := r.Resolve(input)
			require.True(t, found, input)
			assert.Equal(t, want.ID, got.ID, "input %q", input)
		}
	}
}

func TestNewRegistryRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name string
		cmds []Command
	}{
		{"empty", nil},
		{"blank trigger", []Command{{ID: Summarize, Trigger: "  "}}},
		{"padded trigger", []Command{{ID: Summarize, Trigger: ` \s`}}},
		{"missing id", []Command{{Trigger: `\s`}}},
		{"duplicate trigger", []Command{{ID: Summarize, Trigger: `\s`}, {ID: Reword, Trigger: `\s`}}},
		{"duplicate id", []Command{{ID: Summarize, Trigger: `\s`}, {ID: Summarize, Trigger: `\t`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.cmds)
			assert.ErrorIs(t, err, ErrInvalidCommandTable)
		})
	}
}

func TestCommandsKeepTableOrder(t *testing.T) {
	r := newTestRegistry(t)
	got := r.Commands()
	want := Builtin()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Trigger, got[i].Trigger)
	}

	got[0].Trigger = "mutated"
	assert.Equal(t, `\s`, r.Commands()[0].Trigger, "Commands returns a copy")
}

func TestByCategory(t *testing.T) {
	r := newTestRegistry(t)
	groups := r.ByCategory()
	require.Len(t, groups, 4)

	names := make([]string, 0, len(groups))
	total := 0
	for _, g := range groups {
		names = append(names, g.Info.Name)
		total += len(g.Commands)
	}
	assert.Equal(t, []string{"Text", "Code", "Chat", "Utils"}, names)
	assert.Equal(t, len(Builtin()), total)
}

func TestComplete(t *testing.T) {
	r := newTestRegistry(t)

	triggers := func(cmds []Command) []string {
		var out []string
		for _, c := range cmds {
			out = append(out, c.Trigger)
		}
		return out
	}

	assert.ElementsMatch(t, []string{`\r`, `\rc`, `\rw`}, triggers(r.Complete(`\r`)))
	assert.ElementsMatch(t, []string{`\sr`}, triggers(r.Complete(`\sr`)))
	assert.Empty(t, r.Complete("r"))
	assert.Len(t, r.Complete(`\`), len(Builtin()))
}

func TestSuggest(t *testing.T) {
	r := newTestRegistry(t)

	got := r.Suggest("Can you REVIEW this code for me?")
	require.Len(t, got, 3)
	assert.Equal(t, RewriteCode, got[0].ID)

	assert.Empty(t, r.Suggest("hello there"))

	got = r.Suggest("please test")
	ids := []ID{got[0].ID, got[1].ID}
	assert.Equal(t, []ID{UnitTest, CodeReview}, ids)
}

func TestLookupAndQuick(t *testing.T) {
	r := newTestRegistry(t)

	cmd, ok := r.Lookup(FollowUp)
	require.True(t, ok)
	assert.Equal(t, `\f`, cmd.Trigger)

	_, ok = r.Lookup(None)
	assert.False(t, ok)

	quick := r.Quick()
	require.Len(t, quick, 5)
	assert.Equal(t, Summarize, quick[0].ID)
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "summarize", Summarize.String())
	assert.Equal(t, "follow_up", FollowUp.String())
	assert.Equal(t, "ID(99)", ID(99).String())
}
