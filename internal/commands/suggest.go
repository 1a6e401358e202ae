package commands

import "strings"

// maxSuggestions caps the contextual suggestions shown for free text.
const maxSuggestions = 3

// suggestionKeywords maps words in free text to commands worth trying.
// Ordered so the result is deterministic.
var suggestionKeywords = []struct {
	keyword string
	ids     []ID
}{
	{"code", []ID{RewriteCode, UnitTest, CodeReview}},
	{"text", []ID{Summarize, Reword, ListTypos}},
	{"review", []ID{CodeReview, SecReview, Critical}},
	{"fix", []ID{RewriteCode, ListTypos}},
	{"write", []ID{Reword, RewriteCode}},
	{"check", []ID{ListTypos, CodeReview, SecReview}},
	{"test", []ID{UnitTest, CodeReview}},
}

// Suggest returns up to three commands related to keywords in text.
func (r *Registry) Suggest(text string) []Command {
	lower := strings.ToLower(text)

	seen := make(map[ID]bool)
	var out []Command
	for _, entry := range suggestionKeywords {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		for _, id := range entry.ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if cmd, ok := r.byID[id]; ok {
				out = append(out, cmd)
			}
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	return out
}
