// Package highlight colors code snippets for terminal output.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter applies chroma syntax highlighting.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a Highlighter with the named chroma style ("monokai",
// "dracula", "github-dark", ...). Unknown styles use chroma's fallback.
func New(style string) *Highlighter {
	if style == "" {
		style = "monokai"
	}
	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}
	return &Highlighter{
		style:     s,
		formatter: formatters.Get("terminal256"),
	}
}

// Lexer returns the lexer for lang, guessing from the code when lang is
// empty or unknown.
func Lexer(lang, code string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil && code != "" {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Language returns the display name of the language used for code.
func Language(lang, code string) string {
	return Lexer(lang, code).Config().Name
}

// Highlight applies syntax highlighting to code. On any failure the code
// is returned unchanged.
func (h *Highlighter) Highlight(code, lang string) string {
	iterator, err := Lexer(lang, code).Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// Preview highlights the first line of code cut to limit runes, with
// "..." appended when anything was cut.
func (h *Highlighter) Preview(code, lang string, limit int) string {
	line, _, more := strings.Cut(strings.TrimSpace(code), "\n")
	runes := []rune(line)
	cut := more
	if limit > 0 && len(runes) > limit {
		line = string(runes[:limit])
		cut = true
	}

	out := strings.TrimRight(h.Highlight(line, lang), "\n")
	if cut {
		out += "..."
	}
	return out
}
