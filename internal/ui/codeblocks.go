package ui

import (
	"fmt"
	"regexp"
	"strings"

	"scribe/internal/clipboard"
	"scribe/internal/highlight"
)

// PreviewLength is the rune limit for code block previews.
const PreviewLength = 60

// codeBlockRegex matches a fenced block: ```lang\n...\n```
var codeBlockRegex = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)\\n```")

// CodeBlock is a fenced code block found in a response.
type CodeBlock struct {
	Language string
	Content  string
}

// ExtractCodeBlocks returns the fenced code blocks in text, in order.
func ExtractCodeBlocks(text string) []CodeBlock {
	matches := codeBlockRegex.FindAllStringSubmatch(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{Language: m[1], Content: m[2]})
	}
	return blocks
}

// CodeReport is the result of copying a response's code to the clipboard.
type CodeReport struct {
	Blocks []CodeBlock
	Copied bool
	Err    error

	// Previews holds one highlighted line per block after the first,
	// labeled with the block's language.
	Previews []string
}

// CopyCodeBlocks copies the first code block in text to clip and previews
// the others. A response without code yields a zero report.
func CopyCodeBlocks(text string, clip clipboard.Clipboard, hl *highlight.Highlighter) CodeReport {
	blocks := ExtractCodeBlocks(text)
	if len(blocks) == 0 {
		return CodeReport{}
	}

	report := CodeReport{Blocks: blocks}
	if clip != nil {
		report.Err = clip.SetText(strings.TrimSpace(blocks[0].Content))
		report.Copied = report.Err == nil
	}

	if hl == nil {
		hl = highlight.New("")
	}
	for _, b := range blocks[1:] {
		report.Previews = append(report.Previews, fmt.Sprintf("[%s] %s",
			highlight.Language(b.Language, b.Content), hl.Preview(b.Content, b.Language, PreviewLength)))
	}
	return report
}
