package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Console prints styled messages. Only the session loop writes through it.
type Console struct {
	out    io.Writer
	styles *Styles
	mu     sync.Mutex
}

// NewConsole creates a console writing to out.
func NewConsole(out io.Writer, styles *Styles) *Console {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &Console{out: out, styles: styles}
}

// Styles returns the console styles.
func (c *Console) Styles() *Styles {
	return c.styles
}

func (c *Console) println(style lipgloss.Style, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, style.Render(msg))
}

// Print writes msg unstyled.
func (c *Console) Print(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

func (c *Console) Error(format string, args ...any) {
	c.println(c.styles.Error, MessageIcons["error"]+" "+fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	c.println(c.styles.Warn, MessageIcons["warning"]+" "+fmt.Sprintf(format, args...))
}

func (c *Console) Success(format string, args ...any) {
	c.println(c.styles.Success, MessageIcons["success"]+" "+fmt.Sprintf(format, args...))
}

func (c *Console) Info(format string, args ...any) {
	c.println(c.styles.Info, fmt.Sprintf(format, args...))
}

func (c *Console) Dim(format string, args ...any) {
	c.println(c.styles.Dim, fmt.Sprintf(format, args...))
}

func (c *Console) Hint(format string, args ...any) {
	c.println(c.styles.Warn, MessageIcons["hint"]+" "+fmt.Sprintf(format, args...))
}

func (c *Console) Header(title string) {
	c.println(c.styles.Header, title)
}

// Panel prints body inside a bordered box with a bold title line.
func (c *Console) Panel(title string, body string) {
	content := c.styles.Bold.Render(title)
	if body != "" {
		content += "\n" + strings.TrimRight(body, "\n")
	}
	c.println(c.styles.Panel, content)
}

// Prompt writes the input prompt without a newline.
func (c *Console) Prompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, prompt)
}
