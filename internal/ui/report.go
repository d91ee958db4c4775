// Package ui provides the console surface of the tool: the leveled
// reporter and the yes/no confirmation prompts.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette, shared by the reporter and the confirm prompt.
var (
	colorInfo    = lipgloss.Color("#60A5FA") // Blue
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorDanger  = lipgloss.Color("#EF4444") // Red
)

var (
	infoTagStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	okTagStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	warnTagStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	errTagStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
)

// Console writes leveled, human-readable lines. INFO/OK go to Out,
// WARN/ERROR to Err. Implements core.Reporter.
type Console struct {
	Out io.Writer
	Err io.Writer
}

// NewConsole returns a Console on stdout/stderr.
func NewConsole() *Console {
	return &Console{Out: os.Stdout, Err: os.Stderr}
}

func (c *Console) Infof(format string, args ...any) {
	c.line(c.Out, infoTagStyle.Render("INFO"), format, args...)
}

func (c *Console) Okf(format string, args ...any) {
	c.line(c.Out, okTagStyle.Render("OK"), format, args...)
}

func (c *Console) Warnf(format string, args ...any) {
	c.line(c.Err, warnTagStyle.Render("WARN"), format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	c.line(c.Err, errTagStyle.Render("ERROR"), format, args...)
}

func (c *Console) line(w io.Writer, tag, format string, args ...any) {
	fmt.Fprintf(w, "%s  %s\n", tag, fmt.Sprintf(format, args...))
}
