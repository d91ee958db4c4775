package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/scoutstrap/scoutstrap/internal/core"
)

// Interactive picks the right confirmer for the current stdin: the
// inline dialog on a terminal, a plain line prompt otherwise (pipes,
// CI). Auto-confirm mode bypasses this entirely.
func Interactive() core.Confirmer {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return Prompt{}
	}
	return &Line{In: os.Stdin, Out: os.Stderr}
}

// Line is a plain yes/no prompt reading one line from In. The default
// answer is no.
type Line struct {
	In  io.Reader
	Out io.Writer

	// One buffered reader for the lifetime of the prompt, so input
	// read ahead for an earlier question is not lost for the next one.
	reader *bufio.Reader
}

func (l *Line) Confirm(prompt string) (bool, error) {
	if l.reader == nil {
		l.reader = bufio.NewReader(l.In)
	}
	fmt.Fprintf(l.Out, "%s [y/N]: ", prompt)
	answer, err := l.reader.ReadString('\n')
	if err != nil && answer == "" {
		// EOF with no input counts as the default answer.
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// Prompt is an inline terminal dialog with Yes/No buttons.
// y/n answer directly; left/right/tab move focus; enter activates the
// focused button; esc and ctrl+c decline.
type Prompt struct{}

func (Prompt) Confirm(prompt string) (bool, error) {
	final, err := tea.NewProgram(newConfirmModel(prompt)).Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation prompt: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	return m.confirmed, nil
}

type confirmModel struct {
	message   string
	focusYes  bool // true = Yes focused; defaults to No, the safe choice
	confirmed bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmYesKey):
		m.confirmed = true
		return m, tea.Quit

	case key.Matches(keyMsg, confirmNoKey), key.Matches(keyMsg, confirmQuitKey):
		m.confirmed = false
		return m, tea.Quit

	case key.Matches(keyMsg, confirmEnterKey):
		m.confirmed = m.focusYes
		return m, tea.Quit

	case key.Matches(keyMsg, confirmMoveKey):
		m.focusYes = !m.focusYes
		return m, nil
	}

	return m, nil
}

func (m confirmModel) View() string {
	var yesBtn, noBtn string
	if m.focusYes {
		yesBtn = activeButtonStyle.Render("Yes")
		noBtn = buttonStyle.Render("No")
	} else {
		yesBtn = buttonStyle.Render("Yes")
		noBtn = activeButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn)
	return questionStyle.Render(m.message) + "\n" + buttons + "\n"
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB")).
			Padding(0, 2)

	activeButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorInfo).
				Padding(0, 2)
)

// Key bindings for the confirm dialog.
var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "decline"),
	)
	confirmQuitKey = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
	)
	confirmEnterKey = key.NewBinding(
		key.WithKeys("enter"),
	)
	confirmMoveKey = key.NewBinding(
		key.WithKeys("left", "right", "tab", "shift+tab", "h", "l"),
	)
)
