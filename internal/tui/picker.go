// Package tui provides a Bubble Tea picker for choosing a session
// transcript when none is named on the command line.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/recast/internal/discover"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237"))

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Model is the picker's Bubble Tea model.
type Model struct {
	sessions []discover.Session
	cursor   int
	choice   *discover.Session
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a picker over the given sessions, newest first.
func New(sessions []discover.Session) Model {
	return Model{sessions: sessions}
}

// Choice returns the selected session, or nil if the picker was
// cancelled.
func (m Model) Choice() *discover.Session {
	return m.choice
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.syncViewport()
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
				m.syncViewport()
			}
		case "enter":
			if len(m.sessions) > 0 {
				m.choice = &m.sessions[m.cursor]
			}
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width, msg.Height-3)
		m.ready = true
		m.syncViewport()
		return m, nil
	}
	return m, nil
}

func (m *Model) syncViewport() {
	var rows []string
	for i, s := range m.sessions {
		title := s.Title
		if title == "" {
			title = dimStyle.Render(s.ID)
		}
		row := fmt.Sprintf(" %s  %s  %s",
			timeStyle.Render(s.Modified.Format("2006-01-02 15:04")),
			projectStyle.Render(truncate(s.Project, 28)),
			title)
		if i == m.cursor {
			row = selectedStyle.Width(m.width).Render(row)
		}
		rows = append(rows, row)
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))

	// Keep the cursor row visible.
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	title := titleStyle.Width(m.width).Render(fmt.Sprintf("  recast — %d sessions", len(m.sessions)))
	hint := hintStyle.Render("  ↑/↓ move · enter select · q quit")
	return title + "\n" + m.viewport.View() + "\n" + hint
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Pick runs the picker and returns the chosen session, or nil when the
// user cancelled.
func Pick(sessions []discover.Session) (*discover.Session, error) {
	p := tea.NewProgram(New(sessions), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(Model).Choice(), nil
}
