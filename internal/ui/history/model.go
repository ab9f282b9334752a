package history

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	engine "github.com/hudo-ng/ShoppingList/internal/countdown"
	"github.com/hudo-ng/ShoppingList/internal/keys"
	"github.com/hudo-ng/ShoppingList/internal/theme"
)

// timestampLayout formats a completion instant for display.
const timestampLayout = "Jan 2 2006, 3:04 pm"

// Model is the completion history screen. It reads straight from the
// countdown machine; completions recorded on the countdown screen show
// up here on the next render.
type Model struct {
	machine *engine.Machine
	keys    *keys.KeyMap
	offset  int
	width   int
	height  int
}

// New creates a new history model.
func New(m *engine.Machine, k *keys.KeyMap, width, height int) Model {
	return Model{
		machine: m,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init is a no-op; the machine is loaded by the countdown screen.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles scrolling through the history entries.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.offset < len(m.machine.History())-1 {
			m.offset++
		}
	case "k", "up":
		if m.offset > 0 {
			m.offset--
		}
	case "g", "home":
		m.offset = 0
	}
	return m, nil
}

// View renders the completion history, newest first.
func (m Model) View() string {
	history := m.machine.History()

	header := theme.HeaderStyle.Render(fmt.Sprintf("%s history", m.machine.TaskName()))

	if len(history) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height - 1).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No completions yet.")
		return lipgloss.JoinVertical(lipgloss.Left, header, empty)
	}

	visible := m.height - 2
	if visible < 1 {
		visible = 1
	}
	if m.offset > len(history)-1 {
		m.offset = len(history) - 1
	}

	end := m.offset + visible
	if end > len(history) {
		end = len(history)
	}

	lines := make([]string, 0, end-m.offset+1)
	lines = append(lines, header)
	for i, ts := range history[m.offset:end] {
		line := time.UnixMilli(ts).Format(timestampLayout)
		if m.offset+i == 0 {
			line += theme.HelpStyle.Render("  (latest)")
		}
		lines = append(lines, theme.ListItemStyle.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
