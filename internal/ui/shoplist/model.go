package shoplist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hudo-ng/ShoppingList/internal/keys"
	shopping "github.com/hudo-ng/ShoppingList/internal/list"
	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/theme"
)

// ItemsLoadedMsg is sent when the shopping list has been read from the
// store, or after a mutation returned the re-ordered list.
type ItemsLoadedMsg struct {
	Items []model.ShoppingItem
	Err   error
}

// Model is the shopping list view component.
type Model struct {
	list      list.Model
	service   *shopping.Service
	keys      *keys.KeyMap
	addMode   bool
	addInput  textinput.Model
	confirm   *model.ShoppingItem
	statusMsg string
	width     int
	height    int
}

// New creates a new shopping list model.
func New(svc *shopping.Service, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Shopping List"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	ai := textinput.New()
	ai.Placeholder = "item name, optionally followed by a count (Milk 2)"
	ai.Prompt = "+ "
	ai.CharLimit = 80
	ai.Width = width - 4

	return Model{
		list:     l,
		service:  svc,
		keys:     k,
		addInput: ai,
		width:    width,
		height:   height,
	}
}

// CapturesInput reports whether the add field or the delete confirmation
// currently owns key input.
func (m Model) CapturesInput() bool {
	return m.addMode || m.confirm != nil
}

// Init returns a command that loads the persisted list.
func (m Model) Init() tea.Cmd {
	return m.LoadItems()
}

// Update handles messages for the shopping list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = ItemWrapper{Item: it}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.addMode {
			return m.handleAddKeys(msg)
		}
		if m.confirm != nil {
			return m.handleConfirmKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleAddKeys processes key input while the add field is focused.
func (m Model) handleAddKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name, quantity := parseEntry(m.addInput.Value())
		m.addMode = false
		m.addInput.Reset()
		return m, m.addItem(name, quantity)

	case "esc":
		m.addMode = false
		m.addInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

// handleConfirmKeys resolves a pending delete confirmation. Only an
// explicit yes deletes; any other key backs out.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	item := *m.confirm
	m.confirm = nil

	switch msg.String() {
	case "y", "Y":
		return m, m.deleteItem(item.ID)
	}
	return m, nil
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.addMode = true
		m.statusMsg = ""
		return m, m.addInput.Focus()

	case key.Matches(msg, m.keys.Toggle):
		wrapper, ok := m.list.SelectedItem().(ItemWrapper)
		if !ok {
			return m, nil
		}
		m.statusMsg = ""
		return m, m.toggleItem(wrapper.Item.ID)

	case key.Matches(msg, m.keys.Delete):
		wrapper, ok := m.list.SelectedItem().(ItemWrapper)
		if !ok {
			return m, nil
		}
		item := wrapper.Item
		m.confirm = &item
		m.statusMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the shopping list view.
func (m Model) View() string {
	if m.addMode {
		addBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.addInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, addBar, m.list.View())
	}

	view := m.list.View()
	if m.confirm != nil {
		prompt := fmt.Sprintf("Delete %q? y/n", m.confirm.Name)
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.ErrorStyle.Padding(0, 1).Render(prompt),
			view,
		)
	}
	if m.statusMsg != "" {
		view = lipgloss.JoinVertical(lipgloss.Left,
			theme.ErrorStyle.Padding(0, 1).Render(m.statusMsg),
			view,
		)
	}
	if len(m.list.Items()) == 0 && m.statusMsg == "" {
		return m.renderEmptyState()
	}
	return view
}

// renderEmptyState shows guidance text when the list is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render("Your shopping list is empty.\n\nPress a to add an item.")
}

// LoadItems returns a tea.Cmd that reads the ordered list from the store.
func (m Model) LoadItems() tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		items, err := svc.Items(context.Background())
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) addItem(name, quantity string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		items, err := svc.Add(context.Background(), name, quantity)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) toggleItem(id string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		items, err := svc.Toggle(context.Background(), id)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) deleteItem(id string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		items, err := svc.Delete(context.Background(), id)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

// parseEntry splits an add-field entry into a name and quantity. A
// trailing integer token is read as the quantity ("Milk 2"); anything
// else is part of the name.
func parseEntry(entry string) (name, quantity string) {
	entry = strings.TrimSpace(entry)
	fields := strings.Fields(entry)
	if len(fields) < 2 {
		return entry, ""
	}

	last := fields[len(fields)-1]
	if n, err := strconv.Atoi(last); err == nil && n > 0 {
		return strings.Join(fields[:len(fields)-1], " "), last
	}
	return entry, ""
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.addInput.Width = width - 4
}
