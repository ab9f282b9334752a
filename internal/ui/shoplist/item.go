package shoplist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/theme"
)

// ItemWrapper wraps a model.ShoppingItem so it can be used in a bubbles/list.
type ItemWrapper struct {
	Item model.ShoppingItem
}

// FilterValue returns the string used for fuzzy filtering.
func (w ItemWrapper) FilterValue() string { return w.Item.Name }

// ItemDelegate implements list.ItemDelegate for rendering shopping items.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single shopping item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapper, ok := item.(ItemWrapper)
	if !ok {
		return
	}

	it := wrapper.Item
	isSelected := index == m.Index()

	prefix := "○"
	if it.Completed() {
		prefix = "✓"
	}

	label := it.Name
	if it.Quantity != "" && it.Quantity != "1" {
		label = fmt.Sprintf("%s ×%s", it.Name, it.Quantity)
	}
	line := prefix + " " + label

	switch {
	case isSelected:
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
	case it.Completed():
		fmt.Fprint(w, theme.CompletedItemStyle.Render(line))
	default:
		fmt.Fprint(w, theme.ListItemStyle.Render(line))
	}
}
