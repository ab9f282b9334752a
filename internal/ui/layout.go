package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hudo-ng/ShoppingList/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	TabBarHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// TabBarHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		TabBarHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the active screen,
// accounting for the tab bar and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.TabBarHeight - l.StatusBarHeight
}

// RenderTabBar renders the top bar with one tab per screen, the active
// one highlighted.
func (l Layout) RenderTabBar(titles []string, active int) string {
	tabs := make([]string, len(titles))
	for i, title := range titles {
		if i == active {
			tabs[i] = theme.ActiveTabStyle.Render(title)
		} else {
			tabs[i] = theme.TabStyle.Render(title)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	gap := l.Width - lipgloss.Width(bar)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, bar, filler)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the tab bar, content area, and status bar.
func (l Layout) RenderWithFrame(
	tabBar string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		tabBar,
		content,
		statusBar,
	)
}
