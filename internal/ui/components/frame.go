package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every card on a screen so
// they line up.
func ContentWidth(frameWidth int) int {
	// frame border (2) + padding (4)
	return min(max(frameWidth-6, 20), 64)
}

// Frame wraps content in the double-border screen frame, centered in the
// given area.
func Frame(content string, width, height int) string {
	return theme.Frame.
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded card cw columns wide.
func Card(content string, cw int) string {
	return theme.Card.
		Width(max(cw-2, 0)).
		Render(content)
}

// Centered renders s centered in cw columns.
func Centered(s string, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}
