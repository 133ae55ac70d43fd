package components

import (
	"github.com/abhisek/persona/internal/ui/theme"
)

// Button is a render-only button label. Key handling belongs to the
// component that owns it.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
}

// View renders the button.
func (b Button) View() string {
	switch {
	case b.Disabled:
		return theme.Disabled.Padding(0, 2).Render(b.Label)
	case b.Focused:
		return theme.ButtonActive.Render("▸ " + b.Label)
	default:
		return theme.ButtonInactive.Render(b.Label)
	}
}
