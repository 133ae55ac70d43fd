package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/ui/components"
	"github.com/abhisek/persona/internal/ui/theme"
)

const bannerArt = `██████╗ ███████╗██████╗ ███████╗ ██████╗ ███╗   ██╗ █████╗
██╔══██╗██╔════╝██╔══██╗██╔════╝██╔═══██╗████╗  ██║██╔══██╗
██████╔╝█████╗  ██████╔╝███████╗██║   ██║██╔██╗ ██║███████║
██╔═══╝ ██╔══╝  ██╔══██╗╚════██║██║   ██║██║╚██╗██║██╔══██║
██║     ███████╗██║  ██║███████║╚██████╔╝██║ ╚████║██║  ██║
╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝`

const bannerCompact = "P · E · R · S · O · N · A"

// renderBanner returns the title art, or the compact fallback when cw is
// too narrow for it or the terminal is short.
func renderBanner(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if compact || cw < lipgloss.Width(bannerArt) {
		return components.Centered(style.Render(bannerCompact), cw)
	}
	return components.Centered(style.Render(bannerArt), cw)
}
