package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/ui/theme"
)

const bannerArt = `
  █████╗ ██████╗ ██╗   ██╗ █████╗ ███╗   ██╗ ██████╗███████╗██████╗
 ██╔══██╗██╔══██╗██║   ██║██╔══██╗████╗  ██║██╔════╝██╔════╝██╔══██╗
 ███████║██║  ██║██║   ██║███████║██╔██╗ ██║██║     █████╗  ██████╔╝
 ██╔══██║██║  ██║╚██╗ ██╔╝██╔══██║██║╚██╗██║██║     ██╔══╝  ██╔══██╗
 ██║  ██║██████╔╝ ╚████╔╝ ██║  ██║██║ ╚████║╚██████╗███████╗██║  ██║
 ╚═╝  ╚═╝╚═════╝   ╚═══╝  ╚═╝  ╚═╝╚═╝  ╚═══╝ ╚═════╝╚══════╝╚═╝  ╚═╝`

const bannerCompact = "A D V A N C E R"

// RenderBanner returns the banner in the primary color, falling back to
// spaced letters below 72 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
