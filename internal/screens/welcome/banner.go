package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/pisaph/pisaph/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗███████╗ █████╗     ██████╗ ██╗  ██╗
 ██╔══██╗██║██╔════╝██╔══██╗    ██╔══██╗██║  ██║
 ██████╔╝██║███████╗███████║    ██████╔╝███████║
 ██╔═══╝ ██║╚════██║██╔══██║    ██╔═══╝ ██╔══██║
 ██║     ██║███████║██║  ██║    ██║     ██║  ██║
 ╚═╝     ╚═╝╚══════╝╚═╝  ╚═╝    ╚═╝     ╚═╝  ╚═╝`

const bannerCompact = "P I S A   P H"

// RenderBanner returns the PISA PH banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
