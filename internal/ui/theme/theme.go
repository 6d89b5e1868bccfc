// Package theme carries the two color palettes. The active palette is
// switched at runtime from the persisted "theme" preference, which shares
// the same local store as the session triple.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Name identifies a palette; the values are persisted verbatim.
type Name string

const (
	Dark  Name = "dark"
	Light Name = "light"
)

// Palette is one set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var darkPalette = Palette{
	Primary:   lipgloss.Color("#8B5CF6"), // Vivid Purple
	Secondary: lipgloss.Color("#14B8A6"), // Teal
	Accent:    lipgloss.Color("#F97316"), // Orange
	Success:   lipgloss.Color("#22C55E"), // Green
	Error:     lipgloss.Color("#F43F5E"), // Rose
	Text:      lipgloss.Color("#F8FAFC"), // White
	TextDim:   lipgloss.Color("#94A3B8"), // Slate
	BgCard:    lipgloss.Color("#1E293B"), // Dark Slate
	Border:    lipgloss.Color("#334155"), // Slate
}

var lightPalette = Palette{
	Primary:   lipgloss.Color("#6D28D9"),
	Secondary: lipgloss.Color("#0F766E"),
	Accent:    lipgloss.Color("#C2410C"),
	Success:   lipgloss.Color("#15803D"),
	Error:     lipgloss.Color("#BE123C"),
	Text:      lipgloss.Color("#0F172A"),
	TextDim:   lipgloss.Color("#64748B"),
	BgCard:    lipgloss.Color("#E2E8F0"),
	Border:    lipgloss.Color("#CBD5E1"),
}

// Color shortcuts for the active palette. Reassigned by Use; components
// build their styles at render time so a switch takes effect immediately.
var (
	Primary   = darkPalette.Primary
	Secondary = darkPalette.Secondary
	Accent    = darkPalette.Accent
	Success   = darkPalette.Success
	Error     = darkPalette.Error
	Text      = darkPalette.Text
	TextDim   = darkPalette.TextDim
	BgCard    = darkPalette.BgCard
	Border    = darkPalette.Border
)

var activeName = Dark

// Use switches the active palette. Unknown names fall back to dark.
func Use(n Name) {
	p := darkPalette
	activeName = Dark
	if n == Light {
		p = lightPalette
		activeName = Light
	}
	Primary = p.Primary
	Secondary = p.Secondary
	Accent = p.Accent
	Success = p.Success
	Error = p.Error
	Text = p.Text
	TextDim = p.TextDim
	BgCard = p.BgCard
	Border = p.Border
}

// Toggle switches between dark and light and returns the new name.
func Toggle() Name {
	if activeName == Dark {
		Use(Light)
	} else {
		Use(Dark)
	}
	return activeName
}

// Typography helpers built from the active palette.

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
}

func SubtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
}

func BodyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Text)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(TextDim).Italic(true)
}

func CardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
}

func CorrectStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Success).Bold(true)
}

func IncorrectStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Error).Bold(true)
}
