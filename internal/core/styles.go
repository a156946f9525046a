package core

import "github.com/charmbracelet/lipgloss"

// fieldColors maps palette tags to light background colors.
var fieldColors = map[string]lipgloss.Color{
	"red":     "#fecaca",
	"orange":  "#fed7aa",
	"amber":   "#fde68a",
	"yellow":  "#fef08a",
	"lime":    "#d9f99d",
	"green":   "#bbf7d0",
	"emerald": "#a7f3d0",
	"teal":    "#99f6e4",
	"cyan":    "#a5f3fc",
	"sky":     "#bae6fd",
	"blue":    "#bfdbfe",
	"indigo":  "#c7d2fe",
	"violet":  "#ddd6fe",
	"purple":  "#e9d5ff",
	"fuchsia": "#f5d0fe",
	"pink":    "#fbcfe8",
	"rose":    "#fecdd3",
	"gray":    "#e5e7eb",
}

var (
	cellForeground     = lipgloss.Color("#1e293b")
	underflowColor     = lipgloss.Color("#f59e0b")
	overflowBackground = lipgloss.Color("#fee2e2")
	overflowForeground = lipgloss.Color("#b91c1c")
)

// FieldColor returns the background color for a palette tag. Unknown tags are gray.
func FieldColor(tag string) lipgloss.Color {
	if c, ok := fieldColors[tag]; ok {
		return c
	}
	return fieldColors["gray"]
}

// CellStyle renders a cell of a field with the given tag.
func CellStyle(r *lipgloss.Renderer, tag string) lipgloss.Style {
	return r.NewStyle().Background(FieldColor(tag)).Foreground(cellForeground)
}

// UnderflowStyle renders the missing positions of a short cell.
func UnderflowStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(underflowColor)
}

// OverflowStyle renders the tail of a row beyond the schema width.
func OverflowStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Background(overflowBackground).Foreground(overflowForeground).Bold(true)
}
