package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/spindle/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// accents maps each playlist accent to its hex swatch.
var accents = map[models.Accent]string{
	"red":     "#EF4444",
	"orange":  "#F97316",
	"amber":   "#F59E0B",
	"yellow":  "#EAB308",
	"lime":    "#84CC16",
	"green":   "#22C55E",
	"emerald": "#10B981",
	"teal":    "#14B8A6",
	"cyan":    "#06B6D4",
	"sky":     "#0EA5E9",
	"blue":    "#3B82F6",
	"indigo":  "#6366F1",
	"violet":  "#8B5CF6",
	"purple":  "#A855F7",
	"fuchsia": "#D946EF",
	"pink":    "#EC4899",
	"rose":    "#F43F5E",
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// AccentColor returns the swatch for a playlist accent, falling back to the title color for unknown accents.
func AccentColor(a models.Accent) lipgloss.Color {
	if hex, ok := accents[a]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color("#7D56F4")
}

// accentTitle is the list title style for a playlist.
func accentTitle(a models.Accent) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(AccentColor(a)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1)
}
