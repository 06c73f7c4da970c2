package models

import "slices"

// Accent is a display color from the fixed playlist palette.
type Accent string

// Palette lists every accent a playlist may carry, in display order.
var Palette = []Accent{
	"red", "orange", "amber", "yellow", "lime", "green", "emerald", "teal", "cyan",
	"sky", "blue", "indigo", "violet", "purple", "fuchsia", "pink", "rose",
}

// Valid reports whether the accent belongs to [Palette].
func (a Accent) Valid() bool {
	return slices.Contains(Palette, a)
}

func (a Accent) String() string {
	return string(a)
}
