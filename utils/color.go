package utils

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// colorNames maps the handful of color tags show files tend to use onto hex
// values. Anything else has to be a hex string already.
var colorNames = map[string]string{
	"red":     "#FF0000",
	"orange":  "#FFA500",
	"yellow":  "#FFFF00",
	"green":   "#00FF00",
	"cyan":    "#00FFFF",
	"blue":    "#0000FF",
	"magenta": "#FF00FF",
	"purple":  "#800080",
	"white":   "#FFFFFF",
	"grey":    "#808080",
	"gray":    "#808080",
}

// GetColorFromString resolves a cue color tag, either a name like "red" or a
// hex string like "#FF8800", to a colorful.Color. Unknown tags come back
// white rather than failing the whole cue.
func GetColorFromString(s string) colorful.Color {
	if hex, ok := colorNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}
