package screen

import (
	"image/color"

	clr "github.com/lucasb-eyer/go-colorful"
)

// PaletteHex formats the first count 6-bit RGB triplets as #rrggbb strings.
func PaletteHex(colors []byte, count int) []string {
	p := Palette(colors, count)
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = hex(c)
	}
	return out
}

func hex(c color.Color) string {
	cf, _ := clr.MakeColor(c)
	return cf.Clamped().Hex()
}
