package screen

import (
	"image/color"
)

// vgaColor is a VGA DAC color with 6-bit components.
type vgaColor struct {
	R, G, B uint8
}

func newVGAColor(rgb []byte) vgaColor {
	return vgaColor{R: rgb[0] & 0x3f, G: rgb[1] & 0x3f, B: rgb[2] & 0x3f}
}

func expand6(c uint8) uint32 {
	v := uint32(c)<<2 | uint32(c)>>4
	return v<<8 | v
}

func (c vgaColor) RGBA() (r, g, b, a uint32) {
	return expand6(c.R), expand6(c.G), expand6(c.B), 0xffff
}

// Palette converts count 6-bit RGB triplets into a color.Palette.
func Palette(colors []byte, count int) color.Palette {
	if max := len(colors) / 3; count > max {
		count = max
	}
	p := make(color.Palette, count)
	for i := range p {
		p[i] = newVGAColor(colors[3*i:])
	}
	return p
}
