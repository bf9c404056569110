package screen

import "image"

// A 320x200 mode 13h frame is shown at 4:3, so each pixel is 5 wide by 6
// tall when scaled for a square pixel display.
const (
	AspectX = 5
	AspectY = 6
)

// Scale repeats every pixel of src sx times horizontally and sy times
// vertically. The palette is shared with src.
func Scale(src *image.Paletted, sx, sy int) *image.Paletted {
	if sx < 1 {
		sx = 1
	}
	if sy < 1 {
		sy = 1
	}
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx()*sx, b.Dy()*sy), src.Palette)
	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*sy*dst.Stride : y*sy*dst.Stride+dst.Rect.Dx()]
		for x := 0; x < b.Dx(); x++ {
			c := src.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
			for i := x * sx; i < (x+1)*sx; i++ {
				row[i] = c
			}
		}
		for i := 1; i < sy; i++ {
			copy(dst.Pix[(y*sy+i)*dst.Stride:], row)
		}
	}
	return dst
}
