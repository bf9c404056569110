package screen

import (
	"fmt"
	"image"
	"image/color"

	"github.com/32bitkid/blues/resource"
)

// Atlas is a set of sprite frames packed into one paletted image.
type Atlas struct {
	Image *image.Paletted
	Rects []image.Rectangle
}

// NewAtlas packs frames left to right in rows no wider than width. Frame
// colors are shifted by paletteOffset; index 0 stays transparent.
func NewAtlas(frames []resource.Frame, width int, palette color.Palette, paletteOffset uint8) (*Atlas, error) {
	rects := make([]image.Rectangle, len(frames))
	x, y, rowHeight, height := 0, 0, 0, 0
	for i, f := range frames {
		if f.Width > width {
			return nil, fmt.Errorf("sprite %d is %d pixels wide, atlas is %d", i, f.Width, width)
		}
		if x+f.Width > width {
			x, y, rowHeight = 0, y+rowHeight, 0
		}
		rects[i] = image.Rect(x, y, x+f.Width, y+f.Height)
		x += f.Width
		if f.Height > rowHeight {
			rowHeight = f.Height
		}
		if y+rowHeight > height {
			height = y + rowHeight
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for i, f := range frames {
		r := rects[i]
		if r.Empty() {
			continue
		}
		if err := f.Decode(img.Pix[img.PixOffset(r.Min.X, r.Min.Y):], img.Stride, paletteOffset); err != nil {
			return nil, fmt.Errorf("sprite %d: %w", i, err)
		}
	}

	return &Atlas{Image: img, Rects: rects}, nil
}
