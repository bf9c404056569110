package screen

import (
	"image"
	"image/color"
)

const (
	Width  = 320
	Height = 200
)

// Presenter receives palettes and palette-indexed frames.
type Presenter interface {
	// SetScreenPalette sets count entries starting at offset from 6-bit
	// RGB triplets.
	SetScreenPalette(colors []byte, offset, count int)
	// UpdateScreen copies a palette-indexed frame with the given row pitch.
	UpdateScreen(p []byte, pitch int, present bool)
}

type discard struct{}

func (discard) SetScreenPalette([]byte, int, int) {}
func (discard) UpdateScreen([]byte, int, bool)    {}

// Discard is a Presenter that drops everything.
var Discard Presenter = discard{}

// Framebuffer is an in-memory Presenter backed by an image.Paletted.
type Framebuffer struct {
	img      *image.Paletted
	presents int
}

func NewFramebuffer(w, h int) *Framebuffer {
	palette := make(color.Palette, 256)
	for i := range palette {
		palette[i] = vgaColor{}
	}
	return &Framebuffer{
		img: image.NewPaletted(image.Rect(0, 0, w, h), palette),
	}
}

func (fb *Framebuffer) SetScreenPalette(colors []byte, offset, count int) {
	for i := 0; i < count; i++ {
		idx := offset + i
		if idx < 0 || idx >= len(fb.img.Palette) || 3*i+3 > len(colors) {
			return
		}
		fb.img.Palette[idx] = newVGAColor(colors[3*i:])
	}
}

func (fb *Framebuffer) UpdateScreen(p []byte, pitch int, present bool) {
	b := fb.img.Bounds()
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		if y*pitch+w > len(p) {
			break
		}
		copy(fb.img.Pix[y*fb.img.Stride:y*fb.img.Stride+w], p[y*pitch:y*pitch+w])
	}
	if present {
		fb.presents++
	}
}

// Image returns the current frame.
func (fb *Framebuffer) Image() *image.Paletted { return fb.img }

// Presents is the number of presented frames.
func (fb *Framebuffer) Presents() int { return fb.presents }
