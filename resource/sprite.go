package resource

import (
	"encoding/binary"
)

const (
	// SheetHeaderSize is the frame count plus the first frame's dimensions.
	SheetHeaderSize = 6
	FrameHeaderSize = 4
)

// Frame is one sprite frame: 4-bit pixels, two per byte, high nibble first.
type Frame struct {
	// Offset is the position of the pixel data within the sheet.
	Offset int
	Width  int
	Height int
	Pixels []byte
}

// Span is the number of sheet bytes taken by the frame and its header.
func (f Frame) Span() int {
	return len(f.Pixels) + FrameHeaderSize
}

// MaxPaletteOffset keeps every shifted 4-bit color inside a 256 color
// palette.
const MaxPaletteOffset = 0xff - 0xf

// Decode expands the packed pixels into one byte per pixel, row y at
// dst[y*pitch:]. Non-zero colors are shifted by paletteOffset, at most
// MaxPaletteOffset; color 0 is transparent and left as 0.
func (f Frame) Decode(dst []byte, pitch int, paletteOffset uint8) error {
	if paletteOffset > MaxPaletteOffset {
		return boundsError("palette offset %d above %d", paletteOffset, MaxPaletteOffset)
	}
	if f.Width == 0 || f.Height == 0 {
		return nil
	}
	if pitch < f.Width || len(dst) < (f.Height-1)*pitch+f.Width {
		return boundsError("destination of %d bytes cannot hold %dx%d frame at pitch %d", len(dst), f.Width, f.Height, pitch)
	}
	stride := f.Width >> 1
	for y := 0; y < f.Height; y++ {
		row := f.Pixels[y*stride : (y+1)*stride]
		out := dst[y*pitch:]
		for x, b := range row {
			out[2*x] = shiftColor(b>>4, paletteOffset)
			out[2*x+1] = shiftColor(b&0xf, paletteOffset)
		}
	}
	return nil
}

func shiftColor(c, offset uint8) uint8 {
	if c == 0 {
		return 0
	}
	return c + offset
}

// FrameTable is a fixed capacity table of frames shared by several sheets.
type FrameTable []Frame

func NewFrameTable(n int) FrameTable {
	return make(FrameTable, n)
}

// At returns frame i, failing when i is out of range or was never loaded.
func (t FrameTable) At(i int) (Frame, error) {
	if i < 0 || i >= len(t) {
		return Frame{}, boundsError("sprite frame %d outside table of %d", i, len(t))
	}
	if t[i].Pixels == nil {
		return Frame{}, boundsError("sprite frame %d not loaded", i)
	}
	return t[i], nil
}

// SheetInfo describes a parsed sprite sheet.
type SheetInfo struct {
	Count int
	// Consumed is the number of sheet bytes covered by the count field and
	// the frames.
	Consumed int
}

func readCount(b []byte) (int, error) {
	if len(b) < SheetHeaderSize {
		return 0, formatError("sheet of %d bytes is shorter than its header", len(b))
	}
	return int(binary.LittleEndian.Uint16(b)), nil
}

// LoadSpriteSheet records the frames of a sprite sheet in table, starting at
// table[base]. The frames reference b.
func LoadSpriteSheet(b []byte, table FrameTable, base int) (SheetInfo, error) {
	count, err := readCount(b)
	if err != nil {
		return SheetInfo{}, err
	}
	if base < 0 || base+count > len(table) {
		return SheetInfo{}, boundsError("%d frames at %d overflow table of %d", count, base, len(table))
	}

	frames := make([]Frame, 0, count)
	ptr := SheetHeaderSize
	for i := 0; i < count; i++ {
		if ptr > len(b) {
			return SheetInfo{}, formatError("sprite %d header at %d beyond %d bytes", i, ptr-FrameHeaderSize, len(b))
		}
		h := int(binary.LittleEndian.Uint16(b[ptr-4:]))
		w := int(binary.LittleEndian.Uint16(b[ptr-2:]))
		if w&3 != 0 {
			return SheetInfo{}, formatError("sprite %d width %d is not a multiple of 4", i, w)
		}
		size := (w >> 1) * h
		if ptr+size > len(b) {
			return SheetInfo{}, formatError("sprite %d, dim %d,%d overruns sheet of %d bytes", i, w, h, len(b))
		}
		frames = append(frames, Frame{
			Offset: ptr,
			Width:  w,
			Height: h,
			Pixels: b[ptr : ptr+size : ptr+size],
		})
		ptr += size + FrameHeaderSize
	}

	copy(table[base:], frames)
	return SheetInfo{
		Count:    count,
		Consumed: ptr - FrameHeaderSize,
	}, nil
}
