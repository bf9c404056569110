package resource

import (
	"bytes"
	"encoding/binary"
)

const (
	ImageWidth      = 320
	ImageMinHeight  = 200
	ImagePlanes     = 4
	ImageByteRun    = 1
	ScanlineSize    = ImageWidth / 8 * ImagePlanes
	MaxBodyBytes    = 32000
	MaxImageRows    = MaxBodyBytes / ScanlineSize
	MaxPaletteBytes = 256 * 3
)

var (
	tagForm = [4]byte{'F', 'O', 'R', 'M'}
	tagBMHD = [4]byte{'B', 'M', 'H', 'D'}
	tagCMAP = [4]byte{'C', 'M', 'A', 'P'}
	tagBODY = [4]byte{'B', 'O', 'D', 'Y'}
)

// formHeaderSize covers "FORM", the form length and the form type.
const formHeaderSize = 12

type chunkHeader struct {
	Tag    [4]byte
	Length uint32
}

const chunkHeaderSize = 8

// BitmapHeader is the BMHD chunk payload.
type BitmapHeader struct {
	Width       uint16
	Height      uint16
	X           int16
	Y           int16
	Planes      uint8
	Masking     uint8
	Compression uint8
	_           uint8
	Transparent uint16
	XAspect     uint8
	YAspect     uint8
	PageWidth   int16
	PageHeight  int16
}

func (h BitmapHeader) validate() error {
	if h.Width != ImageWidth || h.Height < ImageMinHeight {
		return formatError("unhandled image dimensions %d,%d", h.Width, h.Height)
	}
	if h.Planes != ImagePlanes {
		return formatError("unhandled image planes count %d", h.Planes)
	}
	if h.Compression != ImageByteRun {
		return formatError("unhandled image compression %d", h.Compression)
	}
	return nil
}

// ImageInfo describes what DecodeImage found and wrote.
type ImageInfo struct {
	Header BitmapHeader
	// Colors is the number of palette entries copied.
	Colors int
	// Rows is the number of scanlines written to the destination.
	Rows int
}

// DecodeImage decodes a chunked bitplane image into one palette index per
// pixel. Row y of the image is written to dst[y*pitch:], which lets callers
// place the image in a region of a wider buffer. The palette chunk is copied
// verbatim into palette.
//
// At most MaxImageRows rows are decoded per call. A body shorter than the
// declared height is not an error here; Rows reports what was written.
func DecodeImage(b []byte, dst []byte, pitch int, palette []byte) (ImageInfo, error) {
	var info ImageInfo

	if len(b) < formHeaderSize || !bytes.Equal(b[:4], tagForm[:]) {
		return info, formatError("missing FORM header")
	}

	var header *BitmapHeader
	var chunk chunkHeader
	var body bool
	r := bytes.NewReader(b)
	offset := formHeaderSize

	for offset+chunkHeaderSize <= len(b) {
		r.Reset(b[offset:])
		if err := binary.Read(r, binary.BigEndian, &chunk); err != nil {
			return info, err
		}

		start := offset + chunkHeaderSize
		length := int(chunk.Length)
		if length < 0 || start+length > len(b) {
			return info, formatError("chunk %q length %d exceeds %d bytes", chunk.Tag[:], length, len(b)-start)
		}
		payload := b[start : start+length]

		switch chunk.Tag {
		case tagBMHD:
			var h BitmapHeader
			if err := binary.Read(bytes.NewReader(payload), binary.BigEndian, &h); err != nil {
				return info, formatError("short BMHD chunk: %v", err)
			}
			if err := h.validate(); err != nil {
				return info, err
			}
			header = &h
			info.Header = h
		case tagCMAP:
			if len(payload) > len(palette) {
				return info, formatError("palette of %d bytes exceeds %d", len(payload), len(palette))
			}
			copy(palette, payload)
			info.Colors = len(payload) / 3
		case tagBODY:
			if header == nil {
				return info, formatError("BODY before BMHD")
			}
			rows, err := decodeBody(payload, header, dst, pitch)
			if err != nil {
				return info, err
			}
			info.Rows = rows
			body = true
		}

		offset = start + (length+1)&^1
	}

	if !body {
		return info, formatError("missing BODY chunk")
	}
	return info, nil
}

func decodeBody(src []byte, header *BitmapHeader, dst []byte, pitch int) (int, error) {
	rows := int(header.Height)
	if rows > MaxImageRows {
		rows = MaxImageRows
	}
	if pitch < ImageWidth {
		return 0, boundsError("row pitch %d below image width %d", pitch, ImageWidth)
	}
	if need := (rows-1)*pitch + ImageWidth; len(dst) < need {
		return 0, boundsError("destination of %d bytes cannot hold %d rows at pitch %d", len(dst), rows, pitch)
	}

	var (
		scanline [ScanlineSize]byte
		i        int
		offset   int
		y        int
	)

	for i < len(src) && offset < MaxBodyBytes {
		code := int(int8(src[i]))
		i++
		if code == -128 {
			continue
		}

		pos := offset % ScanlineSize
		if code < 0 {
			code = 1 - code
			if i >= len(src) {
				return y, formatError("run at body offset %d is truncated", i-1)
			}
			if pos+code > ScanlineSize {
				return y, formatError("run of %d bytes crosses scanline at %d", code, pos)
			}
			value := src[i]
			i++
			for k := 0; k < code; k++ {
				scanline[pos+k] = value
			}
		} else {
			code++
			if i+code > len(src) {
				return y, formatError("literal of %d bytes at body offset %d is truncated", code, i-1)
			}
			if pos+code > ScanlineSize {
				return y, formatError("literal of %d bytes crosses scanline at %d", code, pos)
			}
			copy(scanline[pos:], src[i:i+code])
			i += code
		}

		offset += code
		if offset%ScanlineSize == 0 {
			if y == rows {
				break
			}
			DeinterleaveScanline(scanline[:], ImagePlanes, dst[y*pitch:y*pitch+ImageWidth])
			y++
		}
	}

	return y, nil
}

// DeinterleaveScanline combines the bitplanes stored one after another in
// src into one palette index per pixel. Bit 7-i of byte x in each plane gives
// the bits of pixel 8*x+i, plane 0 being the least significant.
func DeinterleaveScanline(src []byte, planes int, dst []byte) {
	planeSize := len(src) / planes
	for x := 0; x < planeSize; x++ {
		for i := 0; i < 8; i++ {
			mask := uint8(1) << uint(7-i)
			var color uint8
			for bit := 0; bit < planes; bit++ {
				if src[bit*planeSize+x]&mask != 0 {
					color |= 1 << uint(bit)
				}
			}
			dst[x*8+i] = color
		}
	}
}
