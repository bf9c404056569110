// Package decompression expands the packed files shipped with the game.
//
// Every packed file starts with a 4 byte header followed by the compressed
// payload:
//
//	byte 0    | bits 16-23 of the decompressed size
//	byte 1    | compression method
//	bytes 2-3 | bits 0-15 of the decompressed size (little-endian)
//
// The payload is handed to the Decompressor registered for the method.
package decompression

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrUnknownMethod = errors.New("decompression: unknown method")
	ErrSizeMismatch  = errors.New("decompression: size mismatch")
	ErrCorrupt       = errors.New("decompression: corrupt stream")
)

type Method uint8

const (
	MethodLZW     Method = 0x00
	MethodHuffman Method = 0x10
	MethodStored  Method = 0xFF
)

func (m Method) String() string {
	switch m {
	case MethodLZW:
		return "Method(LZW)"
	case MethodHuffman:
		return "Method(Huffman)"
	case MethodStored:
		return "Method(Stored)"
	}
	return fmt.Sprintf("Method(0x%02x)", uint8(m))
}

// Decompressor writes exactly size bytes decoded from src into dst.
type Decompressor = func(src io.Reader, dst io.Writer, size int) error

type LUT map[Method]Decompressor

func DecompressStored(src io.Reader, dst io.Writer, size int) error {
	n, err := io.CopyN(dst, src, int64(size))
	if err == io.EOF {
		return fmt.Errorf("%w: expected %d bytes got %d bytes", ErrSizeMismatch, size, n)
	}
	return err
}

func DecompressLZW(src io.Reader, dst io.Writer, size int) error {
	return lzw(dst, src, size)
}

func DecompressHuffman(src io.Reader, dst io.Writer, size int) error {
	return huffman(dst, src, size)
}

var Decompressors = struct {
	Titus LUT
}{
	Titus: LUT{
		MethodLZW:     DecompressLZW,
		MethodHuffman: DecompressHuffman,
		MethodStored:  DecompressStored,
	},
}

const HeaderSize = 4

type Header struct {
	Method Method
	Size   int
}

func ReadHeader(r io.Reader) (Header, error) {
	var raw struct {
		SizeHigh uint8
		Method   Method
		SizeLow  uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return Header{}, err
	}
	return Header{
		Method: raw.Method,
		Size:   int(raw.SizeHigh)<<16 | int(raw.SizeLow),
	}, nil
}

// WriteHeader is the inverse of ReadHeader.
func WriteHeader(w io.Writer, h Header) error {
	if h.Size < 0 || h.Size > 0xFFFFFF {
		return fmt.Errorf("%w: %d bytes does not fit the header", ErrSizeMismatch, h.Size)
	}
	b := [HeaderSize]byte{uint8(h.Size >> 16), uint8(h.Method), 0, 0}
	binary.LittleEndian.PutUint16(b[2:], uint16(h.Size))
	_, err := w.Write(b[:])
	return err
}

// Unpack decodes a packed file from r into dst and returns the decompressed
// size. dst is never grown; a declared size larger than dst is an error.
func Unpack(r io.Reader, dst []byte, lut LUT) (int, error) {
	if lut == nil {
		lut = Decompressors.Titus
	}

	header, err := ReadHeader(r)
	if err != nil {
		return 0, err
	}

	decompressor, ok := lut[header.Method]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownMethod, header.Method)
	}

	if header.Size > len(dst) {
		return 0, fmt.Errorf("%w: declared %d bytes, buffer holds %d", ErrSizeMismatch, header.Size, len(dst))
	}

	w := &fixedWriter{buf: dst[:header.Size]}
	if err := decompressor(r, w, header.Size); err != nil {
		return 0, err
	}
	if w.n != header.Size {
		return 0, fmt.Errorf("%w: expected %d bytes got %d bytes", ErrSizeMismatch, header.Size, w.n)
	}
	return header.Size, nil
}

type fixedWriter struct {
	buf []byte
	n   int
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.n:], p)
	w.n += n
	if n < len(p) {
		return n, fmt.Errorf("%w: output exceeds %d bytes", ErrSizeMismatch, len(w.buf))
	}
	return n, nil
}
