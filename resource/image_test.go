package resource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(tag string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(tag)
	binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)&1 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func form(chunks ...[]byte) []byte {
	body := bytes.Join(chunks, nil)
	var buf bytes.Buffer
	buf.WriteString("FORM")
	binary.Write(&buf, binary.BigEndian, uint32(len(body)+4))
	buf.WriteString("PBM ")
	buf.Write(body)
	return buf.Bytes()
}

func bmhd(w, h uint16, planes, compression uint8) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, BitmapHeader{
		Width:       w,
		Height:      h,
		Planes:      planes,
		Compression: compression,
		PageWidth:   int16(w),
		PageHeight:  int16(h),
	})
	return chunk("BMHD", buf.Bytes())
}

// literalBody encodes each scanline as 40 literal spans of 4 bytes.
func literalBody(rows int, line func(y int) []byte) []byte {
	var buf bytes.Buffer
	for y := 0; y < rows; y++ {
		l := line(y)
		for x := 0; x < ScanlineSize; x += 4 {
			buf.WriteByte(3)
			buf.Write(l[x : x+4])
		}
	}
	return buf.Bytes()
}

// planeLine builds a scanline whose four planes repeat the given bytes.
func planeLine(p0, p1, p2, p3 byte) []byte {
	l := make([]byte, ScanlineSize)
	planeSize := ScanlineSize / ImagePlanes
	for x := 0; x < planeSize; x++ {
		l[x] = p0
		l[planeSize+x] = p1
		l[2*planeSize+x] = p2
		l[3*planeSize+x] = p3
	}
	return l
}

var testPalette = func() []byte {
	p := make([]byte, 16*3)
	for i := range p {
		p[i] = uint8(i)
	}
	return p
}()

func validImage(rows int) []byte {
	return form(
		bmhd(ImageWidth, 200, ImagePlanes, ImageByteRun),
		chunk("CMAP", testPalette),
		chunk("BODY", literalBody(rows, func(y int) []byte {
			return planeLine(uint8(y), 0xf0, 0x0f, 0xaa)
		})),
	)
}

func TestDecodeImage(t *testing.T) {
	dst := make([]byte, ImageWidth*200)
	palette := make([]byte, MaxPaletteBytes)

	info, err := DecodeImage(validImage(200), dst, ImageWidth, palette)
	require.NoError(t, err)

	assert.Equal(t, 200, info.Rows)
	assert.Equal(t, 16, info.Colors)
	assert.Equal(t, uint16(ImageWidth), info.Header.Width)
	assert.Equal(t, testPalette, palette[:len(testPalette)])

	for i, c := range dst {
		require.Less(t, c, uint8(16), "pixel %d", i)
	}

	// Row 0: plane0 = 0x00, plane1 = 0xf0, plane2 = 0x0f, plane3 = 0xaa
	expected := []byte{
		0x2 | 0x8, 0x2, 0x2 | 0x8, 0x2,
		0x4 | 0x8, 0x4, 0x4 | 0x8, 0x4,
	}
	assert.Equal(t, expected, dst[:8])
	assert.Equal(t, expected, dst[ImageWidth-8:ImageWidth])

	// Row 199 has plane0 = 0xc7.
	row := dst[199*ImageWidth:]
	assert.Equal(t, uint8(0x1|0x2|0x8), row[0])
	assert.Equal(t, uint8(0x1|0x2), row[1])
}

func TestDecodeImageAllPlanesSet(t *testing.T) {
	dst := make([]byte, ImageWidth*200)
	img := form(
		bmhd(ImageWidth, 200, ImagePlanes, ImageByteRun),
		chunk("BODY", literalBody(200, func(int) []byte { return planeLine(0xff, 0xff, 0xff, 0xff) })),
	)
	info, err := DecodeImage(img, dst, ImageWidth, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, info.Rows)
	assert.Equal(t, 0, info.Colors)
	assert.Equal(t, bytes.Repeat([]byte{15}, len(dst)), dst)
}

func TestDecodeImageRuns(t *testing.T) {
	// Each scanline: a run of 128 bytes of 0xff then a run of 32 bytes of 0x00,
	// with a no-op code in between.
	var body bytes.Buffer
	for y := 0; y < 200; y++ {
		body.Write([]byte{0x81, 0xff, 0x80, 0xe1, 0x00})
	}
	dst := make([]byte, ImageWidth*200)
	info, err := DecodeImage(form(bmhd(ImageWidth, 200, 4, 1), chunk("BODY", body.Bytes())), dst, ImageWidth, nil)
	require.NoError(t, err)
	require.Equal(t, 200, info.Rows)

	// Planes 0-2 are set everywhere; plane 3 only covers its first 8 bytes.
	row := dst[:ImageWidth]
	for x := 0; x < 64; x++ {
		assert.Equal(t, uint8(15), row[x], "pixel %d", x)
	}
	for x := 64; x < ImageWidth; x++ {
		assert.Equal(t, uint8(7), row[x], "pixel %d", x)
	}
}

func TestDecodeImageStopsAtRowCeiling(t *testing.T) {
	img := form(
		bmhd(ImageWidth, 400, ImagePlanes, ImageByteRun),
		chunk("BODY", literalBody(250, func(int) []byte { return planeLine(0xff, 0, 0, 0) })),
	)
	dst := make([]byte, ImageWidth*MaxImageRows)
	info, err := DecodeImage(img, dst, ImageWidth, nil)
	require.NoError(t, err)
	assert.Equal(t, MaxImageRows, info.Rows)
}

func TestDecodeImageStopsAtChunkLength(t *testing.T) {
	img := form(
		bmhd(ImageWidth, 200, ImagePlanes, ImageByteRun),
		chunk("BODY", literalBody(120, func(int) []byte { return planeLine(0xff, 0, 0, 0) })),
		chunk("JUNK", []byte{1, 2, 3}),
	)
	dst := make([]byte, ImageWidth*200)
	info, err := DecodeImage(img, dst, ImageWidth, nil)
	require.NoError(t, err)
	assert.Equal(t, 120, info.Rows)
	assert.Equal(t, uint8(1), dst[119*ImageWidth])
	assert.Equal(t, uint8(0), dst[120*ImageWidth])
}

func TestDecodeImageIsDeterministic(t *testing.T) {
	img := validImage(200)
	a := make([]byte, ImageWidth*200)
	b := make([]byte, ImageWidth*200)
	for i := range b {
		b[i] = 0xee
	}
	_, err := DecodeImage(img, a, ImageWidth, make([]byte, MaxPaletteBytes))
	require.NoError(t, err)
	_, err = DecodeImage(img, b, ImageWidth, make([]byte, MaxPaletteBytes))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeImageIntoAtlas(t *testing.T) {
	const pitch = 2 * ImageWidth
	atlas := make([]byte, pitch*200)
	img := form(
		bmhd(ImageWidth, 200, ImagePlanes, ImageByteRun),
		chunk("BODY", literalBody(200, func(int) []byte { return planeLine(0xff, 0xff, 0, 0) })),
	)
	_, err := DecodeImage(img, atlas[ImageWidth:], pitch, nil)
	require.NoError(t, err)
	for y := 0; y < 200; y++ {
		row := atlas[y*pitch : (y+1)*pitch]
		assert.Equal(t, make([]byte, ImageWidth), row[:ImageWidth], "left half of row %d", y)
		assert.Equal(t, bytes.Repeat([]byte{3}, ImageWidth), row[ImageWidth:], "right half of row %d", y)
	}
}

func TestDecodeImageRejectsHeaders(t *testing.T) {
	testCases := []struct {
		name        string
		w, h        uint16
		planes      uint8
		compression uint8
	}{
		{"width", 319, 200, 4, 1},
		{"height", 320, 199, 4, 1},
		{"planes", 320, 200, 5, 1},
		{"uncompressed", 320, 200, 4, 0},
		{"vertical rle", 320, 200, 4, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := form(
				bmhd(tc.w, tc.h, tc.planes, tc.compression),
				chunk("BODY", literalBody(200, func(int) []byte { return planeLine(0xff, 0xff, 0xff, 0xff) })),
			)
			dst := bytes.Repeat([]byte{0xaa}, ImageWidth*200)
			_, err := DecodeImage(img, dst, ImageWidth, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
			assert.Equal(t, bytes.Repeat([]byte{0xaa}, ImageWidth*200), dst)
		})
	}
}

func TestDecodeImageErrors(t *testing.T) {
	good := bmhd(ImageWidth, 200, ImagePlanes, ImageByteRun)
	testCases := []struct {
		name  string
		data  []byte
		dst   int
		pitch int
		err   error
	}{
		{
			name:  "not a form",
			data:  append([]byte("LIST"), validImage(1)[4:]...),
			dst:   ImageWidth * 200,
			pitch: ImageWidth,
			err:   ErrFormat,
		},
		{
			name:  "body before header",
			data:  form(chunk("BODY", []byte{0x80}), good),
			dst:   ImageWidth * 200,
			pitch: ImageWidth,
			err:   ErrFormat,
		},
		{
			name:  "missing body",
			data:  form(good, chunk("CMAP", testPalette)),
			dst:   ImageWidth * 200,
			pitch: ImageWidth,
			err:   ErrFormat,
		},
		{
			name:  "run crosses scanline",
			data:  form(good, chunk("BODY", []byte{0x81, 0xff, 0x81, 0xff})),
			dst:   ImageWidth * 200,
			pitch: ImageWidth,
			err:   ErrFormat,
		},
		{
			name:  "truncated literal",
			data:  form(good, chunk("BODY", []byte{0x10, 0x01, 0x02})),
			dst:   ImageWidth * 200,
			pitch: ImageWidth,
			err:   ErrFormat,
		},
		{
			name:  "chunk longer than file",
			data:  validImage(1)[:60],
			dst:   ImageWidth * 200,
			pitch: ImageWidth,
			err:   ErrFormat,
		},
		{
			name:  "destination too small",
			data:  validImage(1),
			dst:   ImageWidth * 100,
			pitch: ImageWidth,
			err:   ErrBounds,
		},
		{
			name:  "pitch below width",
			data:  validImage(1),
			dst:   ImageWidth * 200,
			pitch: 160,
			err:   ErrBounds,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeImage(tc.data, make([]byte, tc.dst), tc.pitch, make([]byte, MaxPaletteBytes))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.err), "got %v", err)
		})
	}
}

func TestDecodeImagePaletteTooLarge(t *testing.T) {
	img := form(bmhd(ImageWidth, 200, 4, 1), chunk("CMAP", make([]byte, 96)))
	_, err := DecodeImage(img, make([]byte, ImageWidth*200), ImageWidth, make([]byte, 48))
	assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
}

func TestDeinterleaveScanline(t *testing.T) {
	// Two planes of one byte each.
	dst := make([]byte, 8)
	DeinterleaveScanline([]byte{0x81, 0x03}, 2, dst)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 2, 3}, dst)
}
