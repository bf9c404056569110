package blues

import (
	"bytes"
	"encoding/binary"
	"io/fs"
	"testing/fstest"

	"github.com/32bitkid/blues/decompression"
	"github.com/32bitkid/blues/resource"
)

func pack(data []byte) []byte {
	var buf bytes.Buffer
	if err := decompression.WriteHeader(&buf, decompression.Header{
		Method: decompression.MethodStored,
		Size:   len(data),
	}); err != nil {
		panic(err)
	}
	buf.Write(data)
	return buf.Bytes()
}

func iffChunk(tag string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(tag)
	binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)&1 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// testImage is a 320x200 image where every pixel of row y has color
// y % 16, with a 16 color grey palette.
func testImage() []byte {
	return imageWithRows(200)
}

// imageWithRows is testImage with only the first rows scanlines in its
// body. A negative count leaves out the BODY chunk.
func imageWithRows(rows int) []byte {
	var hdr bytes.Buffer
	binary.Write(&hdr, binary.BigEndian, resource.BitmapHeader{
		Width:       resource.ImageWidth,
		Height:      200,
		Planes:      resource.ImagePlanes,
		Compression: resource.ImageByteRun,
	})

	cmap := make([]byte, 16*3)
	for i := range cmap {
		cmap[i] = uint8(i / 3 * 4)
	}

	var body bytes.Buffer
	for y := 0; y < rows; y++ {
		c := y % 16
		for plane := 0; plane < resource.ImagePlanes; plane++ {
			var v byte
			if c&(1<<uint(plane)) != 0 {
				v = 0xff
			}
			// run of 40: 1-n as a signed byte
			body.Write([]byte{0xd9, v})
		}
	}

	parts := [][]byte{
		iffChunk("BMHD", hdr.Bytes()),
		iffChunk("CMAP", cmap),
	}
	if rows >= 0 {
		parts = append(parts, iffChunk("BODY", body.Bytes()))
	}
	chunks := bytes.Join(parts, nil)

	var buf bytes.Buffer
	buf.WriteString("FORM")
	binary.Write(&buf, binary.BigEndian, uint32(len(chunks)+4))
	buf.WriteString("ILBM")
	buf.Write(chunks)
	return buf.Bytes()
}

func spriteSheet(dims ...[2]int) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(len(dims)))
	for i, d := range dims {
		w, h := d[0], d[1]
		binary.Write(&buf, binary.LittleEndian, uint16(h))
		binary.Write(&buf, binary.LittleEndian, uint16(w))
		buf.Write(bytes.Repeat([]byte{uint8(i + 1)}, w/2*h))
	}
	return buf.Bytes()
}

func avatarSheet(count int) []byte {
	data := []byte{uint8(count), 0, 0, 0, 0, 0}
	for i := 0; i < count; i++ {
		data = append(data, bytes.Repeat([]byte{uint8(i)}, resource.AvatarRecordSize)...)
	}
	return data
}

func triggerTable() []byte {
	data := make([]byte, resource.TriggerTableSize)
	for i := 0; i < resource.MaxTriggers; i++ {
		b := data[i*resource.TriggerRecordSize:]
		b[0] = uint8(i)
		b[3] = uint8(i % 4)
		b[4] = resource.NoTable
		b[6] = resource.NoTable
	}
	return data
}

func testLookups() resource.TriggerLookups {
	tables := func(n int) resource.Tables {
		t := make(resource.Tables, n)
		for i := range t {
			t[i] = []byte{uint8(i)}
		}
		return t
	}
	return resource.TriggerLookups{
		Triggers:   tables(4),
		Tiles:      tables(86),
		TilesExtra: tables(17),
		Actions:    tables(61),
	}
}

func testFS() fstest.MapFS {
	levelMap := make([]byte, LevelMapSize)
	for i := range levelMap {
		levelMap[i] = uint8(i)
	}
	return fstest.MapFS{
		"titus.eat":  {Data: pack(testImage())},
		"page3.ck":   {Data: pack(testImage())},
		"player.sqv": {Data: pack(spriteSheet([2]int{16, 2}, [2]int{8, 4}))},
		"level.sqv":  {Data: pack(spriteSheet([2]int{4, 1}))},
		"heads.avt":  {Data: pack(avatarSheet(3))},
		"level1.bin": {Data: triggerTable()},
		"level1.sql": {Data: pack(levelMap)},
		"notes.txt":  {Data: []byte("ignored")},
	}
}

// sizedFS reports size for name whatever its contents, so reads of it come
// up short.
type sizedFS struct {
	fstest.MapFS
	name string
	size int64
}

type sizedInfo struct {
	fs.FileInfo
	size int64
}

func (i sizedInfo) Size() int64 { return i.size }

type sizedFile struct {
	fs.File
	size int64
}

func (f sizedFile) Stat() (fs.FileInfo, error) {
	info, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return sizedInfo{FileInfo: info, size: f.size}, nil
}

func (fsys sizedFS) Open(name string) (fs.File, error) {
	f, err := fsys.MapFS.Open(name)
	if err != nil || name != fsys.name {
		return f, err
	}
	return sizedFile{File: f, size: fsys.size}, nil
}

func (fsys sizedFS) Stat(name string) (fs.FileInfo, error) {
	info, err := fsys.MapFS.Stat(name)
	if err != nil || name != fsys.name {
		return info, err
	}
	return sizedInfo{FileInfo: info, size: fsys.size}, nil
}
