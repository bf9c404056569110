package blues

import (
	"errors"
	"fmt"

	"github.com/32bitkid/blues/resource"
	"github.com/hashicorp/go-hclog"
)

var (
	// ErrAllocation reports a buffer size that does not fit the layout the
	// loaders rely on. It is a consistency check on the size constants; a
	// buffer that cannot be allocated panics in the runtime instead.
	ErrAllocation = errors.New("blues: allocation failed")
	ErrShortRead  = errors.New("blues: short read")
	ErrClosed     = errors.New("blues: resources closed")
)

// Buffer sizes.
const (
	LevelMapSize    = 1000 * 16
	LevelMapPitch   = 128
	SpriteArenaSize = 64000
	AvatarArenaSize = 437 * 16
	ScratchSize     = 32000 + 64000
	ScreenSize      = 320 * 200
	TileAtlasPitch  = 640
	TileAtlasSize   = 640 * 200
	SoundSize       = 29376

	MaxSpriteFrames = 256
	MaxAvatarFrames = 64
)

const (
	soundFile = "sound"
	demoFile  = "demomag.sql"
)

type Flags uint8

const (
	// FlagDemo is set when the data files are the demo version.
	FlagDemo Flags = 1 << iota
)

// Resources owns the buffers the loaders decode into. Frames, avatars and
// triggers reference those buffers and stay valid until Close.
type Resources struct {
	root Root
	log  hclog.Logger

	levelMap []byte
	sprites  []byte
	avatars  []byte
	tmp      []byte
	vga      []byte
	tiles    []byte
	sound    []byte

	palette [resource.MaxPaletteBytes]byte

	spriteFrames resource.FrameTable
	avatarFrames resource.AvatarTable
	triggers     [resource.MaxTriggers]resource.Trigger

	flags  Flags
	closed bool
}

type arena struct {
	name string
	size int
	buf  *[]byte
}

// arenas lists the buffers in acquisition order.
func (res *Resources) arenas() []arena {
	return []arena{
		{"sql", LevelMapSize, &res.levelMap},
		{"sprite", SpriteArenaSize, &res.sprites},
		{"avt", AvatarArenaSize, &res.avatars},
		{"tmp", ScratchSize, &res.tmp},
		{"vga", ScreenSize, &res.vga},
		{"tiles", TileAtlasSize, &res.tiles},
		{"sound", SoundSize, &res.sound},
	}
}

func allocate(name string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s buffer, %d bytes", ErrAllocation, name, size)
	}
	return make([]byte, size), nil
}

func checkLayout() error {
	switch {
	case ScreenSize != resource.ImageWidth*resource.MaxImageRows:
		return fmt.Errorf("%w: vga buffer of %d bytes does not match a %dx%d screen", ErrAllocation, ScreenSize, resource.ImageWidth, resource.MaxImageRows)
	case ScratchSize < resource.MaxBodyBytes+ScreenSize:
		return fmt.Errorf("%w: tmp buffer of %d bytes cannot hold a packed image and a screen", ErrAllocation, ScratchSize)
	case TileAtlasSize < (resource.MaxImageRows-1)*TileAtlasPitch+2*resource.ImageWidth:
		return fmt.Errorf("%w: tiles buffer of %d bytes cannot hold two pages", ErrAllocation, TileAtlasSize)
	case LevelMapSize%LevelMapPitch != 0:
		return fmt.Errorf("%w: sql buffer of %d bytes is not a whole number of rows", ErrAllocation, LevelMapSize)
	}
	return nil
}

// Open allocates the buffers, loads the optional sound data and detects the
// demo version.
func (root Root) Open() (*Resources, error) {
	root = root.withDefaults()
	res := &Resources{
		root:         root,
		log:          root.Logger,
		spriteFrames: resource.NewFrameTable(MaxSpriteFrames),
		avatarFrames: resource.NewAvatarTable(MaxAvatarFrames),
	}

	if err := checkLayout(); err != nil {
		return nil, err
	}

	for _, a := range res.arenas() {
		if a.buf == &res.sound {
			continue
		}
		buf, err := allocate(a.name, a.size)
		if err != nil {
			return nil, err
		}
		*a.buf = buf
		res.log.Trace("allocated buffer", "name", a.name, "size", a.size)
	}

	if err := res.loadSound(); err != nil {
		return nil, err
	}

	if root.Exists(demoFile) {
		res.flags |= FlagDemo
		res.log.Debug("demo data detected", "file", demoFile)
	}

	return res, nil
}

func (res *Resources) loadSound() error {
	size, ok, err := res.root.size(soundFile)
	if err != nil {
		return err
	}
	if !ok {
		res.log.Debug("no sound data", "file", soundFile)
		return nil
	}

	snd, err := allocate("sound", SoundSize)
	if err != nil {
		res.log.Warn("failed to allocate sound buffer", "size", SoundSize, "error", err)
		return nil
	}
	if size != SoundSize {
		res.log.Warn("unexpected file size", "file", soundFile, "size", size, "expected", SoundSize)
		return nil
	}
	if _, err := res.root.readFile(soundFile, snd); err != nil {
		return err
	}
	res.sound = snd
	return nil
}

// Close releases the buffers in acquisition order. Loads fail with ErrClosed
// afterwards.
func (res *Resources) Close() error {
	if res.closed {
		return nil
	}
	for _, a := range res.arenas() {
		*a.buf = nil
		res.log.Trace("released buffer", "name", a.name)
	}
	for i := range res.spriteFrames {
		res.spriteFrames[i] = resource.Frame{}
	}
	for i := range res.avatarFrames {
		res.avatarFrames[i] = nil
	}
	res.triggers = [resource.MaxTriggers]resource.Trigger{}
	res.closed = true
	return nil
}

func (res *Resources) Flags() Flags { return res.flags }
func (res *Resources) IsDemo() bool { return res.flags&FlagDemo != 0 }

// Palette is the palette of the last decoded image as 6-bit RGB triplets.
func (res *Resources) Palette() []byte { return res.palette[:] }

// Screen is the 320x200 palette-indexed copy of the last full screen image.
func (res *Resources) Screen() []byte { return res.vga }

// TileAtlas holds two tile pages side by side, TileAtlasPitch bytes per row.
func (res *Resources) TileAtlas() []byte { return res.tiles }

// Scratch is the temporary buffer shared by the loaders.
func (res *Resources) Scratch() []byte { return res.tmp }

// Sound is the raw sound data, nil when it is missing or unusable.
func (res *Resources) Sound() []byte { return res.sound }
