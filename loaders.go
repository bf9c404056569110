package blues

import (
	"fmt"

	"github.com/32bitkid/blues/resource"
)

// Page selects the half of the tile atlas a tile image is decoded into.
type Page uint16

const (
	Page3 Page = 0x6000
	Page4 Page = 0x8000
)

func (p Page) column() (int, error) {
	switch p {
	case Page3:
		return 0, nil
	case Page4:
		return resource.ImageWidth, nil
	}
	return 0, fmt.Errorf("%w: unexpected page 0x%x", resource.ErrBounds, uint16(p))
}

// paletteColors is the number of palette entries sent with every image.
const paletteColors = 16

func (res *Resources) check() error {
	if res.closed {
		return ErrClosed
	}
	return nil
}

// ReadFile reads name into dst and returns its size.
func (res *Resources) ReadFile(name string, dst []byte) (int, error) {
	if err := res.check(); err != nil {
		return 0, err
	}
	return res.root.readFile(name, dst)
}

// ReadCompressedFile unpacks name into dst and returns the unpacked size.
func (res *Resources) ReadCompressedFile(name string, dst []byte) (int, error) {
	if err := res.check(); err != nil {
		return 0, err
	}
	n, err := res.root.readCompressedFile(name, dst)
	if err != nil {
		return 0, err
	}
	res.log.Debug("unpacked file", "file", name, "size", n)
	return n, nil
}

func (res *Resources) decodeImage(name string, data, dst []byte, pitch int) error {
	info, err := resource.DecodeImage(data, dst, pitch, res.palette[:])
	if err != nil {
		return fmt.Errorf("image '%s': %w", name, err)
	}
	h := info.Header
	if want := min(int(h.Height), resource.MaxImageRows); info.Rows < want {
		return fmt.Errorf("%w: image '%s' has %d of %d scanlines", resource.ErrFormat, name, info.Rows, want)
	}
	res.log.Debug("decoded image", "file", name, "size", len(data),
		"w", h.Width, "h", h.Height, "planes", h.Planes, "compression", h.Compression,
		"colors", info.Colors, "scanlines", info.Rows)
	return nil
}

// LoadImage decodes a full screen image, presents it and keeps a copy in
// the screen buffer.
func (res *Resources) LoadImage(name string) error {
	if err := res.check(); err != nil {
		return err
	}
	packed := res.tmp[:resource.MaxBodyBytes]
	n, err := res.root.readCompressedFile(name, res.tmp)
	if err != nil {
		return err
	}
	if n > len(packed) {
		return fmt.Errorf("%w: image '%s' unpacks to %d bytes, limit is %d", resource.ErrFormat, name, n, len(packed))
	}

	frame := res.tmp[resource.MaxBodyBytes:]
	if err := res.decodeImage(name, packed[:n], frame, resource.ImageWidth); err != nil {
		return err
	}

	res.root.Presenter.SetScreenPalette(res.palette[:], 0, paletteColors)
	res.root.Presenter.UpdateScreen(frame, resource.ImageWidth, false)
	copy(res.vga, frame)
	return nil
}

// LoadTiles decodes a tile image into one half of the tile atlas.
func (res *Resources) LoadTiles(name string, page Page) error {
	if err := res.check(); err != nil {
		return err
	}
	column, err := page.column()
	if err != nil {
		return err
	}
	n, err := res.root.readCompressedFile(name, res.tmp)
	if err != nil {
		return err
	}
	if err := res.decodeImage(name, res.tmp[:n], res.tiles[column:], TileAtlasPitch); err != nil {
		return err
	}
	res.root.Presenter.SetScreenPalette(res.palette[:], 0, paletteColors)
	return nil
}

// LoadSprites unpacks a sprite sheet at arenaOffset in the sprite buffer and
// records its frames from frame base on.
func (res *Resources) LoadSprites(name string, arenaOffset, base int) (resource.SheetInfo, error) {
	if err := res.check(); err != nil {
		return resource.SheetInfo{}, err
	}
	if arenaOffset < 0 || arenaOffset >= len(res.sprites) {
		return resource.SheetInfo{}, fmt.Errorf("%w: sprite buffer offset %d", resource.ErrBounds, arenaOffset)
	}
	buf := res.sprites[arenaOffset:]
	n, err := res.root.readCompressedFile(name, buf)
	if err != nil {
		return resource.SheetInfo{}, err
	}
	info, err := resource.LoadSpriteSheet(buf[:n], res.spriteFrames, base)
	if err != nil {
		return info, fmt.Errorf("sprites '%s': %w", name, err)
	}
	res.log.Debug("loaded sprites", "file", name, "count", info.Count, "base", base)
	if res.log.IsTrace() {
		for i := 0; i < info.Count; i++ {
			f := res.spriteFrames[base+i]
			res.log.Trace("sprite", "index", i, "w", f.Width, "h", f.Height, "size", f.Span())
		}
	}
	return info, nil
}

// LoadAvatars unpacks an avatar sheet and records its frames from frame base
// on.
func (res *Resources) LoadAvatars(name string, base int) (int, error) {
	if err := res.check(); err != nil {
		return 0, err
	}
	n, err := res.root.readCompressedFile(name, res.avatars)
	if err != nil {
		return 0, err
	}
	count, err := resource.LoadAvatars(res.avatars[:n], res.avatarFrames, base)
	if err != nil {
		return 0, fmt.Errorf("avatars '%s': %w", name, err)
	}
	res.log.Debug("loaded avatars", "file", name, "count", count, "base", base)
	return count, nil
}

// LoadTriggers reads a trigger table and resolves its table references.
func (res *Resources) LoadTriggers(name string, lookups resource.TriggerLookups) error {
	if err := res.check(); err != nil {
		return err
	}
	var bin [resource.TriggerTableSize]byte
	n, err := res.root.readFile(name, bin[:])
	if err != nil {
		return err
	}
	if err := resource.LoadTriggers(bin[:n], lookups, res.triggers[:]); err != nil {
		return fmt.Errorf("triggers '%s': %w", name, err)
	}
	res.log.Debug("loaded triggers", "file", name, "count", resource.MaxTriggers)
	return nil
}

// LoadLevelMap unpacks a level map.
func (res *Resources) LoadLevelMap(name string) error {
	if err := res.check(); err != nil {
		return err
	}
	n, err := res.root.readCompressedFile(name, res.levelMap)
	if err != nil {
		return err
	}
	res.log.Debug("loaded level map", "file", name, "size", n)
	return nil
}

// LevelMap returns the level map from tile (x, y) on.
func (res *Resources) LevelMap(x, y int) ([]byte, error) {
	if err := res.check(); err != nil {
		return nil, err
	}
	if x < 0 || x >= LevelMapPitch || y < 0 {
		return nil, fmt.Errorf("%w: level map position %d,%d", resource.ErrBounds, x, y)
	}
	offset := y*LevelMapPitch + x
	if offset >= len(res.levelMap) {
		return nil, fmt.Errorf("%w: level map position %d,%d", resource.ErrBounds, x, y)
	}
	return res.levelMap[offset:], nil
}

func (res *Resources) SpriteFrame(i int) (resource.Frame, error) {
	if err := res.check(); err != nil {
		return resource.Frame{}, err
	}
	return res.spriteFrames.At(i)
}

// SpriteFrames returns frames [base, base+count).
func (res *Resources) SpriteFrames(base, count int) ([]resource.Frame, error) {
	if base < 0 || count < 0 || base+count > MaxSpriteFrames {
		return nil, fmt.Errorf("%w: sprite frames %d+%d", resource.ErrBounds, base, count)
	}
	frames := make([]resource.Frame, 0, count)
	for i := base; i < base+count; i++ {
		f, err := res.SpriteFrame(i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func (res *Resources) Avatar(i int) ([]byte, error) {
	if err := res.check(); err != nil {
		return nil, err
	}
	return res.avatarFrames.At(i)
}

func (res *Resources) Trigger(i int) (resource.Trigger, error) {
	if err := res.check(); err != nil {
		return resource.Trigger{}, err
	}
	if i < 0 || i >= len(res.triggers) {
		return resource.Trigger{}, fmt.Errorf("%w: trigger %d", resource.ErrBounds, i)
	}
	return res.triggers[i], nil
}
