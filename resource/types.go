package resource

import (
	"path"
	"strings"
)

// Kind identifies an asset format by its file extension.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindImage
	KindTiles
	KindSprites
	KindAvatars
	KindTriggers
	KindLevelMap
	KindSound
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Kind(Image)"
	case KindTiles:
		return "Kind(Tiles)"
	case KindSprites:
		return "Kind(Sprites)"
	case KindAvatars:
		return "Kind(Avatars)"
	case KindTriggers:
		return "Kind(Triggers)"
	case KindLevelMap:
		return "Kind(LevelMap)"
	case KindSound:
		return "Kind(Sound)"
	}
	return "Kind(UNKNOWN)"
}

// Packed reports whether files of this kind are stored compressed.
func (k Kind) Packed() bool {
	switch k {
	case KindImage, KindTiles, KindSprites, KindAvatars, KindLevelMap:
		return true
	}
	return false
}

func KindOf(name string) Kind {
	base := strings.ToLower(path.Base(name))
	if base == "sound" {
		return KindSound
	}
	switch path.Ext(base) {
	case ".eat":
		return KindImage
	case ".ck":
		return KindTiles
	case ".sqv":
		return KindSprites
	case ".avt":
		return KindAvatars
	case ".bin":
		return KindTriggers
	case ".sql":
		return KindLevelMap
	}
	return KindUnknown
}
