// Package blues loads the data files of Blues Brothers: Jukebox Adventure.
//
// The game ships its assets as packed files: full screen pictures and tile
// pages stored as chunked bitplane images, sprite and avatar sheets, level
// maps and fixed layout trigger tables. A Root describes where the files live
// and how to reach the collaborators; Open allocates the fixed size buffers
// every loader decodes into and returns the Resources that own them.
//
// Resources is not safe for concurrent use. Loads are synchronous and
// mutate the buffers in place.
package blues

import (
	"io/fs"
	"os"

	"github.com/32bitkid/blues/decompression"
	"github.com/32bitkid/blues/screen"
	"github.com/hashicorp/go-hclog"
)

// Root is a reference to the data directory of the game.
type Root struct {
	Path          string
	FS            fs.FS
	Decompressors decompression.LUT
	Logger        hclog.Logger
	Presenter     screen.Presenter
}

func NewRoot(path string) Root {
	return Root{
		Path:          path,
		FS:            os.DirFS(path),
		Decompressors: decompression.Decompressors.Titus,
	}
}

func (root Root) withDefaults() Root {
	if root.FS == nil {
		path := root.Path
		if path == "" {
			path = "."
		}
		root.FS = os.DirFS(path)
	}
	if root.Decompressors == nil {
		root.Decompressors = decompression.Decompressors.Titus
	}
	if root.Logger == nil {
		root.Logger = hclog.NewNullLogger()
	}
	if root.Presenter == nil {
		root.Presenter = screen.Discard
	}
	return root
}
