package blues

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/32bitkid/blues/decompression"
	"github.com/32bitkid/blues/resource"
)

// Asset is a data file found in the root.
type Asset struct {
	Name string
	Kind resource.Kind
	Size int64
}

// Assets lists the known data files of the root, sorted by name.
func (root Root) Assets() ([]Asset, error) {
	root = root.withDefaults()
	entries, err := fs.ReadDir(root.FS, ".")
	if err != nil {
		return nil, err
	}

	var assets []Asset
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind := resource.KindOf(e.Name())
		if kind == resource.KindUnknown {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		assets = append(assets, Asset{Name: e.Name(), Kind: kind, Size: info.Size()})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

// Exists reports whether name is present in the root.
func (root Root) Exists(name string) bool {
	_, err := fs.Stat(root.withDefaults().FS, name)
	return err == nil
}

func (root Root) size(name string) (int64, bool, error) {
	info, err := fs.Stat(root.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return info.Size(), true, nil
}

// readFile reads the whole of name into dst and returns its size.
func (root Root) readFile(name string, dst []byte) (int, error) {
	f, err := root.FS.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := int(info.Size())
	if size > len(dst) {
		return 0, fmt.Errorf("%w: file '%s' is %d bytes, buffer holds %d", resource.ErrFormat, name, size, len(dst))
	}

	if n, err := io.ReadFull(f, dst[:size]); err != nil {
		return n, fmt.Errorf("%w: failed to read %d bytes from file '%s': %v", ErrShortRead, size, name, err)
	}
	return size, nil
}

// readCompressedFile unpacks name into dst and returns the unpacked size.
func (root Root) readCompressedFile(name string, dst []byte) (int, error) {
	f, err := root.FS.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := decompression.Unpack(bufio.NewReader(f), dst, root.Decompressors)
	if err != nil {
		return 0, fmt.Errorf("unpack '%s': %w", name, err)
	}
	return n, nil
}
