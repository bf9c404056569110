package main

import (
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"os"
	"text/tabwriter"

	"github.com/32bitkid/blues"
	"github.com/32bitkid/blues/resource"
	"github.com/32bitkid/blues/screen"
	"github.com/urfave/cli/v2"
)

// maxUnpacked is the largest size a packed file header can declare.
const maxUnpacked = 1 << 24

func writePNG(name string, img image.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}

func scaled(c *cli.Context, img *image.Paletted) *image.Paletted {
	sx, sy := c.Int("scale"), c.Int("scale")
	if c.Bool("aspect") {
		sx, sy = sx*screen.AspectX, sy*screen.AspectY
	}
	if sx == 1 && sy == 1 {
		return img
	}
	return screen.Scale(img, sx, sy)
}

func info(c *cli.Context) error {
	root, err := newRoot(c, nil)
	if err != nil {
		return cli.Exit(err, 1)
	}
	assets, err := root.Assets()
	if err != nil {
		return cli.Exit(err, 1)
	}
	res, err := root.Open()
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer res.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tPACKED\tSIZE")
	for _, a := range assets {
		fmt.Fprintf(w, "%s\t%s\t%t\t%d\n", a.Name, a.Kind, a.Kind.Packed(), a.Size)
	}
	if err := w.Flush(); err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Printf("demo: %t\n", res.IsDemo())
	fmt.Printf("sound: %t\n", res.Sound() != nil)
	return nil
}

func unpack(c *cli.Context, res *blues.Resources) error {
	buf := make([]byte, maxUnpacked)
	n, err := res.ReadCompressedFile(c.Args().First(), buf)
	if err != nil {
		return err
	}
	return os.WriteFile(c.String("output"), buf[:n], 0644)
}

func exportImage(c *cli.Context) error {
	fb := screen.NewFramebuffer(screen.Width, screen.Height)
	return action(fb, func(c *cli.Context, res *blues.Resources) error {
		if err := res.LoadImage(c.Args().First()); err != nil {
			return err
		}
		return writePNG(c.String("output"), scaled(c, fb.Image()))
	})(c)
}

func exportTiles(c *cli.Context, res *blues.Resources) error {
	var (
		page   blues.Page
		column int
	)
	switch c.Int("page") {
	case 3:
		page = blues.Page3
	case 4:
		page, column = blues.Page4, screen.Width
	default:
		return fmt.Errorf("unknown tile page %d", c.Int("page"))
	}

	if err := res.LoadTiles(c.Args().First(), page); err != nil {
		return err
	}

	atlas := &image.Paletted{
		Pix:     res.TileAtlas(),
		Stride:  blues.TileAtlasPitch,
		Rect:    image.Rect(0, 0, blues.TileAtlasPitch, blues.TileAtlasSize/blues.TileAtlasPitch),
		Palette: screen.Palette(res.Palette(), 16),
	}
	half := atlas.SubImage(image.Rect(column, 0, column+screen.Width, screen.Height)).(*image.Paletted)
	return writePNG(c.String("output"), scaled(c, half))
}

// greyscale repeats a 16 step ramp over the whole palette.
func greyscale() []byte {
	colors := make([]byte, resource.MaxPaletteBytes)
	for i := 0; i < len(colors); i += 3 {
		v := uint8(i/3&0xf) << 2
		colors[i], colors[i+1], colors[i+2] = v, v, v
	}
	return colors
}

func exportSprites(c *cli.Context, res *blues.Resources) error {
	colors := greyscale()
	if name := c.String("palette"); name != "" {
		if err := res.LoadImage(name); err != nil {
			return err
		}
		colors = res.Palette()
	}

	info, err := res.LoadSprites(c.Args().First(), 0, 0)
	if err != nil {
		return err
	}
	frames, err := res.SpriteFrames(0, info.Count)
	if err != nil {
		return err
	}
	atlas, err := screen.NewAtlas(frames, c.Int("width"), screen.Palette(colors, 256), uint8(c.Uint("offset")))
	if err != nil {
		return err
	}

	fmt.Printf("%d sprites, %d bytes\n", info.Count, info.Consumed)
	return writePNG(c.String("output"), atlas.Image)
}

func listAvatars(c *cli.Context, res *blues.Resources) error {
	n, err := res.LoadAvatars(c.Args().First(), 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintln(w, "#\tDATA")
	for i := 0; i < n; i++ {
		rec, err := res.Avatar(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s...\n", i, hex.EncodeToString(rec[:16]))
	}
	return w.Flush()
}

func listTriggers(c *cli.Context, res *blues.Resources) error {
	var bin [resource.TriggerTableSize]byte
	n, err := res.ReadFile(c.Args().First(), bin[:])
	if err != nil {
		return err
	}
	records, err := resource.DecodeTriggerRecords(bin[:n])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	fmt.Fprintln(w, "#\tTYPE\tFLAGS\tFUNC\tT1\tT2\tT3\tTILE\tFG")
	for i, r := range records {
		fmt.Fprintf(w, "%d\t%d\t%#02x\t%d\t%d\t%d\t%d\t%d\t%d\n",
			i, r.TileType, r.TileFlags, r.OpFunc, r.OpTable1, r.OpTable2, r.OpTable3, r.TileIndex, r.ForegroundTile)
	}
	return w.Flush()
}

func printPalette(c *cli.Context, res *blues.Resources) error {
	if err := res.LoadImage(c.Args().First()); err != nil {
		return err
	}
	for i, h := range screen.PaletteHex(res.Palette(), 16) {
		fmt.Printf("%2d %s\n", i, h)
	}
	return nil
}
