package main

import (
	"fmt"
	"log"
	"os"

	"github.com/32bitkid/blues"
	"github.com/32bitkid/blues/screen"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
)

func newLogger(c *cli.Context) (hclog.Logger, error) {
	level := hclog.LevelFromString(c.String("log-level"))
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", c.String("log-level"))
	}
	if c.Bool("verbose") {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "blues",
		Level:  level,
		Output: os.Stderr,
	}), nil
}

func newRoot(c *cli.Context, presenter screen.Presenter) (blues.Root, error) {
	logger, err := newLogger(c)
	if err != nil {
		return blues.Root{}, err
	}
	root := blues.NewRoot(c.String("datapath"))
	root.Logger = logger
	root.Presenter = presenter
	return root, nil
}

// action opens the data directory and hands the resources to fn.
func action(presenter screen.Presenter, fn func(*cli.Context, *blues.Resources) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
		}

		root, err := newRoot(c, presenter)
		if err != nil {
			return cli.Exit(err, 1)
		}
		res, err := root.Open()
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer res.Close()

		if err := fn(c, res); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "output",
		Aliases:  []string{"o"},
		Usage:    "write to `FILE`",
		Required: true,
	}
}

func scaleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "repeat every pixel `N` times",
		},
		&cli.BoolFlag{
			Name:  "aspect",
			Usage: "stretch to a 4:3 display",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "blues"
	app.Usage = "Blues Brothers data file utility"
	app.Version = "0.1.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "datapath",
			EnvVars: []string{"BLUES_DATAPATH"},
			Value:   cwd,
			Usage:   "path to the game data files",
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"BLUES_LOG_LEVEL"},
			Value:   "warn",
			Usage:   "trace, debug, info, warn or error",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:   "info",
			Usage:  "List the data files",
			Action: info,
		},
		{
			Name:      "unpack",
			Usage:     "Unpack a compressed file",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{outputFlag()},
			Action:    action(nil, unpack),
		},
		{
			Name:      "image",
			Usage:     "Convert a full screen image to PNG",
			ArgsUsage: "FILE",
			Flags:     append([]cli.Flag{outputFlag()}, scaleFlags()...),
			Action:    exportImage,
		},
		{
			Name:      "tiles",
			Usage:     "Convert a tile page to PNG",
			ArgsUsage: "FILE",
			Flags: append([]cli.Flag{
				outputFlag(),
				&cli.IntFlag{
					Name:  "page",
					Value: 3,
					Usage: "tile page, 3 or 4",
				},
			}, scaleFlags()...),
			Action: action(nil, exportTiles),
		},
		{
			Name:      "sprites",
			Usage:     "Pack the frames of a sprite sheet into a PNG",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag(),
				&cli.StringFlag{
					Name:  "palette",
					Usage: "take colors from image `FILE`",
				},
				&cli.UintFlag{
					Name:  "offset",
					Usage: "palette offset of the frames",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: screen.Width,
					Usage: "atlas width",
				},
			},
			Action: action(nil, exportSprites),
		},
		{
			Name:      "avatars",
			Usage:     "List the frames of an avatar sheet",
			ArgsUsage: "FILE",
			Action:    action(nil, listAvatars),
		},
		{
			Name:      "triggers",
			Usage:     "Dump a trigger table",
			ArgsUsage: "FILE",
			Action:    action(nil, listTriggers),
		},
		{
			Name:      "palette",
			Usage:     "Print the palette of an image",
			ArgsUsage: "FILE",
			Action:    action(nil, printPalette),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
