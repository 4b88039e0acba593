package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/ciaconv"
	"github.com/urfave/cli/v2"
)

const defaultCatalog = "ciaconv.db"

const formats = `
Supported file formats:

# image

- bmp (read, write)
- gif (read, write)
- jpeg (read, write)
- png (read, write)
- tiff (read, write)
- webp (read)

# config

- json (read, write)
- xml (read, write)
- yaml (read, write)

# audio

- wav (read, write)

# misc

- rFXGen (.rfx) -> config, audio
- Bitmap Font Generator (.fnt) -> config
- config -> rFXGen (.rfx)
`

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	// Errors are reported on standard output
	cli.ErrWriter = os.Stdout
}

func newConverter(c *cli.Context) *ciaconv.Converter {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return ciaconv.New(logger)
}

func main() {
	app := cli.NewApp()

	app.Name = "ciaconv"
	app.Usage = "Game asset conversion utility"
	app.Version = "1.0.0"
	app.ArgsUsage = "INPUT OUTPUT"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:    "list-formats",
			Aliases: []string{"l"},
			Usage:   "list supported formats and exit",
		},
		&cli.StringFlag{
			Name:  "magic",
			Usage: "print the detected format extension of `FILE` and exit",
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.Bool("list-formats") {
			fmt.Print(formats)
			return nil
		}

		if file := c.String("magic"); file != "" {
			sig, _, err := newConverter(c).Identify(file)
			if err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Println(sig.Extension)
			return nil
		}

		if c.NArg() < 2 {
			cli.ShowAppHelpAndExit(c, 1)
		}

		if err := newConverter(c).Convert(c.Args().Get(0), c.Args().Get(1)); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:        "quant",
			Usage:       "Reduce the number of colors in an image",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT NCOL",
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				ncol, err := strconv.Atoi(c.Args().Get(2))
				if err != nil {
					return cli.Exit(fmt.Sprintf("invalid color count: %s", c.Args().Get(2)), 1)
				}

				if err := newConverter(c).Quantize(c.Args().Get(0), c.Args().Get(1), ncol); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "png2array",
			Usage:       "Print every PNG image in a folder as a C++ array",
			Description: "",
			ArgsUsage:   "FOLDER",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := newConverter(c).Arrays(os.Stdout, c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Convert every .fnt and .rfx file in a directory tree",
			Description: "",
			ArgsUsage:   "DIRECTORY OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "db",
					EnvVars: []string{"CIACONV_DB"},
					Value:   defaultCatalog,
					Usage:   "path to conversion catalog",
				},
				&cli.StringFlag{
					Name:  "to",
					Value: ".json",
					Usage: "destination file extension",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				catalog, err := ciaconv.NewCatalog(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer catalog.Close()

				ext := c.String("to")
				if filepath.Ext(ext) == "" {
					ext = "." + ext
				}

				if err := newConverter(c).Batch(c.Args().Get(0), c.Args().Get(1), ext, catalog); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
