package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt/media"
)

func mediaCommand() *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Prepare images",
		Subcommands: []*cli.Command{
			{
				Name:      "cover",
				Usage:     "Resize an image into a JPEG cover under the public uploads directory",
				ArgsUsage: "<image-file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Value: media.DefaultMaxWidth, Usage: "Maximum width in pixels"},
					&cli.StringFlag{Name: "out", Value: "public/uploads", Usage: "Output directory"},
				},
				Action: processCover,
			},
		},
	}
}

func processCover(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: thunderbolt media cover <image-file>", ExitUsageError)
	}
	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer f.Close()

	img, data, err := media.ProcessCover(f, path, c.Int("width"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Invalid image: %v", err), ExitDataError)
	}
	name, err := media.Save(c.String("out"), img, data)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	fmt.Fprintf(c.App.Writer, "%s/%s (%dx%d, %d bytes)\n", c.String("out"), name, img.Width, img.Height, img.Size)
	return nil
}
