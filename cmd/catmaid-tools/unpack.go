package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/JaneliaSciComp/catmaid-tools/catmaid"
	"github.com/JaneliaSciComp/catmaid-tools/sqtile"
	"github.com/JaneliaSciComp/catmaid-tools/tile"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type unpackCmd struct {
	inputPath   string
	basePath    string
	tilePattern string
	format      string
}

func (c *unpackCmd) Name() string     { return "unpack" }
func (c *unpackCmd) Synopsis() string { return "unpack a SQLite tile file into a directory stack" }
func (c *unpackCmd) Usage() string {
	return "catmaid-tools unpack -i <path> -o <path> [-tilePattern <pattern> -format <format>]\n"
}

func (c *unpackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input file path")
	f.StringVar(&c.basePath, "o", "", "Output base path of the tile stack")
	f.StringVar(&c.tilePattern, "tilePattern", "", "Tile path template (default: from stack metadata)")
	f.StringVar(&c.format, "format", "", "Tile file extension (default: from stack metadata)")
}

func (c *unpackCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	reader, err := sqtile.NewReader(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer reader.Close()

	metadata, err := reader.ReadMetadata()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	pattern := c.tilePattern
	if pattern == "" {
		pattern = metadata["tile_pattern"]
	}
	format := c.format
	if format == "" {
		format = metadata["format"]
	}
	tileWidth, _ := strconv.ParseInt(metadata["tile_width"], 10, 64)
	tileHeight, _ := strconv.ParseInt(metadata["tile_height"], 10, 64)

	writer, err := catmaid.NewWriter(c.basePath, catmaid.Pattern(pattern), format)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = reader.VisitTiles(func(addr tile.Address, tileData []byte) error {
		// Packed stacks carry only the nominal coordinates; reconstruct the
		// pixel-space template values from the tile dimensions.
		addr.Width = tileWidth << addr.Level
		addr.Height = tileHeight << addr.Level
		addr.X = addr.Col * addr.Width
		addr.Y = addr.Row * addr.Height

		err := writer.WriteTile(addr, tileData)
		bar.Add(1)
		return err
	})
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := writer.Finalize(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
