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

type packCmd struct {
	configPath string
	outputPath string
}

func (c *packCmd) Name() string     { return "pack" }
func (c *packCmd) Synopsis() string { return "pack a directory tile stack into a single SQLite file" }
func (c *packCmd) Usage() string {
	return "catmaid-tools pack -config <path> -o <path>\n"
}

func (c *packCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "Stack config file (TOML)")
	f.StringVar(&c.outputPath, "o", "", "Output file path")
}

func (c *packCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	config, err := loadStackConfig(c.configPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	reader, err := catmaid.NewReader(config.BasePath, catmaid.Pattern(config.TilePattern), config.Format)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	metadata := map[string]string{
		"tile_width":   strconv.Itoa(config.TileWidth),
		"tile_height":  strconv.Itoa(config.TileHeight),
		"tile_pattern": config.TilePattern,
		"format":       config.Format,
		"type":         config.Type,
	}
	writer, err := sqtile.NewWriter(c.outputPath, sqtile.WithMetadata(metadata))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer writer.Close()

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = reader.VisitTiles(func(addr tile.Address, tileData []byte) error {
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
