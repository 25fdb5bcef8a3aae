package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/JaneliaSciComp/catmaid-tools/catmaid"
	"github.com/JaneliaSciComp/catmaid-tools/pyramid"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type scaleCmd struct {
	configPath string
	verbose    bool
	flags      stackConfig
}

func (c *scaleCmd) Name() string { return "scale" }
func (c *scaleCmd) Synopsis() string {
	return "generate the scale pyramid of an existing scale level 0 tile stack"
}
func (c *scaleCmd) Usage() string {
	return "catmaid-tools scale [-config <path>] [-basePath <path>] [flags...]\n"
}

func (c *scaleCmd) SetFlags(f *flag.FlagSet) {
	defaults := defaultStackConfig()
	f.StringVar(&c.configPath, "config", "", "Stack config file (TOML)")
	f.BoolVar(&c.verbose, "v", false, "Log per-section and per-level progress")
	f.IntVar(&c.flags.TileWidth, "tileWidth", defaults.TileWidth, "Width of image tiles in pixels")
	f.IntVar(&c.flags.TileHeight, "tileHeight", defaults.TileHeight, "Height of image tiles in pixels")
	f.Int64Var(&c.flags.MinC, "minC", defaults.MinC, "First column index at scale level 0")
	f.Int64Var(&c.flags.MaxC, "maxC", defaults.MaxC, "Last column index at scale level 0")
	f.Int64Var(&c.flags.MinR, "minR", defaults.MinR, "First row index at scale level 0")
	f.Int64Var(&c.flags.MaxR, "maxR", defaults.MaxR, "Last row index at scale level 0")
	f.Int64Var(&c.flags.MinZ, "minZ", defaults.MinZ, "First z-section index")
	f.Int64Var(&c.flags.MaxZ, "maxZ", defaults.MaxZ, "Last z-section index")
	f.StringVar(&c.flags.BasePath, "basePath", defaults.BasePath, "Base path of the tile stack")
	f.StringVar(&c.flags.TilePattern, "tilePattern", defaults.TilePattern, "Tile path template without extension")
	f.StringVar(&c.flags.Format, "format", defaults.Format, "Tile file format (jpg, png)")
	f.Float64Var(&c.flags.Quality, "quality", defaults.Quality, "Quality for jpg compression")
	f.StringVar(&c.flags.Type, "type", defaults.Type, "Tile color type (rgb, gray)")
	f.BoolVar(&c.flags.IgnoreEmptyTiles, "ignoreEmptyTiles", defaults.IgnoreEmptyTiles, "Don't save empty tiles")
}

// config merges the optional config file with explicitly set flags, flags
// winning.
func (c *scaleCmd) config(f *flag.FlagSet) (stackConfig, error) {
	config := defaultStackConfig()
	if c.configPath != "" {
		var err error
		if config, err = loadStackConfig(c.configPath); err != nil {
			return stackConfig{}, err
		}
	}

	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "tileWidth":
			config.TileWidth = c.flags.TileWidth
		case "tileHeight":
			config.TileHeight = c.flags.TileHeight
		case "minC":
			config.MinC = c.flags.MinC
		case "maxC":
			config.MaxC = c.flags.MaxC
		case "minR":
			config.MinR = c.flags.MinR
		case "maxR":
			config.MaxR = c.flags.MaxR
		case "minZ":
			config.MinZ = c.flags.MinZ
		case "maxZ":
			config.MaxZ = c.flags.MaxZ
		case "basePath":
			config.BasePath = c.flags.BasePath
		case "tilePattern":
			config.TilePattern = c.flags.TilePattern
		case "format":
			config.Format = c.flags.Format
		case "quality":
			config.Quality = c.flags.Quality
		case "type":
			config.Type = c.flags.Type
		case "ignoreEmptyTiles":
			config.IgnoreEmptyTiles = c.flags.IgnoreEmptyTiles
		}
	})

	return config, nil
}

func (c *scaleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	config, err := c.config(f)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	store, err := catmaid.NewStore(
		config.BasePath, catmaid.Pattern(config.TilePattern), config.Format, config.mode())
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	logger := slog.New(slog.DiscardHandler)
	if c.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	builder, err := pyramid.New(store, pyramid.Config{
		TileWidth:        config.TileWidth,
		TileHeight:       config.TileHeight,
		MinX:             config.MinC * int64(config.TileWidth),
		MaxX:             (config.MaxC + 1) * int64(config.TileWidth),
		MinY:             config.MinR * int64(config.TileHeight),
		MaxY:             (config.MaxR + 1) * int64(config.TileHeight),
		MinZ:             config.MinZ,
		MaxZ:             config.MaxZ,
		Mode:             config.mode(),
		Format:           config.Format,
		Quality:          float32(config.Quality),
		IgnoreEmptyTiles: config.IgnoreEmptyTiles,
	}, pyramid.WithLogger(logger))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	sections := int64(-1)
	if config.MaxZ-config.MinZ < math.MaxInt32 {
		sections = config.MaxZ - config.MinZ + 1
	}
	bar := progressbar.NewOptions64(sections, progressbar.OptionShowIts(), progressbar.OptionShowCount())

	for z := config.MinZ; z <= config.MaxZ; z++ {
		if err := builder.BuildSection(z); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	return subcommands.ExitSuccess
}
