package main

import (
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/JaneliaSciComp/catmaid-tools/catmaid"
	"github.com/JaneliaSciComp/catmaid-tools/pixel"
)

// stackConfig describes one tile stack. It can be loaded from a TOML file
// and overridden by command line flags; defaults match the classic CATMAID
// scaling tool.
type stackConfig struct {
	TileWidth        int     `toml:"tile_width"`
	TileHeight       int     `toml:"tile_height"`
	MinC             int64   `toml:"min_c"`
	MaxC             int64   `toml:"max_c"`
	MinR             int64   `toml:"min_r"`
	MaxR             int64   `toml:"max_r"`
	MinZ             int64   `toml:"min_z"`
	MaxZ             int64   `toml:"max_z"`
	BasePath         string  `toml:"base_path"`
	TilePattern      string  `toml:"tile_pattern"`
	Format           string  `toml:"format"`
	Quality          float64 `toml:"quality"`
	Type             string  `toml:"type"`
	IgnoreEmptyTiles bool    `toml:"ignore_empty_tiles"`
}

func defaultStackConfig() stackConfig {
	return stackConfig{
		TileWidth:   256,
		TileHeight:  256,
		MinC:        0,
		MaxC:        math.MaxInt32,
		MinR:        0,
		MaxR:        math.MaxInt32,
		MinZ:        0,
		MaxZ:        math.MaxInt64,
		TilePattern: string(catmaid.DefaultPattern),
		Format:      "jpg",
		Quality:     0.85,
		Type:        "rgb",
	}
}

func loadStackConfig(filePath string) (stackConfig, error) {
	config := defaultStackConfig()
	if _, err := toml.DecodeFile(filePath, &config); err != nil {
		return stackConfig{}, err
	}
	return config, nil
}

func (c stackConfig) mode() pixel.Mode {
	switch strings.ToLower(c.Type) {
	case "gray", "grey":
		return pixel.Gray
	default:
		return pixel.RGB
	}
}
