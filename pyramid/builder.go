// Package pyramid implements scale pyramid construction for CATMAID tile
// stacks: starting from an existing scale level 0 tile set, it generates
// coarser levels 1, 2, ... per z-section by 2x2 box downsampling until a
// level yields at most one tile.
package pyramid

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaneliaSciComp/catmaid-tools/pixel"
	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

var ErrInvalidConfig = errors.New("pyramid: invalid config")

// TileReader reads one decoded source tile. ok is false when the tile is
// absent or unreadable; absence is expected (e.g. at section boundaries)
// and never fatal.
type TileReader interface {
	ReadTile(addr tile.Address) (buf *pixel.Buffer, ok bool)
}

// TileWriter persists one generated tile. Errors are structural (bad output
// path, unsupported format) and abort the run.
type TileWriter interface {
	WriteTile(buf *pixel.Buffer, addr tile.Address, format string, quality float32) error
}

// Store is the tile storage a Builder works against.
type Store interface {
	TileReader
	TileWriter
}

// Config describes one pyramid run.
//
// The extent is given in level 0 pixel coordinates as [MinX, MaxX) x
// [MinY, MaxY); it may be a loose upper bound on the actual data coverage,
// the level loop self-terminates based on the tiles it finds. The z range
// is inclusive.
type Config struct {
	TileWidth  int
	TileHeight int

	MinX, MaxX int64
	MinY, MaxY int64
	MinZ, MaxZ int64

	Mode    pixel.Mode
	Format  string
	Quality float32

	// IgnoreEmptyTiles suppresses writing tiles whose source group carried
	// no image data.
	IgnoreEmptyTiles bool
}

func (c Config) validate() error {
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %vx%v", ErrInvalidConfig, c.TileWidth, c.TileHeight)
	}
	if c.TileWidth%2 != 0 || c.TileHeight%2 != 0 {
		return fmt.Errorf("%w: tile size %vx%v must be even for repeated halving",
			ErrInvalidConfig, c.TileWidth, c.TileHeight)
	}
	if c.MinX < 0 || c.MinY < 0 || c.MaxX < c.MinX || c.MaxY < c.MinY {
		return fmt.Errorf("%w: extent [%v,%v)x[%v,%v)", ErrInvalidConfig, c.MinX, c.MaxX, c.MinY, c.MaxY)
	}
	if c.MaxZ < c.MinZ {
		return fmt.Errorf("%w: z range [%v,%v]", ErrInvalidConfig, c.MinZ, c.MaxZ)
	}
	if c.Quality <= 0 || c.Quality > 1 {
		return fmt.Errorf("%w: quality %v", ErrInvalidConfig, c.Quality)
	}
	return nil
}

// Builder generates the scale pyramid of a tile stack. It is synchronous
// and single-threaded; its scratch buffers are reused across the level loop
// and must not be shared between goroutines. Callers that want parallelism
// run one Builder per z-section (sections never overlap in output tiles).
type Builder struct {
	cfg    Config
	store  Store
	logger *slog.Logger

	mosaic *Mosaic
	out    *pixel.Buffer
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// New validates cfg and creates a Builder working against store.
func New(store Store, cfg Config, opts ...Option) (*Builder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:    cfg,
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		mosaic: NewMosaic(cfg.TileWidth, cfg.TileHeight, cfg.Mode),
		out:    pixel.NewBuffer(cfg.TileWidth, cfg.TileHeight, cfg.Mode),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build generates all scale levels for every z-section in the configured
// range, in order. The first write failure aborts the whole run.
func (b *Builder) Build() error {
	for z := b.cfg.MinZ; z <= b.cfg.MaxZ; z++ {
		if err := b.BuildSection(z); err != nil {
			return err
		}
	}
	return nil
}

// BuildSection generates scale levels 1, 2, ... for one z-section until a
// level yields at most one tile. Sections share no state, so callers may
// run BuildSection for disjoint z values concurrently on separate Builders.
func (b *Builder) BuildSection(z int64) error {
	b.logger.Info("scaling section", "z", z)
	for s := 1; ; s++ {
		produced, err := b.buildLevel(z, s)
		if err != nil {
			return err
		}
		b.logger.Info("level finished", "z", z, "scale", s, "tiles", produced)
		if produced <= 1 {
			return nil
		}
	}
}

// buildLevel generates all tiles of one scale level from the level below,
// iterating output positions in row-major order (y outer, x inner) for
// reproducible output. It returns the number of positions that had any
// source data.
func (b *Builder) buildLevel(z int64, s int) (int, error) {
	tw := int64(b.cfg.TileWidth)
	th := int64(b.cfg.TileHeight)
	iScale := int64(1) << s
	iScale1 := iScale >> 1

	produced := 0
	for y := b.cfg.MinY / iScale1; y < b.cfg.MaxY/iScale1; y += 2 * th {
		yt := y / (2 * th)
		for x := b.cfg.MinX / iScale1; x < b.cfg.MaxX/iScale1; x += 2 * tw {
			xt := x / (2 * tw)

			b.mosaic.Reset()
			for q := TopLeft; q <= BottomRight; q++ {
				qx := int64(q) % 2
				qy := int64(q) / 2
				addr := tile.Address{
					Level:  s - 1,
					Row:    2*yt + qy,
					Col:    2*xt + qx,
					Z:      z,
					X:      (x + qx*tw) * iScale1,
					Y:      (y + qy*th) * iScale1,
					Width:  tw * iScale1,
					Height: th * iScale1,
				}
				src, ok := b.store.ReadTile(addr)
				if !ok {
					continue
				}
				if err := b.mosaic.SetQuadrant(q, src); err != nil {
					// Treated like a missing tile; the quadrant stays on
					// the placeholder.
					b.logger.Warn("skipping malformed source tile",
						"z", z, "scale", s-1, "row", addr.Row, "col", addr.Col, "err", err)
				}
			}

			if !b.mosaic.HasData() {
				continue
			}
			produced++

			empty, err := b.mosaic.Downsample(b.out)
			if err != nil {
				return 0, err
			}
			if empty && b.cfg.IgnoreEmptyTiles {
				continue
			}

			addr := tile.Address{
				Level:  s,
				Row:    yt,
				Col:    xt,
				Z:      z,
				X:      x * iScale,
				Y:      y * iScale,
				Width:  tw * iScale,
				Height: th * iScale,
			}
			if err := b.store.WriteTile(b.out, addr, b.cfg.Format, b.cfg.Quality); err != nil {
				return 0, fmt.Errorf("pyramid: write tile z=%v scale=%v row=%v col=%v: %w",
					z, s, yt, xt, err)
			}
		}
	}

	return produced, nil
}
