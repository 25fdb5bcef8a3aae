// Package tile provides common tile addressing and tile store interfaces.
package tile

// Address identifies one tile of a CATMAID tile stack.
//
// Level, Row, Col and Z are the nominal coordinates: scale level 0 is full
// resolution and each increment halves linear resolution; Row and Col count
// tiles at that level; Z selects the section. X, Y, Width and Height are the
// pixel-space values bound into path templates alongside the nominal
// coordinates; the pyramid builder fills them following the CATMAID
// convention (see catmaid.Pattern).
type Address struct {
	Level  int
	Row    int64
	Col    int64
	Z      int64
	X      int64
	Y      int64
	Width  int64
	Height int64
}

// Scale returns the resolution factor 1/2^Level of the address.
func (a Address) Scale() float64 {
	return 1 / float64(int64(1)<<a.Level)
}

func (a Address) Valid() bool {
	return a.Level >= 0 && a.Level < 63 && a.Row >= 0 && a.Col >= 0
}

// Writer defines an interface for writing encoded tiles to a stack.
type Writer interface {
	// WriteTile writes a single encoded tile to the stack.
	WriteTile(addr Address, tileData []byte) error

	// Finalize completes the writing process: flushes buffers and writes indices.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadTile reads a single encoded tile from the stack.
	// It returns the tile data or an error if the tile cannot be read.
	// If the tile does not exist, it returns an empty slice with no error.
	ReadTile(addr Address) ([]byte, error)
}

type Visitor interface {
	// VisitTiles visits all tiles in the stack, calling the visitor for each.
	// It returns an error if visiting fails.
	// Order of tiles, upfront cpu and memory consumption are implementation-defined.
	VisitTiles(visitor func(Address, []byte) error) error
}
