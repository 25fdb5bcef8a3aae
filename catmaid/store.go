package catmaid

import (
	"github.com/JaneliaSciComp/catmaid-tools/pixel"
	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

// Store gives the pyramid builder decoded-pixel access to a directory
// stack. Missing, unreadable and corrupt tile files are all reported as
// absent; write failures propagate.
type Store struct {
	reader *Reader
	writer *Writer
	mode   pixel.Mode
}

// NewStore creates a Store for the stack rooted at basePath. ext is the
// tile file extension without the dot; mode is the pixel representation
// tiles are decoded into and encoded from.
func NewStore(basePath string, pattern Pattern, ext string, mode pixel.Mode) (*Store, error) {
	reader, err := NewReader(basePath, pattern, ext)
	if err != nil {
		return nil, err
	}
	writer, err := NewWriter(basePath, pattern, ext)
	if err != nil {
		return nil, err
	}
	return &Store{reader: reader, writer: writer, mode: mode}, nil
}

func (s *Store) ReadTile(addr tile.Address) (*pixel.Buffer, bool) {
	tileData, err := s.reader.ReadTile(addr)
	if err != nil || len(tileData) == 0 {
		return nil, false
	}
	buf, err := pixel.Decode(tileData, s.mode)
	if err != nil {
		return nil, false
	}
	return buf, true
}

func (s *Store) WriteTile(buf *pixel.Buffer, addr tile.Address, format string, quality float32) error {
	tileData, err := pixel.Encode(buf, format, quality)
	if err != nil {
		return err
	}
	return s.writer.WriteTile(addr, tileData)
}
