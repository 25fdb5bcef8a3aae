package catmaid

import (
	"os"
	"path/filepath"

	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

// Writer implements the tile.Writer interface for a CATMAID directory stack.
type Writer struct {
	basePath string
	pattern  Pattern
	ext      string
}

// NewWriter creates a Writer for the stack rooted at basePath. ext is the
// tile file extension without the dot, e.g. "jpg".
func NewWriter(basePath string, pattern Pattern, ext string) (*Writer, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	return &Writer{basePath, pattern, ext}, nil
}

func (w *Writer) WriteTile(addr tile.Address, tileData []byte) error {
	filePath := filepath.Join(w.basePath, w.pattern.Format(addr)+"."+w.ext)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, tileData, 0644)
}

func (w *Writer) Finalize() error {
	return nil
}
