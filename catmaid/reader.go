package catmaid

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

// Reader implements the tile.Reader interface for a CATMAID directory stack.
type Reader struct {
	basePath   string
	pattern    Pattern
	ext        string
	pathRegexp *regexp.Regexp
}

// NewReader creates a Reader for the stack rooted at basePath. ext is the
// tile file extension without the dot, e.g. "jpg".
func NewReader(basePath string, pattern Pattern, ext string) (*Reader, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	pathRegexp, err := pattern.pathRegexp(ext)
	if err != nil {
		return nil, err
	}
	return &Reader{basePath, pattern, ext, pathRegexp}, nil
}

func (r *Reader) tilePath(addr tile.Address) string {
	return filepath.Join(r.basePath, r.pattern.Format(addr)+"."+r.ext)
}

func (r *Reader) ReadTile(addr tile.Address) ([]byte, error) {
	tileData, err := os.ReadFile(r.tilePath(addr))
	if os.IsNotExist(err) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return tileData, nil
}

// VisitTiles walks the stack directory and visits every file matching the
// tile pattern. Only the nominal coordinates (scale level, row, column, z)
// of the yielded addresses are filled in; the pattern must reference all
// four of them.
func (r *Reader) VisitTiles(visitor func(tile.Address, []byte) error) error {
	groups := make(map[int]int, 4)
	for _, argIndex := range []int{1, 5, 8, 9} {
		i := r.pathRegexp.SubexpIndex(fmt.Sprintf("p%d", argIndex))
		if i < 0 {
			return fmt.Errorf("%w: %q does not reference scale level, z, row and column",
				ErrInvalidPattern, r.pattern)
		}
		groups[argIndex] = i
	}

	return filepath.WalkDir(r.basePath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(r.basePath, filePath)
		if err != nil {
			return err
		}
		matches := r.pathRegexp.FindStringSubmatch(filepath.ToSlash(relPath))
		if matches == nil {
			return nil
		}

		level, _ := strconv.Atoi(matches[groups[1]])
		z, _ := strconv.ParseInt(matches[groups[5]], 10, 64)
		row, _ := strconv.ParseInt(matches[groups[8]], 10, 64)
		col, _ := strconv.ParseInt(matches[groups[9]], 10, 64)

		tileData, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		return visitor(tile.Address{Level: level, Row: row, Col: col, Z: z}, tileData)
	})
}
