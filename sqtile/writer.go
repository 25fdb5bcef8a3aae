package sqtile

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

// Writer implements the tile.Writer interface for packed stacks.
type Writer struct {
	db     *sql.DB
	stmt   *sql.Stmt
	logger *slog.Logger
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for writing to a packed stack file.
// It applies given options and initializes the database for writing tiles.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE tiles (
			z INTEGER,
			scale_level INTEGER,
			tile_row INTEGER,
			tile_column INTEGER,
			tile_data BLOB
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	stmt, err := db.Prepare("INSERT INTO tiles (z, scale_level, tile_row, tile_column, tile_data) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}

	return &Writer{db, stmt, config.Logger}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.stmt.Close(), w.db.Close())
}

func (w *Writer) WriteTile(addr tile.Address, tileData []byte) error {
	_, err := w.stmt.Exec(addr.Z, addr.Level, addr.Row, addr.Col, tileData)
	return err
}

func (w *Writer) Finalize() error {
	w.logger.Debug("sqtile: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX tile_index ON tiles (z, scale_level, tile_row, tile_column)")

	w.logger.Debug("sqtile: done!")
	return err
}
