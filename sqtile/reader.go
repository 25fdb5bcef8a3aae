// Package sqtile provides API for reading and writing CATMAID tile stacks
// packed into a single SQLite file, as an alternative to one-file-per-tile
// directory stacks.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package sqtile

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

// Reader implements the tile.Reader interface for packed stacks.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given packed stack file path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE z = ? AND scale_level = ? AND tile_row = ? AND tile_column = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

// ReadMetadata returns the stack metadata (tile dimensions, format, tile
// pattern) stored by the Writer.
func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

func (r *Reader) ReadTile(addr tile.Address) ([]byte, error) {
	var tileData []byte
	if err := r.stmt.QueryRow(addr.Z, addr.Level, addr.Row, addr.Col).Scan(&tileData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]byte, 0), nil
		}
		return nil, err
	}

	return tileData, nil
}

func (r *Reader) VisitTiles(visitor func(tile.Address, []byte) error) error {
	rows, err := r.db.Query("SELECT z, scale_level, tile_row, tile_column, tile_data FROM tiles")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var addr tile.Address
		var tileData []byte

		if err := rows.Scan(&addr.Z, &addr.Level, &addr.Row, &addr.Col, &tileData); err != nil {
			return err
		}

		if err := visitor(addr, tileData); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}
