package catmaid_test

import (
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaneliaSciComp/catmaid-tools/catmaid"
	"github.com/JaneliaSciComp/catmaid-tools/internal"
	"github.com/JaneliaSciComp/catmaid-tools/pixel"
	"github.com/JaneliaSciComp/catmaid-tools/tile"
	"github.com/google/go-cmp/cmp"
)

func TestWriterReader(t *testing.T) {
	basePath := t.TempDir()

	tiles := map[tile.Address][]byte{
		{Level: 0, Row: 0, Col: 0, Z: 0}: []byte("tile000"),
		{Level: 0, Row: 1, Col: 2, Z: 0}: []byte("tile012"),
		{Level: 1, Row: 0, Col: 0, Z: 5}: []byte("tile500"),
		{Level: 3, Row: 6, Col: 6, Z: 5}: []byte("tile566"),
	}

	writer, err := catmaid.NewWriter(basePath, catmaid.DefaultPattern, "jpg")
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for addr, tileData := range tiles {
		if err := writer.WriteTile(addr, tileData); err != nil {
			t.Errorf("WriteTile(%v) failed: %v", addr, err)
		}
	}

	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	reader, err := catmaid.NewReader(basePath, catmaid.DefaultPattern, "jpg")
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	if got, want := maps.Collect(tile.IterTiles(reader)), tiles; !cmp.Equal(got, want) {
		t.Errorf("VisitTiles data mismatch")
	}

	for addr, tileData := range tiles {
		data, err := reader.ReadTile(addr)
		if err != nil {
			t.Errorf("ReadTile(%v) failed: %v", addr, err)
			continue
		}
		if !cmp.Equal(data, tileData) {
			t.Errorf("ReadTile data mismatch for %v", addr)
		}
	}

	tileData, err := reader.ReadTile(tile.Address{Level: 9, Row: 9, Col: 9, Z: 9})
	if err != nil {
		t.Errorf("ReadTile(missing tile) failed: %v", err)
	}
	if len(tileData) != 0 {
		t.Errorf("ReadTile(missing tile) expected empty tile, got: %v bytes", len(tileData))
	}
}

func TestVisitRequiresCoordinates(t *testing.T) {
	basePath := t.TempDir()

	// A pattern without row and column renders, but cannot be walked back.
	reader, err := catmaid.NewReader(basePath, "%[5]d/%[1]d", "jpg")
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if err := reader.VisitTiles(func(tile.Address, []byte) error { return nil }); err == nil {
		t.Errorf("VisitTiles succeeded for pattern without row/column")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	basePath := t.TempDir()

	store, err := catmaid.NewStore(basePath, catmaid.DefaultPattern, "png", pixel.Gray)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	addr := tile.Address{Level: 1, Row: 2, Col: 3, Z: 4}
	buf := internal.SolidBuffer(8, 8, pixel.Gray, 99)
	if err := store.WriteTile(buf, addr, "png", 1); err != nil {
		t.Fatalf("WriteTile failed: %v", err)
	}

	got, ok := store.ReadTile(addr)
	if !ok {
		t.Fatal("ReadTile(existing tile) reported absent")
	}
	if diff := cmp.Diff(buf.Pix, got.Pix); diff != "" {
		t.Errorf("round trip pixels mismatch (-want +got):\n%s", diff)
	}

	if _, ok := store.ReadTile(tile.Address{Level: 1, Row: 9, Col: 9, Z: 4}); ok {
		t.Errorf("ReadTile(missing tile) reported present")
	}
}

func TestStoreCorruptTileIsAbsent(t *testing.T) {
	basePath := t.TempDir()

	store, err := catmaid.NewStore(basePath, catmaid.DefaultPattern, "png", pixel.RGB)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	addr := tile.Address{Level: 0, Row: 0, Col: 0, Z: 0}
	filePath := filepath.Join(basePath, "0", "0_0_0.png")
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filePath, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.ReadTile(addr); ok {
		t.Errorf("ReadTile(corrupt tile) reported present")
	}
}
