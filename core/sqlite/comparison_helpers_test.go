package sqlite_test

// Shared comparison logic between the default modernc.org/sqlite-backed
// test and the cgo_sqlite-tagged mattn/go-sqlite3 one: write a fixture
// database with a real SQL engine, then read it back with this module's
// own decoder and check the results agree.

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/litequery/core/sqlite"
)

func runComparisonAgainstRealDriver(t *testing.T, driverName string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "comparison.db")
	sqlDB, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatalf("sql.Open(%q) error = %v", driverName, err)
	}
	defer sqlDB.Close()

	if _, err := sqlDB.Exec(`CREATE TABLE fruit (name TEXT, color TEXT)`); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}

	rows := []struct {
		name, color string
	}{
		{"apple", "red"},
		{"banana", "yellow"},
		{"grape", "purple"},
	}
	for _, r := range rows {
		if _, err := sqlDB.Exec(`INSERT INTO fruit (name, color) VALUES (?, ?)`, r.name, r.color); err != nil {
			t.Fatalf("INSERT: %v", err)
		}
	}
	// Closing flushes the real driver's page cache to disk before our
	// decoder reads the same file.
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	entry, err := db.Table(ctx, "fruit")
	if err != nil {
		t.Fatalf("Table(fruit) error = %v", err)
	}

	records, err := db.ScanTable(ctx, entry.RootPage)
	if err != nil {
		t.Fatalf("ScanTable() error = %v", err)
	}
	if len(records) != len(rows) {
		t.Fatalf("ScanTable() returned %d rows, want %d", len(records), len(rows))
	}
	for i, want := range rows {
		got := records[i]
		if got.Record.Values[0].Text != want.name || got.Record.Values[1].Text != want.color {
			t.Errorf("row %d = (%q, %q), want (%q, %q)",
				i, got.Record.Values[0].Text, got.Record.Values[1].Text, want.name, want.color)
		}
	}
}
