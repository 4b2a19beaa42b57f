package sqlite

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/litequery/core/sqlite/internal/codec"
	"github.com/FocuswithJustin/litequery/internal/errors"
)

const fixturePageSize = 512

// encodeValue returns the serial type and payload bytes for one record
// column. Only the shapes this fixture builder needs are supported.
func encodeValue(v interface{}) (uint64, []byte) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		return uint64(13 + 2*len(x)), []byte(x)
	case int64:
		return 1, []byte{byte(int8(x))}
	default:
		panic("encodeValue: unsupported type")
	}
}

// buildRecord assembles a record body the same way codec's own tests do:
// header_size varint, serial-type varints, then the value bytes.
func buildRecord(vals ...interface{}) []byte {
	var header, body []byte
	for _, v := range vals {
		st, b := encodeValue(v)
		var buf [9]byte
		n := codec.PutVarint(buf[:], st)
		header = append(header, buf[:n]...)
		body = append(body, b...)
	}

	headerSize := len(header) + 1
	for {
		var buf [9]byte
		n := codec.PutVarint(buf[:], uint64(headerSize))
		if n+len(header) == headerSize {
			var hsBuf [9]byte
			hn := codec.PutVarint(hsBuf[:], uint64(headerSize))
			out := make([]byte, 0, headerSize+len(body))
			out = append(out, hsBuf[:hn]...)
			out = append(out, header...)
			out = append(out, body...)
			return out
		}
		headerSize = n + len(header)
	}
}

type fixtureRow struct {
	rowid  uint64
	record []byte
}

// buildTableLeafPage lays out a single table-leaf page into a buffer of
// exactly bufLen bytes. Cell pointers are written as true on-disk offsets
// measured from the start of the page: pageOffset is the distance from
// that page start to buf[0], 100 for page 1 (whose buffer excludes the
// file header that precedes it) and 0 for every other page.
func buildTableLeafPage(t *testing.T, bufLen int, pageOffset int, rows []fixtureRow) []byte {
	t.Helper()
	buf := make([]byte, bufLen)
	buf[0] = 0x0d // table leaf
	binary.BigEndian.PutUint16(buf[3:5], uint16(len(rows)))

	const headerLen = 8
	ptrArrayStart := headerLen
	pos := ptrArrayStart + len(rows)*2

	for i, row := range rows {
		var cell []byte
		var szBuf [9]byte
		var rowidBuf [9]byte
		szN := codec.PutVarint(szBuf[:], uint64(len(row.record)))
		rowidN := codec.PutVarint(rowidBuf[:], row.rowid)
		cell = append(cell, szBuf[:szN]...)
		cell = append(cell, rowidBuf[:rowidN]...)
		cell = append(cell, row.record...)

		if pos+len(cell) > bufLen {
			t.Fatalf("fixture page too small: need %d bytes at %d, have %d", len(cell), pos, bufLen)
		}
		binary.BigEndian.PutUint16(buf[ptrArrayStart+i*2:], uint16(pos+pageOffset))
		copy(buf[pos:], cell)
		pos += len(cell)
	}
	return buf
}

// writeFixtureDB assembles a two-page database: page 1 holds a single
// sqlite_master row describing table "widgets" rooted at page 2; page 2
// holds two rows of that table.
func writeFixtureDB(t *testing.T) string {
	t.Helper()

	catalogRecord := buildRecord(
		"table", "widgets", "widgets", int64(2),
		"CREATE TABLE widgets (id INTEGER, name TEXT)",
	)
	page1 := buildTableLeafPage(t, fixturePageSize-100, 100, []fixtureRow{
		{rowid: 1, record: catalogRecord},
	})

	page2 := buildTableLeafPage(t, fixturePageSize, 0, []fixtureRow{
		{rowid: 1, record: buildRecord("alpha")},
		{rowid: 2, record: buildRecord("beta")},
	})

	header := make([]byte, 100)
	binary.BigEndian.PutUint16(header[16:18], uint16(fixturePageSize))

	data := append(header, page1...)
	data = append(data, page2...)

	path := filepath.Join(t.TempDir(), "fixture.db")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenReadsPageSize(t *testing.T) {
	path := writeFixtureDB(t)
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.PageSize() != fixturePageSize {
		t.Errorf("PageSize() = %d, want %d", db.PageSize(), fixturePageSize)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}

func TestCatalogAndTableNames(t *testing.T) {
	db, err := Open(writeFixtureDB(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	entries, err := db.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d catalog entries, want 1", len(entries))
	}
	if entries[0].Name != "widgets" || entries[0].RootPage != 2 {
		t.Errorf("catalog entry = %+v, want name=widgets rootpage=2", entries[0])
	}

	count, err := db.ObjectCount(ctx)
	if err != nil {
		t.Fatalf("ObjectCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("ObjectCount() = %d, want 1", count)
	}

	names, err := db.TableNames(ctx)
	if err != nil {
		t.Fatalf("TableNames() error = %v", err)
	}
	if len(names) != 1 || names[0] != "widgets" {
		t.Errorf("TableNames() = %v, want [widgets]", names)
	}
}

func TestTableLookupMissing(t *testing.T) {
	db, err := Open(writeFixtureDB(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	_, err = db.Table(context.Background(), "nope")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Table() error = %v, want ErrNotFound", err)
	}
}

func TestScanAndFindByRowid(t *testing.T) {
	db, err := Open(writeFixtureDB(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	entry, err := db.Table(ctx, "widgets")
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	rows, err := db.ScanTable(ctx, entry.RootPage)
	if err != nil {
		t.Fatalf("ScanTable() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Rowid != 1 || rows[0].Record.Values[0].Text != "alpha" {
		t.Errorf("row 0 = %+v, want rowid=1 value=alpha", rows[0])
	}
	if rows[1].Rowid != 2 || rows[1].Record.Values[0].Text != "beta" {
		t.Errorf("row 1 = %+v, want rowid=2 value=beta", rows[1])
	}

	rec, ok, err := db.FindByRowid(ctx, entry.RootPage, 2)
	if err != nil {
		t.Fatalf("FindByRowid() error = %v", err)
	}
	if !ok || rec.Record.Values[0].Text != "beta" {
		t.Errorf("FindByRowid(2) = %+v, %v, want beta, true", rec, ok)
	}

	_, ok, err = db.FindByRowid(ctx, entry.RootPage, 99)
	if err != nil {
		t.Fatalf("FindByRowid() error = %v", err)
	}
	if ok {
		t.Error("FindByRowid(99) should miss")
	}
}

func TestPageCacheRoundTrip(t *testing.T) {
	db, err := Open(writeFixtureDB(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	db.UsePageCache(8)
	ctx := context.Background()
	names, err := db.TableNames(ctx)
	if err != nil {
		t.Fatalf("TableNames() error = %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("got %d tables with page cache enabled, want 1", len(names))
	}

	db.UsePageCache(0) // disabling should not disturb subsequent reads
	if _, err := db.ScanTable(ctx, 2); err != nil {
		t.Fatalf("ScanTable() after disabling cache: %v", err)
	}
}

func TestString(t *testing.T) {
	db, err := Open(writeFixtureDB(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
	if db.String() == "" {
		t.Error("String() should not be empty")
	}
}
