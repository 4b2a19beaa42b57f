// Package sqlite provides a read-only handle onto a SQLite database file:
// open the file, read its header and catalog, and walk its table and
// index B-trees. Nothing in this package writes to the file; schema
// changes, transactions, locking, journaling, and caching coherency are
// explicitly out of scope.
package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/FocuswithJustin/litequery/core/sqlite/internal/btree"
	"github.com/FocuswithJustin/litequery/core/sqlite/internal/cache"
	"github.com/FocuswithJustin/litequery/core/sqlite/internal/catalog"
	"github.com/FocuswithJustin/litequery/core/sqlite/internal/codec"
	"github.com/FocuswithJustin/litequery/core/sqlite/internal/page"
	"github.com/FocuswithJustin/litequery/internal/errors"
)

const rootPageNum = 1

// Value, Record, and TableRecord re-export the decoder's value types so
// that collaborators outside this module's internal tree (the CLI, the
// output formatter) can refer to them without reaching into internal
// packages themselves.
type (
	Value       = codec.Value
	Record      = codec.Record
	TableRecord = page.TableRecord
)

// Value kind constants, re-exported for the same reason.
const (
	KindNull    = codec.KindNull
	KindInteger = codec.KindInteger
	KindReal    = codec.KindReal
	KindText    = codec.KindText
	KindBlob    = codec.KindBlob
)

// Database is a read-only handle onto one SQLite file: its path, page
// size, and the navigator used to walk its B-trees. It is opened once,
// read, and released when the caller closes it.
type Database struct {
	path     string
	file     *os.File
	pageSize uint32
	nav      *btree.Navigator

	catalog []catalog.Entry // populated lazily by Catalog()
}

// Open reads path's 100-byte file header to learn the page size, then
// opens a Navigator over the rest of the file. The file is opened
// read-only; Open never writes to it.
func Open(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, 0, err)
	}

	header := make([]byte, page.HeaderSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		f.Close()
		return nil, errors.NewIO("read", path, 0, err)
	}

	pageSize := uint32(binary.BigEndian.Uint16(header[16:18]))
	if pageSize == 1 {
		// A stored value of 1 denotes the maximum page size, 65536.
		pageSize = 65536
	}
	if pageSize == 0 {
		f.Close()
		return nil, errors.NewPage(rootPageNum, errors.ErrBadPageKind, "page size of zero in file header")
	}

	db := &Database{
		path:     path,
		file:     f,
		pageSize: pageSize,
	}
	db.nav = btree.New(f, pageSize)
	return db, nil
}

// Close releases the underlying file handle.
func (db *Database) Close() error {
	return db.file.Close()
}

// Path returns the path the database was opened from.
func (db *Database) Path() string { return db.path }

// PageSize returns the database's page size in bytes.
func (db *Database) PageSize() uint32 { return db.pageSize }

// UsePageCache wraps page loads in a bounded LRU of the given size. Pass
// 0 (the default) to disable the cache; correctness never depends on it,
// only on-disk I/O volume does.
func (db *Database) UsePageCache(size int) {
	if size <= 0 {
		db.nav.SetPageLoader(nil)
		return
	}
	c := cache.New[uint32, *page.Page](size)
	direct := btree.New(db.file, db.pageSize)
	db.nav.SetPageLoader(func(pn uint32) (*page.Page, error) {
		if p, ok := c.Get(pn); ok {
			return p, nil
		}
		p, err := direct.LoadPage(pn)
		if err != nil {
			return nil, err
		}
		c.Put(pn, p)
		return p, nil
	})
}

// Catalog returns every sqlite_master row, decoding and caching them on
// first call.
func (db *Database) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	if db.catalog != nil {
		return db.catalog, nil
	}
	entries, err := catalog.Load(ctx, db.nav, rootPageNum)
	if err != nil {
		return nil, err
	}
	db.catalog = entries
	return entries, nil
}

// ObjectCount returns the number of catalog rows (tables, indexes, views,
// and triggers combined), the value `.dbinfo` reports.
func (db *Database) ObjectCount(ctx context.Context) (int, error) {
	entries, err := db.Catalog(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// TableNames returns the name of every user table, in catalog order.
func (db *Database) TableNames(ctx context.Context) ([]string, error) {
	entries, err := db.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.TableNames(entries), nil
}

// Table resolves a table name to its catalog entry.
func (db *Database) Table(ctx context.Context, name string) (catalog.Entry, error) {
	entries, err := db.Catalog(ctx)
	if err != nil {
		return catalog.Entry{}, err
	}
	return catalog.FindTable(entries, name)
}

// IndexesOn returns every index catalog entry defined on tbl, in catalog
// order. A table may have more than one index; callers that need a
// specific one (e.g. matching a WHERE column) must inspect each entry's
// SQL themselves.
func (db *Database) IndexesOn(ctx context.Context, tbl string) ([]catalog.Entry, error) {
	entries, err := db.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.IndexesOn(entries, tbl), nil
}

// ScanTable returns every row of the table rooted at root, in ascending
// rowid order.
func (db *Database) ScanTable(ctx context.Context, root uint32) ([]page.TableRecord, error) {
	return db.nav.ScanTable(ctx, root)
}

// FindByRowid returns the row with the given rowid from the table rooted
// at root, if present.
func (db *Database) FindByRowid(ctx context.Context, root uint32, rowid uint64) (page.TableRecord, bool, error) {
	return db.nav.FindByRowid(ctx, root, rowid)
}

// FindRowids range-scans the index rooted at root for every rowid whose
// indexed key equals target.
func (db *Database) FindRowids(ctx context.Context, root uint32, target string) ([]uint64, error) {
	return db.nav.FindRowids(ctx, root, target)
}

// FindByIndex performs an index-assisted equality lookup: find matching
// rowids in the index rooted at indexRoot, then join them back into the
// table rooted at tableRoot.
func (db *Database) FindByIndex(ctx context.Context, indexRoot, tableRoot uint32, target string) ([]page.TableRecord, error) {
	return db.nav.FindByIndex(ctx, indexRoot, tableRoot, target)
}

// String renders a short human-readable summary, suitable for log lines.
func (db *Database) String() string {
	return fmt.Sprintf("sqlite.Database{path=%s, page_size=%d}", db.path, db.pageSize)
}
