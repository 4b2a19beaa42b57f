// Package catalog decodes the sqlite_master rows stored on page 1 into
// typed schema entries, and resolves table/index names to root pages.
package catalog

import (
	"context"

	"github.com/FocuswithJustin/litequery/core/sqlite/internal/btree"
	"github.com/FocuswithJustin/litequery/core/sqlite/internal/codec"
	"github.com/FocuswithJustin/litequery/internal/errors"
)

// Entry is one row of the catalog: [type, name, tbl_name, rootpage, sql].
type Entry struct {
	Type     string // "table", "index", "view", or "trigger"
	Name     string
	TblName  string
	RootPage uint32
	SQL      string
}

// Load scans the table rooted at root (always the page-1 root in
// practice) and decodes every row into an Entry, preserving on-disk order.
func Load(ctx context.Context, nav *btree.Navigator, root uint32) ([]Entry, error) {
	records, err := nav.ScanTable(ctx, root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entry, err := decodeEntry(rec.Record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(rec codec.Record) (Entry, error) {
	if len(rec.Values) < 5 {
		return Entry{}, errors.ErrMalformedRecord
	}

	text := func(v codec.Value) string {
		if v.Kind == codec.KindText {
			return v.Text
		}
		return ""
	}

	rootPage := uint32(0)
	if rec.Values[3].Kind == codec.KindInteger {
		rootPage = uint32(rec.Values[3].Integer)
	}

	return Entry{
		Type:     text(rec.Values[0]),
		Name:     text(rec.Values[1]),
		TblName:  text(rec.Values[2]),
		RootPage: rootPage,
		SQL:      text(rec.Values[4]),
	}, nil
}

// FindTable returns the catalog entry for a table by name.
func FindTable(entries []Entry, name string) (Entry, error) {
	for _, e := range entries {
		if e.Type == "table" && e.Name == name {
			return e, nil
		}
	}
	return Entry{}, errors.NewNotFound("table", name)
}

// IndexesOn returns every index entry defined on table tbl, in catalog
// order. A table may carry more than one index; the caller decides which
// one, if any, is keyed on the column it needs.
func IndexesOn(entries []Entry, tbl string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Type == "index" && e.TblName == tbl {
			out = append(out, e)
		}
	}
	return out
}

// TableNames returns the name of every table entry, in catalog order.
func TableNames(entries []Entry) []string {
	var names []string
	for _, e := range entries {
		if e.Type == "table" {
			names = append(names, e.Name)
		}
	}
	return names
}
