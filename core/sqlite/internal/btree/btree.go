// Package btree walks the table and index B-trees rooted in a SQLite file,
// materialising one page at a time via a read-only io.ReaderAt. Navigation
// is a stateless recursive descent: the only state carried between calls is
// the page size and the reader, both held by a Navigator.
package btree

import (
	"context"
	"fmt"
	"io"

	"github.com/FocuswithJustin/litequery/core/sqlite/internal/page"
	"github.com/FocuswithJustin/litequery/internal/errors"
	"github.com/FocuswithJustin/litequery/internal/logging"
)

// Navigator loads pages from a read-only file and walks the B-trees they
// form. It holds no mutable traversal state; every method is a fresh
// recursive descent starting from a given root page number.
type Navigator struct {
	r        io.ReaderAt
	pageSize uint32
	loadPage func(uint32) (*page.Page, error) // overridable for a caching decorator
}

// New builds a Navigator over r, whose pages are all pageSize bytes long.
func New(r io.ReaderAt, pageSize uint32) *Navigator {
	n := &Navigator{r: r, pageSize: pageSize}
	n.loadPage = n.readPage
	return n
}

// SetPageLoader overrides how pages are fetched, letting a caller wrap the
// default file read in a cache. Passing nil restores direct reads.
func (n *Navigator) SetPageLoader(loader func(uint32) (*page.Page, error)) {
	if loader == nil {
		n.loadPage = n.readPage
		return
	}
	n.loadPage = loader
}

// LoadPage reads page number pn from the file and decodes it. n = 0 is
// rejected as InvalidPageNumber, matching §4.3's load_page contract.
func (n *Navigator) LoadPage(pn uint32) (*page.Page, error) {
	if pn == 0 {
		return nil, errors.ErrInvalidPageNumber
	}
	return n.loadPage(pn)
}

func (n *Navigator) readPage(pn uint32) (*page.Page, error) {
	var offset int64
	size := int64(n.pageSize)
	if pn == 1 {
		offset = int64(page.HeaderSize)
		size -= int64(page.HeaderSize)
	} else {
		offset = int64(pn-1) * int64(n.pageSize)
	}

	buf := make([]byte, size)
	if _, err := n.r.ReadAt(buf, offset); err != nil && err != io.EOF {
		return nil, errors.NewIO("read", "", offset, err)
	}

	return page.Decode(pn, buf)
}

// ScanTable walks the table B-tree rooted at root and returns every record
// in ascending rowid order: table leaves emit cells in cell order; table
// interiors recurse into each cell's left child in order, then into the
// rightmost child. A left-child pointer of 0 is silently skipped.
func (n *Navigator) ScanTable(ctx context.Context, root uint32) ([]page.TableRecord, error) {
	var out []page.TableRecord
	if err := n.scanTable(ctx, root, &out); err != nil {
		return nil, err
	}
	logging.FullScan(ctx, fmt.Sprintf("root page %d", root), len(out))
	return out, nil
}

func (n *Navigator) scanTable(ctx context.Context, pn uint32, out *[]page.TableRecord) error {
	p, err := n.LoadPage(pn)
	if err != nil {
		return err
	}

	switch {
	case p.Kind.IsLeaf():
		if !p.Kind.IsTable() {
			return errors.NewLink(0, pn, "expected a table leaf, found an index leaf")
		}
		logging.PageLoad(ctx, pn, "table_leaf", p.NumCells)
		for _, off := range p.CellOffsets {
			rec, err := p.TableLeafCell(off)
			if err != nil {
				return err
			}
			*out = append(*out, rec)
		}
		return nil

	case p.Kind.IsInterior():
		if !p.Kind.IsTable() {
			return errors.NewLink(0, pn, "expected a table interior, found an index interior")
		}
		logging.PageLoad(ctx, pn, "table_interior", p.NumCells)
		for _, off := range p.CellOffsets {
			entry, err := p.TableInteriorCell(off)
			if err != nil {
				return err
			}
			if entry.LeftChild == 0 {
				continue
			}
			if err := n.scanTable(ctx, entry.LeftChild, out); err != nil {
				return err
			}
		}
		if p.RightmostChild != 0 {
			return n.scanTable(ctx, p.RightmostChild, out)
		}
		return nil
	}

	return errors.NewPage(pn, errors.ErrBadPageKind, "page is neither leaf nor interior")
}

// FindByRowid walks the table B-tree rooted at root looking for target.
// Returns (record, true, nil) on a match, (zero, false, nil) if the table
// has no such rowid. At an interior page, the first cell whose key is
// greater than or equal to target designates the child to descend into
// (the inclusive variant §4.3 mandates, matching the standard writer's
// convention that interior keys are the maximum rowid of their left
// subtree); if no cell qualifies, descent falls through to the rightmost
// child.
func (n *Navigator) FindByRowid(ctx context.Context, root uint32, target uint64) (page.TableRecord, bool, error) {
	pn := root
	for {
		p, err := n.LoadPage(pn)
		if err != nil {
			return page.TableRecord{}, false, err
		}

		if p.Kind.IsLeaf() {
			if !p.Kind.IsTable() {
				return page.TableRecord{}, false, errors.NewLink(0, pn, "expected a table leaf, found an index leaf")
			}
			logging.PageLoad(ctx, pn, "table_leaf", p.NumCells)
			for _, off := range p.CellOffsets {
				rec, err := p.TableLeafCell(off)
				if err != nil {
					return page.TableRecord{}, false, err
				}
				if rec.Rowid == target {
					return rec, true, nil
				}
			}
			return page.TableRecord{}, false, nil
		}

		if !p.Kind.IsTable() {
			return page.TableRecord{}, false, errors.NewLink(0, pn, "expected a table interior, found an index interior")
		}
		logging.PageLoad(ctx, pn, "table_interior", p.NumCells)

		next := p.RightmostChild
		for _, off := range p.CellOffsets {
			entry, err := p.TableInteriorCell(off)
			if err != nil {
				return page.TableRecord{}, false, err
			}
			if target <= entry.Key {
				next = entry.LeftChild
				break
			}
		}
		if next == 0 {
			return page.TableRecord{}, false, nil
		}
		pn = next
	}
}

// FindManyByRowid looks up each rowid in rowids against the table rooted
// at root, skipping any that are not present.
func (n *Navigator) FindManyByRowid(ctx context.Context, root uint32, rowids []uint64) ([]page.TableRecord, error) {
	out := make([]page.TableRecord, 0, len(rowids))
	for _, rowid := range rowids {
		rec, ok, err := n.FindByRowid(ctx, root, rowid)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindRowids range-scans the index B-tree rooted at root and returns every
// rowid whose indexed key equals target, in ascending key-then-rowid
// order. See §4.3 for the straddling-separator rule index interior nodes
// require: an equal separator key must descend both into its left child
// and into the next sibling, because duplicate keys can straddle the
// separator.
func (n *Navigator) FindRowids(ctx context.Context, root uint32, target string) ([]uint64, error) {
	var out []uint64
	if err := n.findRowids(ctx, root, target, &out); err != nil {
		return nil, err
	}
	logging.IndexLookup(ctx, fmt.Sprintf("root page %d", root), target, len(out))
	return out, nil
}

func (n *Navigator) findRowids(ctx context.Context, pn uint32, target string, out *[]uint64) error {
	p, err := n.LoadPage(pn)
	if err != nil {
		return err
	}

	if p.Kind.IsLeaf() {
		if !p.Kind.IsIndex() {
			return errors.NewLink(0, pn, "expected an index leaf, found a table leaf")
		}
		logging.PageLoad(ctx, pn, "index_leaf", p.NumCells)
		for _, off := range p.CellOffsets {
			entry, err := p.IndexLeafCell(off)
			if err != nil {
				return err
			}
			if entry.Key < target {
				continue
			}
			if entry.Key > target {
				break
			}
			*out = append(*out, entry.Rowid)
		}
		return nil
	}

	if !p.Kind.IsIndex() {
		return errors.NewLink(0, pn, "expected an index interior, found a table interior")
	}
	logging.PageLoad(ctx, pn, "index_interior", p.NumCells)

	entries := make([]page.IndexEntry, p.NumCells)
	for i, off := range p.CellOffsets {
		entry, err := p.IndexInteriorCell(off)
		if err != nil {
			return err
		}
		entries[i] = entry
	}

	for i, entry := range entries {
		switch {
		case target < entry.Key:
			return n.findRowids(ctx, entry.LeftChild, target, out)
		case target == entry.Key:
			if err := n.findRowids(ctx, entry.LeftChild, target, out); err != nil {
				return err
			}
			sibling := p.RightmostChild
			if i+1 < len(entries) {
				sibling = entries[i+1].LeftChild
			}
			return n.findRowids(ctx, sibling, target, out)
		}
		// target > entry.Key: continue to the next cell.
	}

	return n.findRowids(ctx, p.RightmostChild, target, out)
}

// FindByIndex performs an index-assisted equality lookup: it ranges over
// the index rooted at indexRoot for target, then joins each matching rowid
// back into the table rooted at tableRoot. Results preserve the index
// walk's order.
func (n *Navigator) FindByIndex(ctx context.Context, indexRoot, tableRoot uint32, target string) ([]page.TableRecord, error) {
	rowids, err := n.FindRowids(ctx, indexRoot, target)
	if err != nil {
		return nil, err
	}
	return n.FindManyByRowid(ctx, tableRoot, rowids)
}
