// Package page decodes a single on-disk page into an in-memory Page value:
// its kind, cell offsets, rightmost child (for interior pages), and typed
// per-cell accessors. It performs no I/O of its own; callers hand it the
// raw bytes of exactly one page.
package page

import (
	"encoding/binary"

	"github.com/FocuswithJustin/litequery/core/sqlite/internal/codec"
	"github.com/FocuswithJustin/litequery/internal/errors"
)

// Kind identifies one of the four page shapes the file format defines.
type Kind byte

const (
	KindIndexInterior Kind = 0x02
	KindTableInterior Kind = 0x05
	KindIndexLeaf     Kind = 0x0a
	KindTableLeaf     Kind = 0x0d
)

func (k Kind) IsLeaf() bool     { return k == KindTableLeaf || k == KindIndexLeaf }
func (k Kind) IsInterior() bool { return k == KindTableInterior || k == KindIndexInterior }
func (k Kind) IsTable() bool    { return k == KindTableLeaf || k == KindTableInterior }
func (k Kind) IsIndex() bool    { return k == KindIndexLeaf || k == KindIndexInterior }

const (
	headerOffsetKind       = 0
	headerOffsetFreeblock  = 1
	headerOffsetNumCells   = 3
	headerOffsetCellStart  = 5
	headerOffsetFragmented = 7
	headerOffsetRightChild = 8

	headerSizeLeaf     = 8
	headerSizeInterior = 12

	// HeaderSize is the size of the database file header that precedes
	// page 1's own page header.
	HeaderSize = 100
)

// Page is the decoded form of one on-disk page.
type Page struct {
	Kind           Kind
	NumCells       int
	RightmostChild uint32 // valid iff Kind.IsInterior()
	CellOffsets    []int  // offsets into Payload, one per cell, in on-disk order
	Payload        []byte // page bytes starting right after the page header (cell-pointer array included)
}

// Decode parses raw (the bytes from the start of the page header onward;
// for page 1, raw must already have had the 100-byte file header stripped)
// into a Page. pageNum is used to annotate errors and, for page 1, to
// correct cell-pointer values back to the buffer-local offsets raw uses
// (on-disk pointers for page 1 are still measured from the true page
// start, 100 bytes before raw[0]).
func Decode(pageNum uint32, raw []byte) (*Page, error) {
	if len(raw) < headerSizeLeaf {
		return nil, errors.NewPage(pageNum, errors.ErrBadPageKind, "page too small for a header")
	}

	kind := Kind(raw[headerOffsetKind])
	switch kind {
	case KindIndexInterior, KindTableInterior, KindIndexLeaf, KindTableLeaf:
	default:
		return nil, errors.NewPage(pageNum, errors.ErrBadPageKind, "unrecognised page kind byte")
	}

	numCells := int(binary.BigEndian.Uint16(raw[headerOffsetNumCells:]))

	headerLen := headerSizeLeaf
	var rightmostChild uint32
	if kind.IsInterior() {
		if len(raw) < headerSizeInterior {
			return nil, errors.NewPage(pageNum, errors.ErrBadPageKind, "interior page too small for a header")
		}
		headerLen = headerSizeInterior
		rightmostChild = binary.BigEndian.Uint32(raw[headerOffsetRightChild:])
	}

	ptrArrayStart := headerLen
	ptrArrayEnd := ptrArrayStart + numCells*2
	if ptrArrayEnd > len(raw) {
		return nil, errors.NewPage(pageNum, errors.ErrMalformedRecord, "cell pointer array runs past page end")
	}

	// Cell pointers are measured from the true start of the page. For page
	// 1 that is file byte 0, 100 bytes before raw[0] (the caller has
	// already stripped the file header), so those 100 bytes must be
	// subtracted back out before the pointer can be read from raw.
	page1Delta := 0
	if pageNum == 1 {
		page1Delta = HeaderSize
	}

	payload := raw[ptrArrayStart:]
	offsets := make([]int, numCells)
	for i := 0; i < numCells; i++ {
		p := ptrArrayStart + i*2
		fullOffset := int(binary.BigEndian.Uint16(raw[p:]))
		offset := fullOffset - page1Delta - ptrArrayStart
		if offset < 0 || offset >= len(payload) {
			return nil, errors.NewPage(pageNum, errors.ErrMalformedRecord, "cell offset out of bounds")
		}
		offsets[i] = offset
	}

	return &Page{
		Kind:           kind,
		NumCells:       numCells,
		RightmostChild: rightmostChild,
		CellOffsets:    offsets,
		Payload:        payload,
	}, nil
}

// TableRecord is what a table leaf cell yields: the row's identifier plus
// its decoded column values.
type TableRecord struct {
	Rowid  uint64
	Record codec.Record
}

// TableInteriorEntry is what a table interior cell yields: the left child
// to descend into, and the inclusive upper bound on rowids stored there.
type TableInteriorEntry struct {
	LeftChild uint32
	Key       uint64
}

// IndexEntry is what both index leaf and index interior cells yield: the
// stored key plus the rowid it references in the table. Interior entries
// additionally carry a left child.
type IndexEntry struct {
	Key       string
	Rowid     uint64
	LeftChild uint32 // valid only for interior entries
}

// TableLeafCell decodes the cell at the given payload offset as a table
// leaf cell: varint payload_size, varint rowid, then a record.
func (p *Page) TableLeafCell(offset int) (TableRecord, error) {
	if p.Kind != KindTableLeaf {
		return TableRecord{}, errors.NewPage(0, errors.ErrBadPageKind, "TableLeafCell called on a non-table-leaf page")
	}
	data := p.Payload[offset:]

	payloadSize, n, err := codec.GetVarint(data)
	if err != nil {
		return TableRecord{}, err
	}
	data = data[n:]

	rowid, n, err := codec.GetVarint(data)
	if err != nil {
		return TableRecord{}, err
	}
	data = data[n:]

	if uint64(len(data)) < payloadSize {
		return TableRecord{}, errors.ErrUnsupportedOverflow
	}

	rec, err := codec.DecodeRecord(data[:payloadSize])
	if err != nil {
		return TableRecord{}, err
	}
	return TableRecord{Rowid: rowid, Record: rec}, nil
}

// TableInteriorCell decodes the cell at the given payload offset as a
// table interior cell: a 4-byte big-endian left child, then a varint key.
func (p *Page) TableInteriorCell(offset int) (TableInteriorEntry, error) {
	if p.Kind != KindTableInterior {
		return TableInteriorEntry{}, errors.NewPage(0, errors.ErrBadPageKind, "TableInteriorCell called on a non-table-interior page")
	}
	data := p.Payload[offset:]
	if len(data) < 4 {
		return TableInteriorEntry{}, errors.ErrMalformedRecord
	}
	leftChild := binary.BigEndian.Uint32(data)
	key, _, err := codec.GetVarint(data[4:])
	if err != nil {
		return TableInteriorEntry{}, err
	}
	return TableInteriorEntry{LeftChild: leftChild, Key: key}, nil
}

// IndexLeafCell decodes the cell at the given payload offset as an index
// leaf cell: varint payload_size, then a record of (TEXT key, INTEGER
// rowid).
func (p *Page) IndexLeafCell(offset int) (IndexEntry, error) {
	if p.Kind != KindIndexLeaf {
		return IndexEntry{}, errors.NewPage(0, errors.ErrBadPageKind, "IndexLeafCell called on a non-index-leaf page")
	}
	data := p.Payload[offset:]

	payloadSize, n, err := codec.GetVarint(data)
	if err != nil {
		return IndexEntry{}, err
	}
	data = data[n:]
	if uint64(len(data)) < payloadSize {
		return IndexEntry{}, errors.ErrUnsupportedOverflow
	}

	return decodeIndexRecord(data[:payloadSize])
}

// IndexInteriorCell decodes the cell at the given payload offset as an
// index interior cell: a 4-byte big-endian left child, varint payload_size,
// then a record of the same shape as an index leaf record.
func (p *Page) IndexInteriorCell(offset int) (IndexEntry, error) {
	if p.Kind != KindIndexInterior {
		return IndexEntry{}, errors.NewPage(0, errors.ErrBadPageKind, "IndexInteriorCell called on a non-index-interior page")
	}
	data := p.Payload[offset:]
	if len(data) < 4 {
		return IndexEntry{}, errors.ErrMalformedRecord
	}
	leftChild := binary.BigEndian.Uint32(data)
	data = data[4:]

	payloadSize, n, err := codec.GetVarint(data)
	if err != nil {
		return IndexEntry{}, err
	}
	data = data[n:]
	if uint64(len(data)) < payloadSize {
		return IndexEntry{}, errors.ErrUnsupportedOverflow
	}

	entry, err := decodeIndexRecord(data[:payloadSize])
	if err != nil {
		return IndexEntry{}, err
	}
	entry.LeftChild = leftChild
	return entry, nil
}

// decodeIndexRecord decodes the (TEXT key, INTEGER rowid) shape this
// engine supports for index records.
func decodeIndexRecord(data []byte) (IndexEntry, error) {
	rec, err := codec.DecodeRecord(data)
	if err != nil {
		return IndexEntry{}, err
	}
	if len(rec.Values) < 2 {
		return IndexEntry{}, errors.ErrMalformedRecord
	}

	key := rec.Values[0]
	var keyStr string
	switch key.Kind {
	case codec.KindText:
		keyStr = key.Text
	case codec.KindBlob:
		keyStr = string(key.Blob)
	default:
		return IndexEntry{}, errors.ErrMalformedRecord
	}

	rowidVal := rec.Values[len(rec.Values)-1]
	if rowidVal.Kind != codec.KindInteger {
		return IndexEntry{}, errors.ErrMalformedRecord
	}

	return IndexEntry{Key: keyStr, Rowid: uint64(rowidVal.Integer)}, nil
}
