// Package errors defines the typed error kinds surfaced by the SQLite
// reader's decoder, page layer, and B-tree navigator.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind the engine can report. Use errors.Is
// against these, or errors.As against the typed wrappers below when the
// offending page/offset is needed.
var (
	// ErrIO indicates an underlying file read or seek failed.
	ErrIO = errors.New("litequery: I/O error")
	// ErrBadPageKind indicates a page's type byte is not one of the four
	// recognised kinds (0x02, 0x05, 0x0a, 0x0d).
	ErrBadPageKind = errors.New("litequery: bad page kind")
	// ErrInvalidPageNumber indicates a page number of zero, or one beyond
	// the end of the file, was requested.
	ErrInvalidPageNumber = errors.New("litequery: invalid page number")
	// ErrMalformedVarint indicates a varint ran past the end of its buffer
	// without terminating.
	ErrMalformedVarint = errors.New("litequery: malformed varint")
	// ErrMalformedRecord indicates a reserved serial type or a truncated
	// record payload.
	ErrMalformedRecord = errors.New("litequery: malformed record")
	// ErrUnsupportedOverflow indicates a cell's payload spills onto
	// overflow pages, which this engine does not follow.
	ErrUnsupportedOverflow = errors.New("litequery: unsupported overflow payload")
	// ErrCorruptLink indicates a child page pointer refers to a page whose
	// kind is impossible at that position in the tree.
	ErrCorruptLink = errors.New("litequery: corrupt child link")
	// ErrNotFound indicates a table, index, or column name was not present
	// in the schema catalog.
	ErrNotFound = errors.New("litequery: not found")
)

// IOError wraps a file read/seek failure with the path and offset involved.
type IOError struct {
	Op     string // "open", "seek", "read"
	Path   string
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("litequery: %s %s at offset %d: %v", e.Op, e.Path, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return ErrIO }

// NewIO builds an *IOError.
func NewIO(op, path string, offset int64, err error) *IOError {
	return &IOError{Op: op, Path: path, Offset: offset, Err: err}
}

// PageError reports a decode failure tied to a specific page number.
type PageError struct {
	Page   uint32
	Reason string
	Err    error // one of ErrBadPageKind, ErrMalformedVarint, ErrMalformedRecord, ErrUnsupportedOverflow
}

func (e *PageError) Error() string {
	return fmt.Sprintf("litequery: page %d: %s", e.Page, e.Reason)
}

func (e *PageError) Unwrap() error { return e.Err }

// NewPage builds a *PageError.
func NewPage(page uint32, kind error, reason string) *PageError {
	return &PageError{Page: page, Reason: reason, Err: kind}
}

// LinkError reports an interior page pointing at a child whose observed kind
// is impossible given the parent's tree role.
type LinkError struct {
	Parent uint32
	Child  uint32
	Reason string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("litequery: page %d -> %d: %s", e.Parent, e.Child, e.Reason)
}

func (e *LinkError) Unwrap() error { return ErrCorruptLink }

// NewLink builds a *LinkError.
func NewLink(parent, child uint32, reason string) *LinkError {
	return &LinkError{Parent: parent, Child: child, Reason: reason}
}

// NotFoundError reports a missing schema object or column.
type NotFoundError struct {
	Kind string // "table", "index", "column"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("litequery: %s not found: %s", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound builds a *NotFoundError.
func NewNotFound(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// Wrap adds context to err, returning nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to err, returning nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool { return errors.Is(err, target) }

// As wraps errors.As for convenience.
func As(err error, target interface{}) bool { return errors.As(err, target) }
