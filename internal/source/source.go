// Package source resolves a CLI-supplied database path, transparently
// decompressing a .xz-compressed file to a temporary plain file so the
// engine's page reader can seek it freely.
package source

import (
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/litequery/internal/errors"
	"github.com/FocuswithJustin/litequery/internal/logging"
)

// Resolve returns a path the engine can open and random-access read. If
// path does not end in ".xz" it is returned unchanged with a no-op
// cleanup. Otherwise the file is decompressed in full to a temporary
// file, whose path is returned; the caller must invoke cleanup once done
// so the temporary file is removed. Page-level random access rules out
// streaming the compressed reader directly, since xz.Reader is
// forward-only.
func Resolve(path string) (resolved string, cleanup func() error, err error) {
	noop := func() error { return nil }

	if !strings.HasSuffix(path, ".xz") {
		return path, noop, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", noop, errors.NewIO("open", path, 0, err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return "", noop, errors.Wrapf(err, "decompress %s", path)
	}

	tmp, err := os.CreateTemp("", "litequery-*.db")
	if err != nil {
		return "", noop, errors.Wrapf(err, "create temp file for %s", path)
	}

	if _, err := io.Copy(tmp, xzr); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", noop, errors.Wrapf(err, "decompress %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", noop, errors.Wrapf(err, "close temp file for %s", path)
	}

	logging.Debug("decompressed source database", "path", path, "temp", tmp.Name())

	return tmp.Name(), func() error { return os.Remove(tmp.Name()) }, nil
}
