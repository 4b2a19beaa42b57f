// Package fingerprint computes a content hash of an opened database file,
// used only for debug-log diagnostics (telling two runs against the same
// path apart, or confirming a decompressed temp file matches its source).
package fingerprint

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/litequery/internal/errors"
)

// OfFile streams path through a BLAKE3 hash and returns its hex digest.
func OfFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewIO("open", path, 0, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.NewIO("read", path, 0, err)
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum), nil
}
