// Package sqliteexternal provides an optional CGO SQLite driver, used only
// by this module's comparison tests to write fixture databases with a real
// SQLite engine before reading them back with the pure Go decoder.
//
// This package is part of the github.com/FocuswithJustin/litequery module.
//
// # CGO SQLite Driver
//
// To use the CGO driver (github.com/mattn/go-sqlite3):
//
//	import _ "github.com/FocuswithJustin/litequery/contrib/sqlite-external"
//
// Build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite
//
// # Default Pure Go Driver
//
// By default, comparison tests write fixtures with modernc.org/sqlite,
// which requires no CGO. See core/sqlite/comparison_purego_test.go.
//
// # When to Use
//
// Use this package when:
//   - You need byte-for-byte parity with the reference CGO SQLite engine
//   - You already have CGO in your build pipeline
//
// Use the default pure Go driver when:
//   - Portability is important
//   - Cross-compilation is required
package sqliteexternal
