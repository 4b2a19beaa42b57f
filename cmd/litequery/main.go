// Command litequery is a read-only SQLite file query tool: it opens a
// database file directly, without the sqlite3 C library, and answers a
// handful of diagnostic and data-access commands against it.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/litequery/core/sqlite"
	"github.com/FocuswithJustin/litequery/internal/fingerprint"
	"github.com/FocuswithJustin/litequery/internal/logging"
	"github.com/FocuswithJustin/litequery/internal/output"
	"github.com/FocuswithJustin/litequery/internal/query"
	"github.com/FocuswithJustin/litequery/internal/query/ddl"
	"github.com/FocuswithJustin/litequery/internal/source"
)

const version = "0.1.0"

// CLI defines litequery's command-line interface.
var CLI struct {
	LogLevel      string           `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat     string           `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`
	PageCacheSize int              `name:"page-cache-size" default:"64" help:"Number of pages to keep in the LRU page cache; 0 disables caching"`
	Version       kong.VersionFlag `help:"Print version information and exit"`

	Path    string `arg:"" help:"Path to a SQLite database file (.db or .db.xz)" type:"existingfile"`
	Command string `arg:"" help:"Command to run: .dbinfo, .tables, or a SELECT statement"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("litequery"),
		kong.Description("Read-only SQLite file query tool."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))

	ctx := logging.WithRequestID(context.Background(), uuid.NewString())
	if err := run(ctx); err != nil {
		logging.LoggerFromContext(ctx).Error("litequery failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	resolvedPath, cleanup, err := source.Resolve(CLI.Path)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	defer cleanup()

	if digest, err := fingerprint.OfFile(resolvedPath); err == nil {
		logging.Debug("opening database", "path", CLI.Path, "fingerprint", digest)
	}

	db, err := sqlite.Open(resolvedPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if CLI.PageCacheSize > 0 {
		db.UsePageCache(CLI.PageCacheSize)
	}

	q, err := query.Parse(CLI.Command)
	if err != nil {
		return err
	}

	result, err := execute(ctx, db, q)
	if err != nil {
		return err
	}

	fmt.Print(result)
	return nil
}

func execute(ctx context.Context, db *sqlite.Database, q *query.Query) (string, error) {
	switch q.Kind {
	case query.KindDBInfo:
		count, err := db.ObjectCount(ctx)
		if err != nil {
			return "", fmt.Errorf("count objects: %w", err)
		}
		return output.DBInfo(db.PageSize(), count), nil

	case query.KindTables:
		names, err := db.TableNames(ctx)
		if err != nil {
			return "", fmt.Errorf("list tables: %w", err)
		}
		return output.Tables(names), nil

	case query.KindCount:
		return executeCount(ctx, db, q)

	case query.KindSelect:
		return executeSelect(ctx, db, q)

	default:
		return "", fmt.Errorf("unrecognized command")
	}
}

func executeCount(ctx context.Context, db *sqlite.Database, q *query.Query) (string, error) {
	table, err := db.Table(ctx, q.Table)
	if err != nil {
		return "", fmt.Errorf("table %s: %w", q.Table, err)
	}

	if q.WhereColumn == "" {
		rows, err := db.ScanTable(ctx, table.RootPage)
		if err != nil {
			return "", fmt.Errorf("scan table %s: %w", q.Table, err)
		}
		return output.Count(len(rows)), nil
	}

	rows, err := selectFiltered(ctx, db, q, table.RootPage, table.SQL)
	if err != nil {
		return "", err
	}
	return output.Count(len(rows)), nil
}

func executeSelect(ctx context.Context, db *sqlite.Database, q *query.Query) (string, error) {
	table, err := db.Table(ctx, q.Table)
	if err != nil {
		return "", fmt.Errorf("table %s: %w", q.Table, err)
	}

	columnIndexes := resolveColumns(table.SQL, q.Columns)

	var rows []sqlite.TableRecord
	if q.WhereColumn == "" {
		rows, err = db.ScanTable(ctx, table.RootPage)
		if err != nil {
			return "", fmt.Errorf("scan table %s: %w", q.Table, err)
		}
	} else {
		rows, err = selectFiltered(ctx, db, q, table.RootPage, table.SQL)
		if err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(output.Row(row, columnIndexes))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// resolveColumns maps each requested column name to its position in the
// stored row, with -1 meaning "project the rowid". A declared id column is
// treated as the rowid alias only when it is the table's first declared
// column, which is how SQLite's INTEGER PRIMARY KEY rowid alias actually
// appears in a schema: present by name, but never materialised in the
// stored row. An id the table does not declare at all also resolves to -1.
func resolveColumns(createSQL string, columns []string) []int {
	names := ddl.ColumnNames(createSQL)
	firstIsID := len(names) > 0 && strings.EqualFold(names[0], "id")

	indexes := make([]int, len(columns))
	for i, col := range columns {
		if firstIsID && strings.EqualFold(col, "id") {
			indexes[i] = -1
			continue
		}
		indexes[i] = ddl.ColumnIndex(createSQL, col)
	}
	return indexes
}

// selectFiltered resolves q's WHERE clause against the table rooted at
// tableRoot. It prefers an index-assisted lookup, but only when some index
// on the table is actually keyed on WhereColumn; an index on a different
// column would silently return the wrong rows, so any other case falls
// back to a full scan with an in-memory value comparison.
func selectFiltered(ctx context.Context, db *sqlite.Database, q *query.Query, tableRoot uint32, tableSQL string) ([]sqlite.TableRecord, error) {
	indexes, err := db.IndexesOn(ctx, q.Table)
	if err != nil {
		return nil, fmt.Errorf("find indexes on %s: %w", q.Table, err)
	}

	for _, idx := range indexes {
		cols := ddl.ColumnNames(idx.SQL)
		if len(cols) == 1 && strings.EqualFold(cols[0], q.WhereColumn) {
			rows, err := db.FindByIndex(ctx, idx.RootPage, tableRoot, q.WhereValue)
			if err != nil {
				return nil, fmt.Errorf("find by index: %w", err)
			}
			return rows, nil
		}
	}

	return scanFiltered(ctx, db, q, tableRoot, tableSQL)
}

// scanFiltered full-scans the table rooted at tableRoot and keeps only the
// rows whose WhereColumn value equals WhereValue, the fallback path for a
// WHERE clause with no matching index.
func scanFiltered(ctx context.Context, db *sqlite.Database, q *query.Query, tableRoot uint32, tableSQL string) ([]sqlite.TableRecord, error) {
	rows, err := db.ScanTable(ctx, tableRoot)
	if err != nil {
		return nil, fmt.Errorf("scan table %s: %w", q.Table, err)
	}

	colIdx := resolveColumns(tableSQL, []string{q.WhereColumn})[0]

	filtered := rows[:0]
	for _, row := range rows {
		if rowValue(row, colIdx) == q.WhereValue {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// rowValue renders row's column at idx the same way the CLI prints it, so
// the comparison against a WHERE literal matches what the user sees. idx
// of -1 (the rowid alias) or out of range follow output.Row's own rules.
func rowValue(row sqlite.TableRecord, idx int) string {
	if idx < 0 {
		return strconv.FormatUint(row.Rowid, 10)
	}
	if idx >= len(row.Record.Values) {
		return "NULL"
	}
	return output.Value(row.Record.Values[idx])
}
