// Package output renders decoded rows and schema summaries the way the
// CLI prints them: values joined by "|", blobs as the literal "[BLOB]",
// nulls as "NULL".
package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/litequery/core/sqlite"
)

// DBInfo renders the `.dbinfo` command's two lines.
func DBInfo(pageSize uint32, objectCount int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "database page size: %d\n", pageSize)
	fmt.Fprintf(&sb, "number of tables: %d\n", objectCount)
	return sb.String()
}

// Tables renders the `.tables` command: every catalog name space-joined
// on one line, in catalog order.
func Tables(names []string) string {
	return strings.Join(names, " ") + "\n"
}

// Value renders one column value the way the CLI does.
func Value(v sqlite.Value) string {
	switch v.Kind {
	case sqlite.KindNull:
		return "NULL"
	case sqlite.KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case sqlite.KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case sqlite.KindText:
		return v.Text
	case sqlite.KindBlob:
		return "[BLOB]"
	default:
		return ""
	}
}

// Row renders one record as the `|`-joined line the CLI prints for a
// SELECT result. columnIndexes picks and orders which record values are
// printed; a negative index means "this column is the rowid".
func Row(rec sqlite.TableRecord, columnIndexes []int) string {
	parts := make([]string, len(columnIndexes))
	for i, idx := range columnIndexes {
		if idx < 0 {
			parts[i] = strconv.FormatUint(rec.Rowid, 10)
			continue
		}
		if idx >= len(rec.Record.Values) {
			parts[i] = "NULL"
			continue
		}
		parts[i] = Value(rec.Record.Values[idx])
	}
	return strings.Join(parts, "|")
}

// Count renders the `SELECT count(*)` result.
func Count(n int) string {
	return strconv.Itoa(n) + "\n"
}
