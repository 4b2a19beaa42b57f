// Package ddl extracts column names from a stored CREATE TABLE statement.
package ddl

import "strings"

// ColumnNames returns the column names declared in a CREATE TABLE
// statement, in declaration order.
//
// The extraction is a plain split on the commas between the outermost
// parentheses. It is not robust to a comma inside a type modifier, such
// as DECIMAL(10,2); this reproduces a known limitation rather than fixing
// it, since consumers may depend on the exact (imperfect) column split.
func ColumnNames(createSQL string) []string {
	open := strings.IndexByte(createSQL, '(')
	close := strings.LastIndexByte(createSQL, ')')
	if open < 0 || close < 0 || close <= open {
		return nil
	}

	body := createSQL[open+1 : close]
	parts := strings.Split(body, ",")

	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

// ColumnIndex returns the zero-based position of name among the columns
// declared in createSQL, or -1 if it is not present. Matching is
// case-insensitive, since SQLite column names are.
func ColumnIndex(createSQL, name string) int {
	for i, col := range ColumnNames(createSQL) {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}
