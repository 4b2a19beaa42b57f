// Package query parses the CLI's small textual query language: the two
// dot-commands and a single-table SELECT with an optional WHERE equality
// clause.
package query

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Kind identifies which of the supported commands a Query represents.
type Kind int

const (
	KindDBInfo Kind = iota
	KindTables
	KindCount
	KindSelect
)

// Query is the parsed form of one line of input.
type Query struct {
	Kind    Kind
	Table   string
	Columns []string // KindSelect only; nil for KindCount

	WhereColumn string // empty if there is no WHERE clause
	WhereValue  string
}

// selectGrammar is the participle grammar for a single-table SELECT.
// Examples: "SELECT count(*) FROM apples", "SELECT name, color FROM apples",
// "SELECT name FROM apples WHERE color = 'Yellow'".
//
//nolint:govet // participle grammar tags are not standard struct tags
type selectGrammar struct {
	CountStar bool         `"SELECT" ( @"count" "(" "*" ")"`
	Columns   []string     `  | @Ident ( "," @Ident )* )`
	Table     string       `"FROM" @Ident`
	Where     *whereClause `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type whereClause struct {
	Column string `"WHERE" @Ident "="`
	Value  string `@String`
}

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `SELECT|FROM|WHERE|count`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "String", Pattern: `'[^']*'`},
	{Name: "Punct", Pattern: `[(),*=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var selectParser = participle.MustBuild[selectGrammar](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
)

// Parse interprets one line of input as a dot-command or a SELECT.
func Parse(line string) (*Query, error) {
	line = strings.TrimSpace(line)
	switch line {
	case ".dbinfo":
		return &Query{Kind: KindDBInfo}, nil
	case ".tables":
		return &Query{Kind: KindTables}, nil
	}

	parsed, err := selectParser.ParseString("", line)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %q: %w", line, err)
	}

	q := &Query{Table: parsed.Table}
	if parsed.CountStar {
		q.Kind = KindCount
	} else {
		q.Kind = KindSelect
		q.Columns = parsed.Columns
	}
	if parsed.Where != nil {
		q.WhereColumn = parsed.Where.Column
		q.WhereValue = strings.Trim(parsed.Where.Value, "'")
	}
	return q, nil
}
