package output

import (
	"testing"

	"github.com/FocuswithJustin/litequery/core/sqlite"
)

func TestDBInfo(t *testing.T) {
	got := DBInfo(4096, 3)
	want := "database page size: 4096\nnumber of tables: 3\n"
	if got != want {
		t.Errorf("DBInfo() = %q, want %q", got, want)
	}
}

func TestTables(t *testing.T) {
	got := Tables([]string{"apples", "oranges", "sqlite_sequence"})
	want := "apples oranges sqlite_sequence\n"
	if got != want {
		t.Errorf("Tables() = %q, want %q", got, want)
	}
}

func TestValueKinds(t *testing.T) {
	tests := []struct {
		v    sqlite.Value
		want string
	}{
		{sqlite.Value{Kind: sqlite.KindNull}, "NULL"},
		{sqlite.Value{Kind: sqlite.KindInteger, Integer: 42}, "42"},
		{sqlite.Value{Kind: sqlite.KindText, Text: "Yellow"}, "Yellow"},
		{sqlite.Value{Kind: sqlite.KindBlob, Blob: []byte{0x01}}, "[BLOB]"},
	}
	for _, tt := range tests {
		if got := Value(tt.v); got != tt.want {
			t.Errorf("Value(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestRow(t *testing.T) {
	rec := sqlite.TableRecord{
		Rowid: 7,
		Record: sqlite.Record{Values: []sqlite.Value{
			{Kind: sqlite.KindText, Text: "apple"},
			{Kind: sqlite.KindText, Text: "red"},
		}},
	}
	got := Row(rec, []int{-1, 0, 1})
	want := "7|apple|red"
	if got != want {
		t.Errorf("Row() = %q, want %q", got, want)
	}
}

func TestCount(t *testing.T) {
	if got := Count(4); got != "4\n" {
		t.Errorf("Count(4) = %q, want \"4\\n\"", got)
	}
}
