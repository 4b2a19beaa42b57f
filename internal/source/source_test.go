package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestResolvePlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.db")
	if err := os.WriteFile(path, []byte("not compressed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	resolved, cleanup, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer cleanup()

	if resolved != path {
		t.Errorf("Resolve() = %q, want unchanged path %q", resolved, path)
	}
}

func TestResolveXZFile(t *testing.T) {
	original := []byte("a tiny fixture database's raw bytes")

	path := filepath.Join(t.TempDir(), "fixture.db.xz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatalf("xz.NewWriter: %v", err)
	}
	if _, err := w.Write(original); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close file: %v", err)
	}

	resolved, cleanup, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer cleanup()

	if resolved == path {
		t.Fatal("Resolve() should return a different (decompressed) path for .xz input")
	}

	got, err := os.ReadFile(resolved)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", resolved, err)
	}
	if string(got) != string(original) {
		t.Errorf("decompressed content = %q, want %q", got, original)
	}

	if err := cleanup(); err != nil {
		t.Errorf("cleanup() error = %v", err)
	}
	if _, err := os.Stat(resolved); !os.IsNotExist(err) {
		t.Error("expected the temp file to be removed after cleanup")
	}
}
