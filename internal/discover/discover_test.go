package discover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f.RelPath] = true
	}
	return set
}

func TestDiscoverBasic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "def main(): pass\n")
	writeFile(t, dir, "pkg/util.py", "def helper(): pass\n")
	writeFile(t, dir, "README.md", "# readme\n")

	files, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 2 || !got["app.py"] || !got["pkg/util.py"] {
		t.Fatalf("unexpected files: %v", got)
	}

	for _, f := range files {
		if f.Path == "" || f.Language == "" {
			t.Errorf("incomplete FileInfo: %+v", f)
		}
	}
}

func TestDiscoverSkipsIgnoredAndHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "x = 1\n")
	writeFile(t, dir, ".git/hook.py", "x = 1\n")
	writeFile(t, dir, "venv/lib.py", "x = 1\n")
	writeFile(t, dir, "node_modules/dep.py", "x = 1\n")
	writeFile(t, dir, ".hidden/secret.py", "x = 1\n")

	files, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 || !got["app.py"] {
		t.Fatalf("expected only app.py, got %v", got)
	}
}

func TestDiscoverCustomIgnoreSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "x = 1\n")
	writeFile(t, dir, "generated/out.py", "x = 1\n")

	opts := &Options{IgnoreDirs: map[string]bool{"generated": true}}
	files, err := Discover(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 || !got["app.py"] {
		t.Fatalf("expected only app.py, got %v", got)
	}
}

func TestDiscoverCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "x = 1\n")
	writeFile(t, dir, "script.pyw", "x = 1\n")

	opts := &Options{Extensions: map[string]bool{".py": true}}
	files, err := Discover(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 || !got["app.py"] {
		t.Fatalf("expected only app.py, got %v", got)
	}
}

func TestDiscoverEmptyDir(t *testing.T) {
	files, err := Discover(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %d", len(files))
	}
}

func TestDiscoverCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "x = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, dir, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
