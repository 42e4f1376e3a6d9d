package rustache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRegistryOpenLoadsAndNamesTemplates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greeting.mustache", "Hello {{name}}")
	writeFile(t, dir, "a/b.mustache", "nested")
	writeFile(t, dir, "ignored.txt", "should not load")

	reg, err := Open(dir, "*.mustache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reg.lookup("greeting"); !ok {
		t.Fatal("expected \"greeting\" to be loaded")
	}
	if _, ok := reg.lookup("a/b"); !ok {
		t.Fatal("expected \"a/b\" to be loaded")
	}
	if _, ok := reg.lookup("ignored"); ok {
		t.Fatal("did not expect ignored.txt to be loaded")
	}

	var buf bytes.Buffer
	ctx := NewObject(map[string]*Value{"name": NewString("world")})
	if err := reg.Render("greeting", &buf, ctx); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if got := buf.String(); got != "Hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestRegistryOpenIsolatesPerFileFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.mustache", "fine")
	writeFile(t, dir, "bad.mustache", "{{#unterminated")

	reg, err := Open(dir, "*.mustache")
	if err == nil {
		t.Fatal("expected an aggregate error for the broken template")
	}
	if _, ok := reg.lookup("good"); !ok {
		t.Fatal("expected the good template to still be loaded")
	}
	if _, ok := reg.lookup("bad"); ok {
		t.Fatal("did not expect the broken template to be loaded")
	}
}

func TestRegistryOpenMissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"), "*.mustache")
	if err == nil {
		t.Fatal("expected an error for a missing root directory")
	}
}
