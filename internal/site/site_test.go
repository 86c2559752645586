package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreate(t *testing.T) {
	root := filepath.Join(t.TempDir(), "sites")
	m := New(root)

	dir, err := m.Create("demo.tux")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if dir != filepath.Join(root, "demo.tux") {
		t.Errorf("expected %s, got %s", filepath.Join(root, "demo.tux"), dir)
	}

	content, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		t.Fatalf("index.html not written: %v", err)
	}
	if !strings.Contains(string(content), "demo.tux") {
		t.Errorf("placeholder should mention the domain: %s", content)
	}
	if !m.Exists("demo.tux") {
		t.Error("Exists should report the new directory")
	}
}

func TestCreate_Idempotent(t *testing.T) {
	m := New(t.TempDir())

	if _, err := m.Create("demo.tux"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	extra := filepath.Join(m.Path("demo.tux"), "style.css")
	if err := os.WriteFile(extra, []byte("body{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create("demo.tux"); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if _, err := os.Stat(extra); err != nil {
		t.Errorf("existing content should be kept: %v", err)
	}
}

func TestCreate_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "sites")
	if err := os.WriteFile(root, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(root).Create("demo.tux"); err == nil {
		t.Error("expected error when sites root is a file")
	}
}

func TestRemove(t *testing.T) {
	m := New(t.TempDir())

	if _, err := m.Create("demo.tux"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Remove("demo.tux"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if m.Exists("demo.tux") {
		t.Error("directory should be gone")
	}

	// absent directory is a no-op
	if err := m.Remove("demo.tux"); err != nil {
		t.Errorf("Remove of absent directory should succeed: %v", err)
	}
}
