package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	name, err := store.Save(strings.NewReader("image bytes"), "photo.JPG")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("Save() name = %q, want lowercase .jpg suffix", name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("stored blob = %q, want %q", data, "image bytes")
	}

	if err := store.Delete(name); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); !os.IsNotExist(err) {
		t.Error("Delete() left the blob on disk")
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	a, err := store.Save(strings.NewReader("a"), "same.png")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	b, err := store.Save(strings.NewReader("b"), "same.png")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if a == b {
		t.Errorf("Save() produced the same name twice: %q", a)
	}
}

func TestDeleteMissingBlobIsNotAnError(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	if err := store.Delete("never-existed.png"); err != nil {
		t.Errorf("Delete() of missing blob error = %v, want nil", err)
	}
	if err := store.Delete(""); err != nil {
		t.Errorf("Delete() of empty name error = %v, want nil", err)
	}
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	if err := store.Delete("../outside.png"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Delete() error = %v, want ErrInvalidName", err)
	}
}

func TestSaveStripsSuspectExtension(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() unexpected error: %v", err)
	}

	name, err := store.Save(strings.NewReader("x"), "noext")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		t.Errorf("Save() name contains a path separator: %q", name)
	}
}
