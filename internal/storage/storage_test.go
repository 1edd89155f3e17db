package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Set("authToken", []byte("abc123")); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, err := store.Get("authToken")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(value) != "abc123" {
		t.Fatalf("Get = %q, want abc123", value)
	}

	if err := store.Delete("authToken"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get("authToken"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again must stay a no-op.
	if err := store.Delete("authToken"); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
}

func TestFileStore_KeysSortedAndComplete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	for _, key := range []string{"temp_draft", "booksCache", "appSettings"} {
		if err := store.Set(key, []byte("x")); err != nil {
			t.Fatalf("Set(%q) returned error: %v", key, err)
		}
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	want := []string{"appSettings", "booksCache", "temp_draft"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
}

func TestFileStore_RejectsEscapingKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	for _, key := range []string{"", "  ", "../outside", "a/b"} {
		if err := store.Set(key, []byte("x")); err == nil {
			t.Fatalf("Set(%q) returned nil error, want error", key)
		}
	}
}
