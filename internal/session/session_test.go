package session

import (
	"context"
	"errors"
	"testing"

	"github.com/shelfhq/shelf/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	backend, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	return NewStore(backend)
}

func TestStore_EmptyReadsAsAnonymous(t *testing.T) {
	store := newStore(t)

	sess, err := store.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if sess.Authenticated() {
		t.Fatalf("empty store session = %#v, want anonymous", sess)
	}
}

func TestStore_SetGetClear(t *testing.T) {
	store := newStore(t)

	if err := store.Set("tok-1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	sess, err := store.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !sess.Authenticated() || sess.Token != "tok-1" {
		t.Fatalf("session = %#v, want authenticated tok-1", sess)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	sess, err = store.Get()
	if err != nil {
		t.Fatalf("Get after clear returned error: %v", err)
	}
	if sess.Authenticated() {
		t.Fatalf("session after clear = %#v, want anonymous", sess)
	}

	// Clearing twice must not error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	store := newStore(t)
	if err := store.Set("   "); err == nil {
		t.Fatalf("Set of blank token returned nil error, want error")
	}
}

type failingBackend struct{}

func (failingBackend) Get(string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingBackend) Set(string, []byte) error   { return errors.New("disk gone") }
func (failingBackend) Delete(string) error        { return errors.New("disk gone") }
func (failingBackend) Keys() ([]string, error)    { return nil, errors.New("disk gone") }

func TestStore_TokenSurfacesBackendFailure(t *testing.T) {
	store := NewStore(failingBackend{})
	if _, err := store.Token(context.Background()); err == nil {
		t.Fatalf("Token returned nil error, want backend failure")
	}
}
