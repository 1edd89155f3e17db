// Package session owns the service credential for the signed-in user.
// The token lives in the storage collaborator under a single key; nothing
// else reads or writes that key, and nothing caches the token beyond a
// single request.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shelfhq/shelf/internal/storage"
)

const tokenKey = "authToken"

// Session reports whether a credential is present and, if so, its value.
type Session struct {
	Token string
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store persists the session credential. It is the sole owner of the
// token entry; the client reads it through Token on every request so a
// Clear takes effect for the very next call.
type Store struct {
	backend storage.Store
}

// NewStore wraps the storage collaborator.
func NewStore(backend storage.Store) *Store {
	return &Store{backend: backend}
}

// Get returns the current session. An empty store is an anonymous
// session, never an error.
func (s *Store) Get() (Session, error) {
	value, err := s.backend.Get(tokenKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	return Session{Token: strings.TrimSpace(string(value))}, nil
}

// Set stores the credential returned by a successful login.
func (s *Store) Set(token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return fmt.Errorf("session token is empty")
	}
	if err := s.backend.Set(tokenKey, []byte(trimmed)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Clear removes the credential. Clearing an anonymous session is a no-op.
func (s *Store) Clear() error {
	if err := s.backend.Delete(tokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token implements booktrack.TokenSource. The context is accepted for
// interface symmetry; file-backed reads do not block on it.
func (s *Store) Token(_ context.Context) (string, error) {
	sess, err := s.Get()
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}
