// Package cleanup implements the logout teardown protocol. Every step
// must succeed; a failed cleanup is re-raised so a live session is never
// silently left behind.
package cleanup

import (
	"fmt"
	"strings"

	"github.com/shelfhq/shelf/internal/session"
	"github.com/shelfhq/shelf/internal/storage"
)

// namedEntries are the fixed session-scoped entries removed on logout.
var namedEntries = []string{
	storage.KeyUserData,
	storage.KeyAppSettings,
	storage.KeyBooksCache,
	storage.KeyProfileCache,
}

// Perform clears the session credential, removes the named cache
// entries, and sweeps every transient-prefixed key. Running it twice in
// a row is a no-op the second time.
func Perform(sessions *session.Store, store storage.Store) error {
	if err := sessions.Clear(); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	for _, key := range namedEntries {
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("cleanup %q: %w", key, err)
		}
	}

	// The prefixes are a sweep, not a fixed list: ad hoc caches are
	// created elsewhere under these names.
	keys, err := store.Keys()
	if err != nil {
		return fmt.Errorf("cleanup: list keys: %w", err)
	}
	for _, key := range keys {
		if !transient(key) {
			continue
		}
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("cleanup %q: %w", key, err)
		}
	}
	return nil
}

// transient reports whether key names a disposable entry.
func transient(key string) bool {
	for _, prefix := range storage.TransientPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
