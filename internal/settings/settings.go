// Package settings handles shelf user settings. Settings live in the
// local key/value store under the app settings key, so logout cleanup
// removes them with the rest of the session-scoped state.
package settings

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/shelfhq/shelf/internal/storage"
)

// Settings holds user-adjustable preferences.
type Settings struct {
	Theme string `toml:"theme"`
}

const defaultTheme = "Shelf Dark"

// DefaultTheme returns the theme used when none is stored.
func DefaultTheme() string {
	return defaultTheme
}

// Load reads settings from the store, falling back to defaults on any
// missing or unreadable entry.
func Load(store storage.Store) Settings {
	loaded := Settings{Theme: defaultTheme}

	value, err := store.Get(storage.KeyAppSettings)
	if err != nil {
		return loaded
	}
	if err := toml.Unmarshal(value, &loaded); err != nil {
		return Settings{Theme: defaultTheme} // Graceful degradation
	}
	if strings.TrimSpace(loaded.Theme) == "" {
		loaded.Theme = defaultTheme
	}
	return loaded
}

// Save writes settings to the store.
func Save(store storage.Store, s Settings) error {
	value, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := store.Set(storage.KeyAppSettings, value); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
