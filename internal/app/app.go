// Package app wires configuration, storage, session state, the API
// client, and the UI into a runnable program.
package app

import (
	"context"
	"fmt"

	"github.com/shelfhq/shelf/internal/booktrack"
	"github.com/shelfhq/shelf/internal/config"
	"github.com/shelfhq/shelf/internal/library"
	"github.com/shelfhq/shelf/internal/session"
	"github.com/shelfhq/shelf/internal/settings"
	"github.com/shelfhq/shelf/internal/storage"
	"github.com/shelfhq/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath string // empty uses ~/.config/shelf/config.toml
}

// Run boots the shelf TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}

	// The session store is the sole owner of the credential; the client
	// only reads it, per request, through the TokenSource interface.
	sessions := session.NewStore(store)

	client, err := booktrack.NewClient(cfg.ServerURL, sessions)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	client.SetTimeout(cfg.RequestTimeout)

	userSettings := settings.Load(store)

	return ui.Run(ui.Options{
		Context:  ctx,
		Client:   client,
		Sessions: sessions,
		Library:  library.New(client, store),
		Store:    store,
		Theme:    userSettings.Theme,
	})
}
