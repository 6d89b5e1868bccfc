package cmd

import (
	"fmt"

	"github.com/abhisek/topiq/internal/api"
	"github.com/abhisek/topiq/internal/app"
	"github.com/abhisek/topiq/internal/auth"
	"github.com/abhisek/topiq/internal/config"
	"github.com/abhisek/topiq/internal/store"
	"github.com/abhisek/topiq/internal/ui/theme"
	"github.com/spf13/cobra"
)

// deps bundles everything a command needs after the common setup.
type deps struct {
	cfg     config.Config
	store   *store.Store
	tokens  *auth.TokenStore
	client  *api.Client
	manager *auth.Manager
}

// openDeps loads config, opens the local store and builds the API client
// and session manager. The caller must Close the store.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	tokens := auth.NewTokenStore(st.KV())
	client, err := api.New(cfg.APIURL, tokens, cfg.HTTPTimeout)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build api client: %w", err)
	}
	manager := auth.NewManager(tokens, client, nil)

	return &deps{
		cfg:     cfg,
		store:   st,
		tokens:  tokens,
		client:  client,
		manager: manager,
	}, nil
}

func (d *deps) Close() {
	d.store.Close()
}

// runApp launches the TUI with the persisted theme preference applied.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if name, err := d.store.KV().Get("theme"); err == nil && name != "" {
		theme.Use(theme.Name(name))
	}

	return app.Run(app.Options{
		Client:   d.client,
		Manager:  d.manager,
		Attempts: d.store.Attempts(),
		KV:       d.store.KV(),
	})
}
