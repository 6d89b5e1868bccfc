package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/topiq/internal/app"
	"github.com/abhisek/topiq/internal/topickey"
	"github.com/abhisek/topiq/internal/ui/theme"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [topic-key | page-url]",
	Short: "Jump straight into a quiz for a topic",
	Long: "Start a quiz for a topic key, or paste a site page URL and let " +
		"topiq derive the topic key from its path.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		topicKey := args[0]
		if strings.Contains(topicKey, "://") {
			resolver := topickey.Resolver{LocalHosts: d.cfg.LocalHosts}
			topicKey, err = resolver.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("resolve topic key: %w", err)
			}
		}

		if name, err := d.store.KV().Get("theme"); err == nil && name != "" {
			theme.Use(theme.Name(name))
		}

		return app.Run(app.Options{
			Client:   d.client,
			Manager:  d.manager,
			Attempts: d.store.Attempts(),
			KV:       d.store.KV(),
			Topic:    topicKey,
		})
	},
}
