package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List available topic keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		keys, err := d.client.TopicKeys(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch topic keys: %w", err)
		}

		for _, key := range keys {
			fmt.Println(key)
		}
		fmt.Printf("\n%d topics\n", len(keys))
		return nil
	},
}
