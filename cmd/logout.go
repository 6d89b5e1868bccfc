package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.manager.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}

		fmt.Println("Logged out")
		return nil
	},
}
