package cmd

import (
	"fmt"
	"time"

	"github.com/abhisek/topiq/internal/auth"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		session, err := d.tokens.Get()
		if err != nil {
			return fmt.Errorf("read session: %w", err)
		}

		if !session.Authenticated() {
			fmt.Println("Guest (not logged in)")
			return nil
		}

		fmt.Printf("Name:  %s\n", session.User.Name)
		fmt.Printf("Email: %s\n", session.User.Email)

		if expiry, err := auth.TokenExpiry(session.AccessToken); err == nil {
			status := "valid"
			if auth.TokenExpired(session.AccessToken, time.Now()) {
				status = "expired"
			}
			fmt.Printf("Token: %s (expires %s)\n", status, expiry.Local().Format(time.RFC1123))
		}
		return nil
	},
}
