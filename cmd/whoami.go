package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	// Fetch the live profile; this also proves the token still works.
	user, err := client.Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not fetch profile: %w", err)
	}
	_ = manager.SetUser(user)

	fmt.Printf("Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Printf("Email:    %s\n", user.Email)
	}
	if user.FullName != "" {
		fmt.Printf("Name:     %s\n", user.FullName)
	}
	if sess := manager.Current(); !sess.ExpiresAt.IsZero() {
		fmt.Printf("Expires:  %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
