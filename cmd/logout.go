package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}

	if !manager.Current().LoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	// Local state always dies, even when the backend call fails.
	if err := manager.Logout(cmd.Context(), client); err != nil {
		return fmt.Errorf("could not clear session: %w", err)
	}

	fmt.Println("Logged out")
	return nil
}
