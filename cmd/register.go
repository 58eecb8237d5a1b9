package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
)

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create a new operator account",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("email", "", "Account email address")
	registerCmd.Flags().String("password", "", "Account password")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")
}

func runRegister(cmd *cobra.Command, args []string) error {
	username := args[0]
	email := mustGetString(cmd, "email")
	password := mustGetString(cmd, "password")

	cfg := config.Load()
	_, client, err := newBackend(cfg)
	if err != nil {
		return err
	}

	user, err := client.Register(cmd.Context(), username, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Account %s created\n", user.Username)
	fmt.Println("Run 'facedeck login' to start a session")
	return nil
}
