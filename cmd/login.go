package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/faceapi"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in to the recognition backend",
	Long: `Authenticates against the recognition backend and stores the session
in the state directory. Subsequent commands reuse it until it expires or
you log out.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("password", "", "Password (falls back to FACEDECK_PASSWORD, then an interactive prompt)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := args[0]

	password := mustGetString(cmd, "password")
	if password == "" {
		password = os.Getenv("FACEDECK_PASSWORD")
	}
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("could not read password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}

	sess, err := manager.Login(cmd.Context(), client, username, password)
	if err != nil {
		if faceapi.IsNetworkError(err) {
			return fmt.Errorf("backend unreachable at %s: %w", cfg.API.URL, err)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if sess.User != nil {
		fmt.Printf("Logged in as %s\n", sess.User.Username)
	} else {
		fmt.Printf("Logged in as %s\n", username)
	}
	if !sess.ExpiresAt.IsZero() {
		fmt.Printf("Session valid until %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
