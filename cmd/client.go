package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/faceapi"
	"github.com/facedeck/facedeck/internal/recognition"
	"github.com/facedeck/facedeck/internal/session"
)

// errNotConfigured means FACEDECK_API_URL is missing.
var errNotConfigured = errors.New("FACEDECK_API_URL environment variable is required")

// newBackend builds the session manager and the backend client it feeds
// tokens to. The manager restores any persisted session, so a prior login
// survives across invocations.
func newBackend(cfg *config.Config) (*session.Manager, *faceapi.Client, error) {
	if cfg.API.URL == "" {
		return nil, nil, errNotConfigured
	}

	manager := session.NewManager(session.NewFileStore(cfg.State.Dir))
	client, err := faceapi.NewClient(cfg.API.URL, manager, faceapi.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	return manager, client, nil
}

// requireLogin fails fast with a readable message when no session exists.
func requireLogin(manager *session.Manager) error {
	if !manager.Current().LoggedIn() {
		return errors.New("not logged in, run 'facedeck login' first")
	}
	return nil
}

// renderResult prints a recognition outcome the way the dashboard shows it.
func renderResult(result recognition.Result) {
	p := recognition.Present(result)

	fmt.Printf("[%s] %s\n", strings.ToUpper(string(result.Status)), p.Title)
	if p.Message != "" {
		fmt.Printf("  %s\n", p.Message)
	}
	if p.ConfidencePercent != nil {
		fmt.Printf("  Confidence: %d%% %s\n", *p.ConfidencePercent, confidenceBar(*p.ConfidencePercent))
	}
	if p.ProcessingTime != "" {
		fmt.Printf("  Processed in %s\n", p.ProcessingTime)
	}
	if result.FaceLocation != nil {
		fmt.Printf("  Face at (%d, %d) %dx%d\n",
			result.FaceLocation.Left, result.FaceLocation.Top,
			result.FaceLocation.Right-result.FaceLocation.Left,
			result.FaceLocation.Bottom-result.FaceLocation.Top)
	}
}

// confidenceBar renders a 20-cell text meter.
func confidenceBar(percent int) string {
	filled := percent / 5
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 20-filled) + "]"
}
