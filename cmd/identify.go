package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/imaging"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [image-file]",
	Short: "Identify the person in a photo",
	Long: `Validates and resizes the image locally, submits it to the recognition
backend, and prints the verdict. Oversized or non-image files are refused
before any upload happens.`,
	Args: cobra.ExactArgs(1),
	RunE: runIdentify,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [person-id] [image-file]",
	Short: "Verify that a photo shows a specific person",
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(verifyCmd)

	identifyCmd.Flags().Float64("threshold", 0, "Confidence threshold (0 uses the backend default)")
	verifyCmd.Flags().Float64("threshold", 0, "Confidence threshold (0 uses the backend default)")
}

// loadSubmission reads, validates, and resizes an image for submission.
func loadSubmission(cfg *config.Config, imagePath string) ([]byte, error) {
	data, err := os.ReadFile(imagePath) //nolint:gosec // operator-provided path
	if err != nil {
		return nil, fmt.Errorf("could not read image: %w", err)
	}
	if err := imaging.Validate(filepath.Base(imagePath), data, cfg.Limits.MaxUploadBytes); err != nil {
		return nil, err
	}

	resized, err := imaging.Resize(data, cfg.Limits.ResizeMaxDim, cfg.Limits.ResizeMaxDim, cfg.Limits.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("could not prepare image: %w", err)
	}
	return resized, nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	data, err := loadSubmission(cfg, args[0])
	if err != nil {
		return err
	}

	result, err := client.Identify(cmd.Context(), data, mustGetFloat64(cmd, "threshold"))
	if err != nil {
		return fmt.Errorf("identification failed: %w", err)
	}

	renderResult(result)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	personID, imagePath := args[0], args[1]

	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	data, err := loadSubmission(cfg, imagePath)
	if err != nil {
		return err
	}

	result, err := client.Verify(cmd.Context(), personID, data, mustGetFloat64(cmd, "threshold"))
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	renderResult(result)
	return nil
}
