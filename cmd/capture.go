package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/capture"
	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/faceapi"
	"github.com/facedeck/facedeck/internal/session"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a webcam frame and identify the person",
	Long: `Opens the configured camera, samples frames until the motion heuristic
accepts the scene as live, and submits the accepted frame for
identification. A printed photo held in front of the lens produces no
inter-frame motion and is rejected locally.`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().Duration("timeout", 15*time.Second, "How long to wait for a live frame")
	captureCmd.Flags().String("save", "", "Also write the captured JPEG to this path")
	captureCmd.Flags().String("enroll", "", "Enroll the capture for this person ID instead of identifying")
	captureCmd.Flags().Bool("loop", false, "Keep capturing until interrupted")
	captureCmd.Flags().Duration("pause", 3*time.Second, "Pause between captures in loop mode")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	cam, err := capture.OpenCamera(cfg.Camera)
	if err != nil {
		if errors.Is(err, capture.ErrCameraAccess) {
			return fmt.Errorf("%w\ncheck that %s exists and that you are in the video group", err, cfg.Camera.Device)
		}
		return err
	}
	defer cam.Close()

	if err := cam.Start(); err != nil {
		return err
	}

	loop := mustGetBool(cmd, "loop")
	pause := mustGetDuration(cmd, "pause")

	// In loop mode the session must outlive the access token, so the
	// watcher refreshes it proactively in the background.
	if loop {
		watcher := session.NewWatcher(manager, client, cfg.Session.CheckInterval, cfg.Session.RefreshLeeway, func() {
			fmt.Fprintln(os.Stderr, "session expired, login required")
		})
		watcher.Start()
		defer watcher.Stop()
	}

	for {
		if err := captureOnce(cmd, cfg, cam, client); err != nil {
			if !loop {
				return err
			}
			fmt.Fprintf(os.Stderr, "capture failed: %v\n", err)
		}

		if !loop {
			return nil
		}
		select {
		case <-cmd.Context().Done():
			return nil
		case <-time.After(pause):
		}
	}
}

func captureOnce(cmd *cobra.Command, cfg *config.Config, cam *capture.Camera, client *faceapi.Client) error {
	timeout := mustGetDuration(cmd, "timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	det := capture.NewMotionDetector(cfg.Liveness)
	fmt.Println("Watching for a live subject...")

	shot, err := capture.Acquire(ctx, cam, det, cfg.Liveness, cfg.Limits.JPEGQuality)
	if err != nil {
		switch {
		case errors.Is(err, capture.ErrTooStill):
			return fmt.Errorf("no motion detected, is this a live subject?")
		case errors.Is(err, capture.ErrCaptureNotReady):
			return fmt.Errorf("camera produced no usable frame within %s", timeout)
		default:
			return err
		}
	}

	if shot.Borderline {
		fmt.Printf("Warning: weak motion (score %.2f), submitting anyway\n", shot.Score)
	} else {
		fmt.Printf("Live frame captured (motion score %.2f)\n", shot.Score)
	}

	if savePath := mustGetString(cmd, "save"); savePath != "" {
		if err := os.WriteFile(savePath, shot.JPEG, 0600); err != nil {
			return fmt.Errorf("could not save capture: %w", err)
		}
		fmt.Printf("Saved capture to %s\n", savePath)
	}

	if personID := mustGetString(cmd, "enroll"); personID != "" {
		person, err := client.AddPersonPhoto(ctx, personID, "capture.jpg", bytes.NewReader(shot.JPEG))
		if err != nil {
			return fmt.Errorf("could not enroll capture: %w", err)
		}
		fmt.Printf("Enrolled capture for %s (%d photos total)\n", person.Name, person.PhotoCount)
		return nil
	}

	result, err := client.IdentifyWebcam(ctx, shot.JPEG)
	if err != nil {
		return fmt.Errorf("identification failed: %w", err)
	}

	renderResult(result)
	return nil
}
