package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig
	State    StateConfig
	Limits   LimitsConfig
	Liveness LivenessConfig
	Session  SessionConfig
	Camera   CameraConfig
}

type APIConfig struct {
	URL     string        // base URL of the recognition backend (e.g., http://localhost:8000)
	Timeout time.Duration // global request timeout
}

type StateConfig struct {
	Dir string // directory for the persisted session state file
}

type LimitsConfig struct {
	MaxUploadBytes int64 // upload ceiling enforced before any network submission
	ResizeMaxDim   int   // bounding box for client-side resize before submission
	JPEGQuality    int   // re-encode quality for resized/captured frames
}

// LivenessConfig holds the empirical tuning of the motion heuristic. The
// defaults are the values the heuristic was tuned with; deployments can
// override them via FACEDECK_TUNING_FILE.
type LivenessConfig struct {
	Divisor         float64       `yaml:"divisor"`          // normalization constant for the motion score
	RejectBelow     float64       `yaml:"reject_below"`     // captures below this score are refused locally
	BorderlineBelow float64       `yaml:"borderline_below"` // scores below this are flagged, not refused
	WindowSize      int           `yaml:"window_size"`      // sliding window of motion samples
	SampleInterval  time.Duration `yaml:"sample_interval"`  // motion sampling tick
}

type SessionConfig struct {
	CheckInterval time.Duration // periodic token-expiry check
	RefreshLeeway time.Duration // refresh proactively when expiry is this close
}

type CameraConfig struct {
	Device string // V4L2 device path
	Width  int
	Height int
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envInt64 reads an environment variable and parses it as a positive int64.
func envInt64(key string, defaultVal int64) int64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable and parses it as a duration.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "facedeck")
	}
	return ".facedeck"
}

func Load() *Config {
	cfg := &Config{
		API: APIConfig{
			URL:     os.Getenv("FACEDECK_API_URL"),
			Timeout: envDuration("FACEDECK_API_TIMEOUT", 30*time.Second),
		},
		State: StateConfig{
			Dir: os.Getenv("FACEDECK_STATE_DIR"),
		},
		Limits: LimitsConfig{
			MaxUploadBytes: envInt64("FACEDECK_MAX_UPLOAD_BYTES", 10<<20),
			ResizeMaxDim:   envInt("FACEDECK_RESIZE_MAX_DIM", 1280),
			JPEGQuality:    envInt("FACEDECK_JPEG_QUALITY", 85),
		},
		Liveness: LivenessConfig{
			Divisor:         50,
			RejectBelow:     0.10,
			BorderlineBelow: 0.30,
			WindowSize:      10,
			SampleInterval:  100 * time.Millisecond,
		},
		Session: SessionConfig{
			CheckInterval: envDuration("FACEDECK_SESSION_CHECK_INTERVAL", 5*time.Minute),
			RefreshLeeway: envDuration("FACEDECK_SESSION_REFRESH_LEEWAY", 2*time.Minute),
		},
		Camera: CameraConfig{
			Device: envString("FACEDECK_CAMERA_DEVICE", "/dev/video0"),
			Width:  envInt("FACEDECK_CAMERA_WIDTH", 640),
			Height: envInt("FACEDECK_CAMERA_HEIGHT", 480),
		},
	}

	if cfg.State.Dir == "" {
		cfg.State.Dir = defaultStateDir()
	}

	if tuningFile := os.Getenv("FACEDECK_TUNING_FILE"); tuningFile != "" {
		// A broken tuning file falls back to defaults rather than
		// refusing to start.
		if err := cfg.Liveness.loadFile(tuningFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring tuning file %s: %v\n", tuningFile, err)
		}
	}

	return cfg
}

// loadFile overlays liveness tuning values from a YAML file. Only fields
// present in the file change; the rest keep their current values.
func (lc *LivenessConfig) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided tuning file
	if err != nil {
		return fmt.Errorf("could not read tuning file: %w", err)
	}

	overlay := *lc
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("could not parse tuning file: %w", err)
	}

	if overlay.Divisor <= 0 || overlay.WindowSize <= 0 || overlay.SampleInterval <= 0 {
		return fmt.Errorf("tuning values must be positive")
	}
	if overlay.RejectBelow < 0 || overlay.BorderlineBelow < overlay.RejectBelow || overlay.BorderlineBelow > 1 {
		return fmt.Errorf("thresholds must satisfy 0 <= reject_below <= borderline_below <= 1")
	}

	*lc = overlay
	return nil
}
