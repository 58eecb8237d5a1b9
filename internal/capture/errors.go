package capture

import "errors"

var (
	// ErrCameraAccess means the device could not be opened, typically a
	// permission problem or a missing device node.
	ErrCameraAccess = errors.New("camera access denied or device missing")

	// ErrCaptureNotReady means the camera opened but produced no decodable
	// frame in time.
	ErrCaptureNotReady = errors.New("camera produced no usable frame")

	// ErrTooStill means the liveness heuristic saw no motion across the
	// whole sampling window.
	ErrTooStill = errors.New("no motion detected, capture rejected")
)
