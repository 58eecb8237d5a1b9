package capture

import (
	"context"
	"time"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/imaging"
)

// FrameSource is anything that produces frames, normally a Camera.
type FrameSource interface {
	Frames() <-chan *Frame
}

// Capture is the outcome of a successful acquisition: a JPEG ready for
// submission plus the liveness reading it was gated on.
type Capture struct {
	JPEG       []byte
	Score      float64
	Borderline bool
	CapturedAt time.Time
}

// Acquire samples frames from src at the configured interval, feeds the
// motion detector, and returns the first frame whose liveness verdict is
// at least borderline. A borderline capture is returned with the flag set
// so the caller can surface the warning. When the context expires before
// any motion is seen, the error distinguishes a silent camera from a
// still scene.
func Acquire(ctx context.Context, src FrameSource, det *MotionDetector, cfg config.LivenessConfig, jpegQuality int) (*Capture, error) {
	ticker := time.NewTicker(cfg.SampleInterval)
	defer ticker.Stop()

	sampled := 0
	for {
		select {
		case <-ctx.Done():
			if sampled == 0 {
				return nil, ErrCaptureNotReady
			}
			return nil, ErrTooStill
		case <-ticker.C:
		}

		frame, err := latestFrame(ctx, src)
		if err != nil {
			if sampled > 0 && ctx.Err() != nil {
				return nil, ErrTooStill
			}
			return nil, err
		}

		img, err := frame.Decode()
		if err != nil {
			// A single corrupt frame is not fatal.
			continue
		}
		sampled++

		score := det.Feed(img)
		if !det.Ready() {
			continue
		}

		switch det.Gate(score) {
		case VerdictReject:
			continue
		case VerdictBorderline, VerdictPass:
			data, err := imaging.EncodeJPEG(img, jpegQuality)
			if err != nil {
				return nil, err
			}
			return &Capture{
				JPEG:       data,
				Score:      score,
				Borderline: det.Gate(score) == VerdictBorderline,
				CapturedAt: frame.CapturedAt,
			}, nil
		}
	}
}

// latestFrame drains the source down to its freshest frame so a slow
// sampling interval never scores stale footage.
func latestFrame(ctx context.Context, src FrameSource) (*Frame, error) {
	var frame *Frame
	for {
		select {
		case f, ok := <-src.Frames():
			if !ok {
				if frame != nil {
					return frame, nil
				}
				return nil, ErrCaptureNotReady
			}
			frame = f
		case <-ctx.Done():
			if frame != nil {
				return frame, nil
			}
			return nil, ErrCaptureNotReady
		default:
			if frame != nil {
				return frame, nil
			}
			// Nothing buffered yet; block for the next frame.
			select {
			case f, ok := <-src.Frames():
				if !ok {
					return nil, ErrCaptureNotReady
				}
				frame = f
			case <-ctx.Done():
				return nil, ErrCaptureNotReady
			}
		}
	}
}
