package capture

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/facedeck/facedeck/internal/config"
)

// Verdict classifies a liveness score.
type Verdict int

const (
	// VerdictReject means the feed is too still to be a live subject.
	VerdictReject Verdict = iota
	// VerdictBorderline means motion is present but weak; the capture is
	// submitted flagged.
	VerdictBorderline
	// VerdictPass means normal motion was observed.
	VerdictPass
)

func (v Verdict) String() string {
	switch v {
	case VerdictReject:
		return "reject"
	case VerdictBorderline:
		return "borderline"
	case VerdictPass:
		return "pass"
	default:
		return "unknown"
	}
}

// Frames are downscaled to this grid before differencing so the score does
// not depend on the camera resolution.
const (
	motionGridW = 64
	motionGridH = 48
)

// MotionDetector scores inter-frame motion as a cheap liveness heuristic.
// Each fed frame is downscaled to a small grayscale grid and compared with
// the previous one; the mean absolute pixel difference goes into a sliding
// window, and the score is the window mean scaled into [0, 1].
//
// A printed photograph held in front of the lens produces almost no
// inter-frame difference, which is exactly what the reject threshold cuts
// off. The detector is not a spoofing defense, just a sanity gate.
type MotionDetector struct {
	cfg    config.LivenessConfig
	prev   *image.Gray
	window []float64
}

func NewMotionDetector(cfg config.LivenessConfig) *MotionDetector {
	return &MotionDetector{
		cfg:    cfg,
		window: make([]float64, 0, cfg.WindowSize),
	}
}

// Feed adds one frame to the detector and returns the current score. The
// first frame has nothing to compare against and scores zero.
func (d *MotionDetector) Feed(frame image.Image) float64 {
	small := downscaleGray(frame)

	if d.prev != nil {
		diff := meanAbsDiff(d.prev, small)
		if len(d.window) == d.cfg.WindowSize {
			copy(d.window, d.window[1:])
			d.window = d.window[:len(d.window)-1]
		}
		d.window = append(d.window, diff)
	}
	d.prev = small

	return d.Score()
}

// Score returns the current liveness score in [0, 1]. Zero until at least
// one frame pair has been seen.
func (d *MotionDetector) Score() float64 {
	if len(d.window) == 0 {
		return 0
	}

	var sum float64
	for _, v := range d.window {
		sum += v
	}

	score := sum / float64(len(d.window)) / d.cfg.Divisor
	if score > 1 {
		score = 1
	}
	return score
}

// Ready reports whether the sliding window is full, i.e. the score is
// backed by enough samples to act on.
func (d *MotionDetector) Ready() bool {
	return len(d.window) >= d.cfg.WindowSize
}

// Gate maps a score to a verdict using the configured thresholds.
func (d *MotionDetector) Gate(score float64) Verdict {
	switch {
	case score < d.cfg.RejectBelow:
		return VerdictReject
	case score < d.cfg.BorderlineBelow:
		return VerdictBorderline
	default:
		return VerdictPass
	}
}

// Reset drops all accumulated state, e.g. after the camera restarts.
func (d *MotionDetector) Reset() {
	d.prev = nil
	d.window = d.window[:0]
}

func downscaleGray(src image.Image) *image.Gray {
	rgba := image.NewRGBA(image.Rect(0, 0, motionGridW, motionGridH))
	draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), src, src.Bounds(), draw.Src, nil)

	gray := image.NewGray(rgba.Bounds())
	for i := 0; i < len(gray.Pix); i++ {
		r := int(rgba.Pix[i*4])
		g := int(rgba.Pix[i*4+1])
		b := int(rgba.Pix[i*4+2])
		// BT.601 luma weights.
		gray.Pix[i] = uint8((299*r + 587*g + 114*b) / 1000)
	}
	return gray
}

func meanAbsDiff(a, b *image.Gray) float64 {
	n := len(a.Pix)
	if len(b.Pix) < n {
		n = len(b.Pix)
	}
	if n == 0 {
		return 0
	}

	var sum int
	for i := 0; i < n; i++ {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(n)
}
