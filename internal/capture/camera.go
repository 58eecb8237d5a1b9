package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/facedeck/facedeck/internal/config"
)

// Camera wraps a V4L2 device and fans captured frames out on a small
// buffered channel. When the consumer falls behind, the oldest frame is
// dropped so memory stays bounded and the consumer always sees recent
// footage.
type Camera struct {
	dev       *device.Device
	cfg       config.CameraConfig
	format    v4l2.FourCCType
	frameChan chan *Frame

	mu     sync.Mutex
	cancel context.CancelFunc
}

// OpenCamera opens and configures the device. The negotiated pixel format
// may differ from the request; frames carry the format the device settled
// on.
func OpenCamera(cfg config.CameraConfig) (*Camera, error) {
	dev, err := device.Open(cfg.Device,
		device.WithPixFormat(v4l2.PixFormat{
			PixelFormat: v4l2.PixelFmtMJPEG,
			Width:       uint32(cfg.Width),
			Height:      uint32(cfg.Height),
		}),
	)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCameraAccess, cfg.Device)
		}
		return nil, fmt.Errorf("could not open camera %s: %w", cfg.Device, err)
	}

	format := v4l2.FourCCType(v4l2.PixelFmtMJPEG)
	if pf, err := dev.GetPixFormat(); err == nil {
		format = pf.PixelFormat
		cfg.Width = int(pf.Width)
		cfg.Height = int(pf.Height)
	}

	return &Camera{
		dev:       dev,
		cfg:       cfg,
		format:    format,
		frameChan: make(chan *Frame, 4),
	}, nil
}

// Start begins streaming. Frames become available on Frames().
func (c *Camera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := c.dev.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("could not start camera stream: %w", err)
	}
	c.cancel = cancel

	go c.captureLoop(ctx)
	return nil
}

// Frames returns the channel of captured frames. It is closed when the
// camera stops.
func (c *Camera) Frames() <-chan *Frame {
	return c.frameChan
}

// NextFrame waits for one frame, honoring the context deadline.
func (c *Camera) NextFrame(ctx context.Context) (*Frame, error) {
	select {
	case frame, ok := <-c.frameChan:
		if !ok {
			return nil, ErrCaptureNotReady
		}
		return frame, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrCaptureNotReady, ctx.Err())
	}
}

// Close stops streaming and releases the device. Safe to call more than
// once.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		_ = c.dev.Stop()
	}
	return c.dev.Close()
}

func (c *Camera) captureLoop(ctx context.Context) {
	defer close(c.frameChan)

	output := c.dev.GetOutput()
	for {
		select {
		case <-ctx.Done():
			return
		case buf, ok := <-output:
			if !ok {
				return
			}

			// The device recycles its buffers.
			data := make([]byte, len(buf))
			copy(data, buf)

			frame := &Frame{
				Data:       data,
				Width:      c.cfg.Width,
				Height:     c.cfg.Height,
				Format:     c.format,
				CapturedAt: time.Now(),
			}

			select {
			case c.frameChan <- frame:
			default:
				// Consumer is behind: drop the oldest frame.
				select {
				case <-c.frameChan:
				default:
				}
				select {
				case c.frameChan <- frame:
				default:
				}
			}
		}
	}
}
