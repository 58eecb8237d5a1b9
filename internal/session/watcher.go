package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/facedeck/facedeck/internal/faceapi"
)

// Refresher is the subset of the backend client the watcher needs.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*faceapi.TokenPair, error)
}

// Watcher periodically checks token expiry and refreshes proactively. The
// owner holds the only handle and must call Stop on teardown; a stopped
// watcher never fires again.
type Watcher struct {
	manager   *Manager
	client    Refresher
	interval  time.Duration
	leeway    time.Duration
	onExpired func()

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewWatcher creates a watcher. onExpired runs when a refresh is
// irrecoverable and the session has been cleared; it may be nil.
func NewWatcher(manager *Manager, client Refresher, interval, leeway time.Duration, onExpired func()) *Watcher {
	return &Watcher{
		manager:   manager,
		client:    client,
		interval:  interval,
		leeway:    leeway,
		onExpired: onExpired,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the periodic check. Idempotent.
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Stop cancels the watcher and waits for the loop to exit. Idempotent and
// safe on a watcher that was never started: the loop is launched (and
// immediately told to stop) so done always closes.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	w.Start()
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check refreshes the token when it is near expiry. Transient backend
// failures are retried with backoff; an expired refresh token forces
// logout.
func (w *Watcher) check() {
	if !w.manager.NearExpiry(w.leeway) {
		return
	}

	_, refreshToken := w.manager.Tokens()
	if refreshToken == "" {
		w.expire()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		pair, err := w.client.Refresh(ctx, refreshToken)
		if err != nil {
			if faceapi.IsNetworkError(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return w.manager.Update(*pair)
	})

	if err != nil {
		if faceapi.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// The backend is unreachable; keep the session and try
			// again on the next tick.
			return
		}
		w.expire()
	}
}

func (w *Watcher) expire() {
	_ = w.manager.Clear()
	if w.onExpired != nil {
		w.onExpired()
	}
}
