// Package notify delivers the time's-up message to the user.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrUnsupported means no desktop notifier exists on this system.
var ErrUnsupported = errors.New("notify: desktop notifications unsupported")

const (
	// ShowDuration is how long the notification stays on screen.
	ShowDuration = 5 * time.Second
	// DefaultCleanupDelay bounds how long a notification resource is held.
	DefaultCleanupDelay = 6 * time.Second
)

// Notification is a (title, message) pair.
type Notification struct {
	Title   string
	Message string
}

// TimeUp builds the completion notification for a countdown of total seconds.
func TimeUp(total int) Notification {
	if total < 0 {
		total = 0
	}
	return Notification{
		Title:   "Timer",
		Message: fmt.Sprintf("Time's up! %d minutes %d seconds have passed!", total/60, total%60),
	}
}

// Notifier shows a notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification) error

func (f Func) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Handle is a transient resource backing a visible notification.
type Handle interface {
	// Done is closed once the notification has finished on its own.
	Done() <-chan struct{}
	// Err reports how the notification finished. Valid after Done.
	Err() error
	// Close releases the resource. It is safe to call after Done.
	Close() error
}

// ShowFunc acquires a handle and shows n with it. A non-nil handle returned
// alongside an error is still released by the caller.
type ShowFunc func(ctx context.Context, n Notification) (Handle, error)

// Scope shows a notification and always releases its handle, when the handle
// completes or after CleanupDelay, whichever comes first.
type Scope struct {
	Show         ShowFunc
	CleanupDelay time.Duration
	Logger       *slog.Logger

	after func(time.Duration) <-chan time.Time
}

func NewScope(show ShowFunc, cleanup time.Duration, logger *slog.Logger) *Scope {
	if cleanup <= 0 {
		cleanup = DefaultCleanupDelay
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scope{Show: show, CleanupDelay: cleanup, Logger: logger, after: time.After}
}

// Notify blocks until the notification is released.
func (s *Scope) Notify(ctx context.Context, n Notification) error {
	h, err := s.Show(ctx, n)
	if h != nil {
		defer func() {
			if cerr := h.Close(); cerr != nil {
				s.Logger.Warn("release notification", slog.Any("err", cerr))
			}
		}()
	}
	if err != nil {
		return fmt.Errorf("show notification: %w", err)
	}
	if h == nil {
		return errors.New("show notification: no handle returned")
	}

	select {
	case <-h.Done():
		return h.Err()
	case <-s.after(s.CleanupDelay):
		s.Logger.Debug("notification cleanup delay elapsed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithFallback tries primary and, when it fails, shows n with modal instead.
// A modal failure is only logged.
func WithFallback(primary, modal Notifier, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Func(func(ctx context.Context, n Notification) error {
		err := primary.Notify(ctx, n)
		if err == nil {
			return nil
		}
		logger.Warn("notification failed, using modal", slog.Any("err", err))
		if merr := modal.Notify(ctx, n); merr != nil {
			logger.Error("modal notification failed", slog.Any("err", merr))
		}
		return nil
	})
}

// Console writes the notification to w with a terminal bell. It is the modal
// used when no interactive UI is running.
func Console(w io.Writer) Notifier {
	return Func(func(_ context.Context, n Notification) error {
		_, err := fmt.Fprintf(w, "\a%s: %s\n", n.Title, n.Message)
		return err
	})
}
