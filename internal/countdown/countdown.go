// Package countdown holds the running state of a single timer.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/remmeter/internal/display"
	"github.com/sadopc/remmeter/internal/position"
)

// ErrInvalidDuration is returned when a countdown would start at zero or below.
var ErrInvalidDuration = errors.New("countdown: total seconds must be greater than zero")

// State of a countdown.
type State int

const (
	Running State = iota
	Paused
	Expired
	Stopped
)

var stateNames = map[State]string{
	Running: "running",
	Paused:  "paused",
	Expired: "expired",
	Stopped: "stopped",
}

func (s State) String() string { return stateNames[s] }

// Config is fixed for the lifetime of a countdown.
type Config struct {
	TotalSeconds int
	Position     position.Position
	Display      display.Display
	Thresholds   Thresholds
}

// Countdown is a one-shot timer advanced by an external one-second tick.
// It is not safe for concurrent use; all calls are expected from the
// goroutine that owns the tick source.
type Countdown struct {
	cfg       Config
	remaining int
	state     State
	onExpire  func(Config)
	log       *slog.Logger
}

// Option customizes a Countdown.
type Option func(*Countdown)

// OnExpire registers fn to run once when the countdown reaches zero.
func OnExpire(fn func(Config)) Option {
	return func(c *Countdown) { c.onExpire = fn }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Countdown) { c.log = l }
}

// New starts a countdown in the Running state.
func New(cfg Config, opts ...Option) (*Countdown, error) {
	if cfg.TotalSeconds <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, cfg.TotalSeconds)
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	c := &Countdown{
		cfg:       cfg,
		remaining: cfg.TotalSeconds,
		state:     Running,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	c.log.Info("countdown started",
		slog.Int("total_seconds", cfg.TotalSeconds),
		slog.String("position", cfg.Position.String()),
	)
	return c, nil
}

func (c *Countdown) Config() Config        { return c.cfg }
func (c *Countdown) State() State          { return c.state }
func (c *Countdown) RemainingSeconds() int { return c.remaining }
func (c *Countdown) Paused() bool          { return c.state == Paused }

// Done reports whether the tick source should stop for good.
func (c *Countdown) Done() bool {
	return c.state == Expired || c.state == Stopped
}

// Tick advances a running countdown by one second. It returns true exactly
// once, on the tick that reaches zero.
func (c *Countdown) Tick() bool {
	if c.state != Running {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.state = Expired
	c.log.Info("countdown expired", slog.Int("total_seconds", c.cfg.TotalSeconds))
	if c.onExpire != nil {
		c.onExpire(c.cfg)
	}
	return true
}

// Toggle flips between Running and Paused. Finished countdowns are left alone.
func (c *Countdown) Toggle() {
	switch c.state {
	case Running:
		c.state = Paused
	case Paused:
		c.state = Running
	default:
		return
	}
	c.log.Info("countdown toggled", slog.String("state", c.state.String()))
}

// Stop cancels the countdown without firing the expiry callback.
func (c *Countdown) Stop() {
	if c.Done() {
		return
	}
	c.state = Stopped
	c.log.Info("countdown stopped", slog.Int("remaining_seconds", c.remaining))
}

// Progress is the elapsed fraction of the total, in [0,1].
func (c *Countdown) Progress() float64 {
	return float64(c.cfg.TotalSeconds-c.remaining) / float64(c.cfg.TotalSeconds)
}

// Tier classifies the current progress. Pausing overrides the progress tiers.
func (c *Countdown) Tier() Tier {
	if c.state == Paused {
		return TierPaused
	}
	return c.cfg.Thresholds.Classify(c.Progress())
}

// Remaining formats the remaining time as "M:SS".
func (c *Countdown) Remaining() string {
	return FormatClock(c.remaining)
}

// Elapsed returns the time already counted down.
func (c *Countdown) Elapsed() time.Duration {
	return time.Duration(c.cfg.TotalSeconds-c.remaining) * time.Second
}

// FormatClock renders seconds as "M:SS".
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Command is an out-of-band request handled by Run between ticks.
type Command int

const (
	CmdToggle Command = iota
	CmdStop
)

// Run drives c from ticks until it expires or is stopped, or ctx is done.
// cmds may be nil. observe, when set, sees the countdown after every change.
// Run returns ctx.Err() on cancellation and nil otherwise.
func Run(ctx context.Context, c *Countdown, ticks <-chan time.Time, cmds <-chan Command, observe func(*Countdown)) error {
	notify := func() {
		if observe != nil {
			observe(c)
		}
	}
	for !c.Done() {
		select {
		case <-ctx.Done():
			c.Stop()
			return ctx.Err()
		case cmd := <-cmds:
			switch cmd {
			case CmdToggle:
				c.Toggle()
			case CmdStop:
				c.Stop()
			}
			notify()
		case <-ticks:
			if c.State() != Running {
				continue
			}
			c.Tick()
			notify()
		}
	}
	return nil
}
