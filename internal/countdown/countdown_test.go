package countdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/remmeter/internal/position"
)

func newTestCountdown(t *testing.T, total int, opts ...Option) *Countdown {
	t.Helper()
	c, err := New(Config{TotalSeconds: total, Position: position.Right}, opts...)
	if err != nil {
		t.Fatalf("new countdown: %v", err)
	}
	return c
}

func TestNewRejectsZero(t *testing.T) {
	for _, total := range []int{0, -5} {
		_, err := New(Config{TotalSeconds: total})
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("total %d: expected ErrInvalidDuration, got %v", total, err)
		}
	}
}

func TestNewStartsRunning(t *testing.T) {
	c := newTestCountdown(t, 90)
	if c.State() != Running {
		t.Fatalf("expected running, got %s", c.State())
	}
	if c.RemainingSeconds() != 90 {
		t.Fatalf("expected 90 remaining, got %d", c.RemainingSeconds())
	}
	if c.Progress() != 0 {
		t.Fatalf("expected zero progress, got %v", c.Progress())
	}
	if c.Remaining() != "1:30" {
		t.Fatalf("expected 1:30, got %q", c.Remaining())
	}
	if c.Config().Thresholds != DefaultThresholds() {
		t.Fatal("default thresholds not applied")
	}
}

func TestTenSecondScenario(t *testing.T) {
	fired := 0
	c := newTestCountdown(t, 10, OnExpire(func(Config) { fired++ }))

	for i := 0; i < 8; i++ {
		if c.Tick() {
			t.Fatalf("tick %d reported expiry", i+1)
		}
	}
	if c.Progress() != 0.8 {
		t.Fatalf("expected progress 0.8, got %v", c.Progress())
	}
	if c.Tier() != TierDanger || !c.Tier().Blinks() {
		t.Fatalf("expected blinking danger tier, got %s", c.Tier())
	}

	if c.Tick() {
		t.Fatal("ninth tick should not expire")
	}
	if !c.Tick() {
		t.Fatal("tenth tick should expire")
	}
	if c.State() != Expired || !c.Done() {
		t.Fatalf("expected expired, got %s", c.State())
	}
	if c.RemainingSeconds() != 0 || c.Progress() != 1 {
		t.Fatalf("expected 0 remaining and full progress, got %d / %v", c.RemainingSeconds(), c.Progress())
	}

	for i := 0; i < 5; i++ {
		if c.Tick() {
			t.Fatal("ticks after expiry must be ignored")
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one expiry callback, got %d", fired)
	}
}

func TestTierBoundaries(t *testing.T) {
	c := newTestCountdown(t, 10)
	want := []Tier{
		TierNormal, TierNormal, TierNormal, TierNormal, TierNormal, TierNormal,
		TierWarning, TierWarning,
		TierDanger, TierDanger, TierDanger,
	}
	for i, w := range want {
		if got := c.Tier(); got != w {
			t.Fatalf("after %d ticks: expected %s, got %s", i, w, got)
		}
		c.Tick()
	}
}

func TestPauseOverridesTier(t *testing.T) {
	c := newTestCountdown(t, 10)
	for i := 0; i < 9; i++ {
		c.Tick()
	}
	c.Toggle()
	if c.Tier() != TierPaused {
		t.Fatalf("expected paused tier, got %s", c.Tier())
	}
	if c.Tier().Blinks() {
		t.Fatal("paused tier must not blink")
	}
}

func TestPausedTicksDoNothing(t *testing.T) {
	c := newTestCountdown(t, 5)
	c.Tick()
	c.Toggle()
	if !c.Paused() {
		t.Fatal("toggle should pause")
	}
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if c.RemainingSeconds() != 4 {
		t.Fatalf("paused countdown moved: %d", c.RemainingSeconds())
	}
	c.Toggle()
	if c.Paused() {
		t.Fatal("toggle should resume")
	}
	c.Tick()
	if c.RemainingSeconds() != 3 {
		t.Fatalf("expected 3 remaining, got %d", c.RemainingSeconds())
	}
}

func TestStopNeverNotifies(t *testing.T) {
	fired := false
	c := newTestCountdown(t, 2, OnExpire(func(Config) { fired = true }))
	c.Stop()
	if c.State() != Stopped || !c.Done() {
		t.Fatalf("expected stopped, got %s", c.State())
	}
	c.Tick()
	c.Tick()
	c.Toggle()
	if fired {
		t.Fatal("stopped countdown fired expiry")
	}
	if c.State() != Stopped {
		t.Fatalf("toggle changed a stopped countdown to %s", c.State())
	}
}

func TestToggleAfterExpiryIsNoop(t *testing.T) {
	c := newTestCountdown(t, 1)
	c.Tick()
	c.Toggle()
	if c.State() != Expired {
		t.Fatalf("expected expired, got %s", c.State())
	}
	c.Stop()
	if c.State() != Expired {
		t.Fatalf("stop changed an expired countdown to %s", c.State())
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{0: "0:00", 5: "0:05", 60: "1:00", 330: "5:30", 6039: "100:39", -3: "0:00"}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatal(err)
	}
	bad := []Thresholds{{0, 0.8}, {0.8, 0.6}, {0.5, 1.2}, {0.7, 0.7}}
	for _, th := range bad {
		if th.Validate() == nil {
			t.Errorf("expected %+v to be rejected", th)
		}
	}
}

func TestCustomThresholds(t *testing.T) {
	c, err := New(Config{TotalSeconds: 4, Thresholds: Thresholds{Warning: 0.25, Danger: 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	c.Tick()
	if c.Tier() != TierWarning {
		t.Fatalf("expected warning, got %s", c.Tier())
	}
	c.Tick()
	if c.Tier() != TierDanger {
		t.Fatalf("expected danger, got %s", c.Tier())
	}
}

func TestRunUntilExpiry(t *testing.T) {
	fired := 0
	c := newTestCountdown(t, 3, OnExpire(func(Config) { fired++ }))

	ticks := make(chan time.Time, 10)
	for i := 0; i < 10; i++ {
		ticks <- time.Now()
	}

	var seen []int
	err := Run(context.Background(), c, ticks, nil, func(c *Countdown) {
		seen = append(seen, c.RemainingSeconds())
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[0] != 2 || seen[2] != 0 {
		t.Fatalf("unexpected observations %v", seen)
	}
	if fired != 1 {
		t.Fatalf("expected one expiry, got %d", fired)
	}
	if len(ticks) != 7 {
		t.Fatalf("run kept consuming ticks after expiry: %d left", len(ticks))
	}
}

func TestRunCancelled(t *testing.T) {
	c := newTestCountdown(t, 60)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, c, make(chan time.Time), nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if c.State() != Stopped {
		t.Fatalf("expected stopped after cancel, got %s", c.State())
	}
}

func TestRunCommands(t *testing.T) {
	c := newTestCountdown(t, 60)
	cmds := make(chan Command, 3)
	cmds <- CmdToggle
	cmds <- CmdStop

	var states []State
	err := Run(context.Background(), c, nil, cmds, func(c *Countdown) {
		states = append(states, c.State())
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 || states[0] != Paused || states[1] != Stopped {
		t.Fatalf("unexpected states %v", states)
	}
}
