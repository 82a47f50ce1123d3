package tui

import (
	"log/slog"

	"github.com/sadopc/remmeter/internal/countdown"
	"github.com/sadopc/remmeter/internal/display"
	"github.com/sadopc/remmeter/internal/position"
	"github.com/sadopc/remmeter/internal/store"
)

// timerModel owns the running countdown and its history row.
type timerModel struct {
	store      *store.Store
	log        *slog.Logger
	thresholds countdown.Thresholds

	cd      *countdown.Countdown
	session *store.Session
	gen     int // bumped per start so stale ticks are dropped

	expanded bool
	pinned   bool // expanded from the keyboard, ignores hover
	blinkOn  bool
}

func newTimerModel(s *store.Store, th countdown.Thresholds, log *slog.Logger) timerModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return timerModel{store: s, thresholds: th, log: log, blinkOn: true}
}

func (t *timerModel) start(total int, pos position.Position, d display.Display, displayIndex int) error {
	cd, err := countdown.New(countdown.Config{
		TotalSeconds: total,
		Position:     pos,
		Display:      d,
		Thresholds:   t.thresholds,
	}, countdown.WithLogger(t.log))
	if err != nil {
		return err
	}
	sess, err := t.store.StartSession(total, pos.String(), displayIndex)
	if err != nil {
		return err
	}
	t.cd = cd
	t.session = sess
	t.gen++
	t.expanded = false
	t.pinned = false
	t.blinkOn = true
	return nil
}

// tick advances the countdown and reports whether this tick expired it.
func (t *timerModel) tick() (bool, error) {
	if t.cd == nil || !t.cd.Tick() {
		return false, nil
	}
	sess, err := t.store.FinishSession(t.session.ID, store.StatusCompleted, 0)
	if err != nil {
		return true, err
	}
	t.session = sess
	return true, nil
}

// stop cancels an active countdown. It returns nil when nothing was running.
func (t *timerModel) stop() (*store.Session, error) {
	if !t.active() {
		return nil, nil
	}
	t.cd.Stop()
	sess, err := t.store.FinishSession(t.session.ID, store.StatusStopped, t.cd.RemainingSeconds())
	if err != nil {
		return nil, err
	}
	t.session = sess
	return sess, nil
}

func (t *timerModel) toggle() {
	if t.cd != nil {
		t.cd.Toggle()
	}
}

func (t timerModel) active() bool {
	return t.cd != nil && !t.cd.Done()
}

func (t timerModel) paused() bool {
	return t.cd != nil && t.cd.Paused()
}

func (t timerModel) expired() bool {
	return t.cd != nil && t.cd.State() == countdown.Expired
}

func (t timerModel) position() position.Position {
	if t.cd == nil {
		return position.Default
	}
	return t.cd.Config().Position
}
