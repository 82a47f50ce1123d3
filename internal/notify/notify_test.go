package notify

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	done   chan struct{}
	err    error
	closed int
}

func newFakeHandle() *fakeHandle { return &fakeHandle{done: make(chan struct{})} }

func (h *fakeHandle) Done() <-chan struct{} { return h.done }
func (h *fakeHandle) Err() error            { return h.err }
func (h *fakeHandle) Close() error          { h.closed++; return nil }

func newTestScope(show ShowFunc, after chan time.Time) *Scope {
	s := NewScope(show, time.Second, nil)
	s.after = func(time.Duration) <-chan time.Time { return after }
	return s
}

func TestTimeUp(t *testing.T) {
	n := TimeUp(330)
	assert.Equal(t, "Timer", n.Title)
	assert.Equal(t, "Time's up! 5 minutes 30 seconds have passed!", n.Message)
	assert.Equal(t, "Time's up! 0 minutes 0 seconds have passed!", TimeUp(-1).Message)
}

func TestScopeReleasesOnCompletion(t *testing.T) {
	h := newFakeHandle()
	close(h.done)
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return h, nil }, make(chan time.Time))

	require.NoError(t, s.Notify(context.Background(), TimeUp(10)))
	assert.Equal(t, 1, h.closed)
}

func TestScopeReleasesAfterDelay(t *testing.T) {
	h := newFakeHandle()
	after := make(chan time.Time, 1)
	after <- time.Now()
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return h, nil }, after)

	require.NoError(t, s.Notify(context.Background(), TimeUp(10)))
	assert.Equal(t, 1, h.closed)
}

func TestScopeReleasesOnShowFailure(t *testing.T) {
	h := newFakeHandle()
	boom := errors.New("boom")
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return h, boom }, make(chan time.Time))

	err := s.Notify(context.Background(), TimeUp(10))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, h.closed)
}

func TestScopeRejectsMissingHandle(t *testing.T) {
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return nil, nil }, make(chan time.Time))

	err := s.Notify(context.Background(), TimeUp(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handle")
}

func TestScopeReleasesOnPanic(t *testing.T) {
	h := newFakeHandle()
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return h, nil }, nil)
	s.after = func(time.Duration) <-chan time.Time { panic("display failed") }

	assert.Panics(t, func() { _ = s.Notify(context.Background(), TimeUp(10)) })
	assert.Equal(t, 1, h.closed)
}

func TestScopeReportsHandleError(t *testing.T) {
	h := newFakeHandle()
	h.err = errors.New("exit status 1")
	close(h.done)
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return h, nil }, make(chan time.Time))

	assert.Error(t, s.Notify(context.Background(), TimeUp(10)))
	assert.Equal(t, 1, h.closed)
}

func TestScopeCancelled(t *testing.T) {
	h := newFakeHandle()
	s := newTestScope(func(context.Context, Notification) (Handle, error) { return h, nil }, make(chan time.Time))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Notify(ctx, TimeUp(10)), context.Canceled)
	assert.Equal(t, 1, h.closed)
}

func TestWithFallback(t *testing.T) {
	var modalCalls int
	modal := Func(func(context.Context, Notification) error { modalCalls++; return nil })

	ok := Func(func(context.Context, Notification) error { return nil })
	require.NoError(t, WithFallback(ok, modal, nil).Notify(context.Background(), TimeUp(1)))
	assert.Zero(t, modalCalls)

	failing := Func(func(context.Context, Notification) error { return ErrUnsupported })
	require.NoError(t, WithFallback(failing, modal, nil).Notify(context.Background(), TimeUp(1)))
	assert.Equal(t, 1, modalCalls)

	brokenModal := Func(func(context.Context, Notification) error { return errors.New("no tty") })
	assert.NoError(t, WithFallback(failing, brokenModal, nil).Notify(context.Background(), TimeUp(1)))
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Console(&buf).Notify(context.Background(), TimeUp(61)))
	assert.Equal(t, "\aTimer: Time's up! 1 minutes 1 seconds have passed!\n", buf.String())
}

func found(string) (string, error)   { return "/usr/bin/x", nil }
func missing(string) (string, error) { return "", exec.ErrNotFound }

func TestDesktopCommand(t *testing.T) {
	n := Notification{Title: `Say "hi"`, Message: "it's done"}

	argv, err := Desktop{GOOS: "linux", LookPath: found}.Command(n)
	require.NoError(t, err)
	assert.Equal(t, []string{"notify-send", "--app-name=remmeter", "--expire-time=5000", `Say "hi"`, "it's done"}, argv)

	argv, err = Desktop{GOOS: "darwin", LookPath: found}.Command(n)
	require.NoError(t, err)
	assert.Equal(t, "osascript", argv[0])
	assert.Equal(t, `display notification "it's done" with title "Say \"hi\""`, argv[2])

	argv, err = Desktop{GOOS: "windows", LookPath: found}.Command(n)
	require.NoError(t, err)
	assert.Equal(t, "powershell", argv[0])
	script := argv[len(argv)-1]
	assert.Contains(t, script, `ShowBalloonTip(5000, 'Say "hi"', 'it''s done', 'Info')`)
	assert.True(t, strings.HasSuffix(script, "$n.Dispose()"))
}

func TestDesktopUnsupported(t *testing.T) {
	_, err := Desktop{GOOS: "plan9", LookPath: found}.Command(TimeUp(1))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Desktop{GOOS: "linux", LookPath: missing}.Command(TimeUp(1))
	assert.ErrorIs(t, err, ErrUnsupported)

	h, err := Desktop{GOOS: "linux", LookPath: missing}.Show(context.Background(), TimeUp(1))
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, h)
}
