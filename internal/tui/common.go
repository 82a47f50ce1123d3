package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/remmeter/internal/notify"
	"github.com/sadopc/remmeter/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewSetup viewState = iota
	viewTimer
	viewHistory
)

var viewNames = []string{"Setup", "Timer", "History"}

// --- Messages ---

type timerStartedMsg struct {
	session *store.Session
}

type timerFinishedMsg struct {
	session *store.Session
}

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg drives the countdown. gen ties it to the countdown that scheduled it.
type tickMsg struct {
	gen int
	at  time.Time
}

type blinkMsg struct {
	gen int
}

// modalMsg asks the app to show a notification in-app.
type modalMsg struct {
	n notify.Notification
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatMinutes(secs int64) string {
	return fmt.Sprintf("%.1fm", float64(secs)/60)
}
