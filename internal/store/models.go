package store

import "time"

// Status of a recorded countdown.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
)

type Session struct {
	ID               int64
	UUID             string
	TotalSeconds     int
	RemainingSeconds int
	Position         string
	Display          int
	Status           Status
	StartedAt        time.Time
	EndedAt          *time.Time
}

// Elapsed is the part of the countdown that actually ran.
func (s Session) Elapsed() int {
	return s.TotalSeconds - s.RemainingSeconds
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter sessions in queries.
type SessionFilter struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailyTotal aggregates finished sessions per day.
type DailyTotal struct {
	Date           string
	ElapsedSeconds int64
	Completed      int
	Stopped        int
}
