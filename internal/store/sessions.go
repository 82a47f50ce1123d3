package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sessionColumns = `id, uuid, total_seconds, remaining_seconds, position, display, status, started_at, ended_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (*Session, error) {
	ss := &Session{}
	var status, startedAt string
	var endedAt sql.NullString
	if err := r.Scan(&ss.ID, &ss.UUID, &ss.TotalSeconds, &ss.RemainingSeconds, &ss.Position, &ss.Display, &status, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	ss.Status = Status(status)
	ss.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339, endedAt.String)
		ss.EndedAt = &t
	}
	return ss, nil
}

// StartSession records a countdown that has just started.
func (s *Store) StartSession(totalSeconds int, position string, display int) (*Session, error) {
	if totalSeconds <= 0 {
		return nil, fmt.Errorf("start session: total seconds must be > 0, got %d", totalSeconds)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO sessions (uuid, total_seconds, remaining_seconds, position, display, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), totalSeconds, totalSeconds, position, display, string(StatusRunning), now,
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(id)
}

// FinishSession marks a running session completed or stopped.
func (s *Store) FinishSession(id int64, status Status, remaining int) (*Session, error) {
	if status != StatusCompleted && status != StatusStopped {
		return nil, fmt.Errorf("finish session %d: invalid status %q", id, status)
	}
	if status == StatusCompleted {
		remaining = 0
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE sessions SET status = ?, remaining_seconds = ?, ended_at = ?
		 WHERE id = ? AND status = ?`,
		string(status), remaining, now, id, string(StatusRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("finish session %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("finish session %d: not running", id)
	}
	return s.GetSession(id)
}

func (s *Store) GetSession(id int64) (*Session, error) {
	ss, err := scanSession(s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	return ss, nil
}

// GetRunningSession returns the latest unfinished session, or nil.
func (s *Store) GetRunningSession() (*Session, error) {
	ss, err := scanSession(s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE status = ? ORDER BY id DESC LIMIT 1`,
		string(StatusRunning),
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get running session: %w", err)
	}
	return ss, nil
}

// AbandonRunning marks sessions left running by a crashed process as stopped.
func (s *Store) AbandonRunning() (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE sessions SET status = ?, ended_at = ? WHERE status = ?`,
		string(StatusStopped), now, string(StatusRunning),
	)
	if err != nil {
		return 0, fmt.Errorf("abandon running sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) ListSessions(f SessionFilter) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE 1=1`
	var args []any

	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*f.Status))
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		ss, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *ss)
	}
	return sessions, rows.Err()
}

// GetDailyTotals sums finished sessions per day in [from, to).
func (s *Store) GetDailyTotals(from, to time.Time) ([]DailyTotal, error) {
	rows, err := s.db.Query(`
		SELECT date(started_at) AS day,
		       COALESCE(SUM(total_seconds - remaining_seconds), 0),
		       SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'stopped' THEN 1 ELSE 0 END)
		FROM sessions
		WHERE status != 'running'
		  AND started_at >= ? AND started_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var dt DailyTotal
		if err := rows.Scan(&dt.Date, &dt.ElapsedSeconds, &dt.Completed, &dt.Stopped); err != nil {
			return nil, err
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}
