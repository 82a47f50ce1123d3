package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Setting keys for the remembered setup form.
const (
	KeyLastDuration     = "last_duration"
	KeyLastPosition     = "last_position"
	KeyLastDisplay      = "last_display"
	KeyRememberSettings = "remember_settings"
)

// Remembered is the setup form state restored on the next start.
type Remembered struct {
	Duration string
	Position string
	Display  int
	Remember bool
}

func (s *Store) LoadRemembered() (Remembered, error) {
	var r Remembered
	var err error
	if r.Duration, err = s.GetSetting(KeyLastDuration); err != nil {
		return r, err
	}
	if r.Position, err = s.GetSetting(KeyLastPosition); err != nil {
		return r, err
	}
	display, err := s.GetSetting(KeyLastDisplay)
	if err != nil {
		return r, err
	}
	if r.Display, err = strconv.Atoi(display); err != nil || r.Display < 0 {
		r.Display = 0
	}
	remember, err := s.GetSetting(KeyRememberSettings)
	if err != nil {
		return r, err
	}
	r.Remember, _ = strconv.ParseBool(remember)
	return r, nil
}

// SaveRemembered stores the toggle and, when it is on, the form values.
// Turning it off clears the remembered values.
func (s *Store) SaveRemembered(r Remembered) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save remembered settings: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		KeyRememberSettings: strconv.FormatBool(r.Remember),
		KeyLastDuration:     "",
		KeyLastPosition:     "Right",
		KeyLastDisplay:      "0",
	}
	if r.Remember {
		values[KeyLastDuration] = r.Duration
		values[KeyLastPosition] = r.Position
		values[KeyLastDisplay] = strconv.Itoa(r.Display)
	}
	for k, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return tx.Commit()
}
