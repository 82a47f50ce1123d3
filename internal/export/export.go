package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sadopc/remmeter/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or yaml)", s)
}

// Write encodes sessions to w in the given format.
func Write(w io.Writer, f Format, sessions []store.Session) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, sessions)
	case FormatJSON:
		return WriteJSON(w, sessions)
	case FormatYAML:
		return WriteYAML(w, sessions)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes sessions to path in the given format.
func ToFile(path string, f Format, sessions []store.Session) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", f, err)
	}
	if err := Write(file, f, sessions); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

type record struct {
	ID           int64  `json:"id" yaml:"id"`
	UUID         string `json:"uuid" yaml:"uuid"`
	Status       string `json:"status" yaml:"status"`
	Position     string `json:"position" yaml:"position"`
	Display      int    `json:"display" yaml:"display"`
	StartedAt    string `json:"started_at" yaml:"started_at"`
	EndedAt      string `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	TotalSec     int    `json:"total_seconds" yaml:"total_seconds"`
	ElapsedSec   int    `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	RemainingSec int    `json:"remaining_seconds" yaml:"remaining_seconds"`
	Duration     string `json:"duration" yaml:"duration"`
}

func toRecord(s store.Session) record {
	endStr := ""
	if s.EndedAt != nil {
		endStr = s.EndedAt.Local().Format(time.RFC3339)
	}
	return record{
		ID:           s.ID,
		UUID:         s.UUID,
		Status:       string(s.Status),
		Position:     s.Position,
		Display:      s.Display,
		StartedAt:    s.StartedAt.Local().Format(time.RFC3339),
		EndedAt:      endStr,
		TotalSec:     s.TotalSeconds,
		ElapsedSec:   s.Elapsed(),
		RemainingSec: s.RemainingSeconds,
		Duration:     formatDuration(int64(s.TotalSeconds)),
	}
}

type document struct {
	ExportedAt string   `json:"exported_at" yaml:"exported_at"`
	Count      int      `json:"count" yaml:"count"`
	Sessions   []record `json:"sessions" yaml:"sessions"`
}

func newDocument(sessions []store.Session) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
		Sessions:   make([]record, 0, len(sessions)),
	}
	for _, s := range sessions {
		doc.Sessions = append(doc.Sessions, toRecord(s))
	}
	return doc
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
