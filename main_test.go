package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sadopc/remmeter/internal/display"
	"github.com/sadopc/remmeter/internal/store"
)

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("TIMER_LANG", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	path := filepath.Join(dir, "config", "remmeter", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "parse", "90")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{"Time:     01:30", "Seconds:  90", "Retype:   130", "quick"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseCommandLiteralOverflow(t *testing.T) {
	isolate(t)
	out, err := execute(t, "parse", "--overflow", "literal", "90")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, "Time:     00:90") {
		t.Fatalf("literal overflow should keep 90 seconds:\n%s", out)
	}
}

func TestParseCommandInvalid(t *testing.T) {
	isolate(t)
	out, err := execute(t, "parse", "abc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, "Invalid:  Please set the time correctly.") {
		t.Fatalf("expected validation message:\n%s", out)
	}
}

func TestConfigFileUnderFlags(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[input]\noverflow = \"literal\"\n")

	out, err := execute(t, "parse", "90")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Time:     00:90") {
		t.Fatalf("config overflow should apply:\n%s", out)
	}

	out, err = execute(t, "parse", "--overflow", "normalize", "90")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Time:     01:30") {
		t.Fatalf("flag should win over config:\n%s", out)
	}
}

func TestBadFlags(t *testing.T) {
	isolate(t)
	tests := [][]string{
		{"parse", "--overflow", "wrap", "1"},
		{"parse", "--clamp", "soft", "1"},
		{"parse", "--position", "Middle", "1"},
		{"parse", "--warning", "0.9", "--danger", "0.5", "1"},
		{"parse", "--log-level", "loud", "1"},
		{"parse", "--max-total", "-1", "1"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRunRejectsInvalidTime(t *testing.T) {
	isolate(t)
	_, err := execute(t, "run", "0")
	if err == nil || !strings.Contains(err.Error(), "Please set the time correctly.") {
		t.Fatalf("run 0: %v", err)
	}
	_, err = execute(t, "run", "--max-total", "60", "5:00")
	if err == nil || !strings.Contains(err.Error(), "should not exceed 01:00") {
		t.Fatalf("run over max-total: %v", err)
	}
}

func TestRunCompletes(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "run", "--no-notify", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Time's up! 0 minutes 1 seconds have passed!") {
		t.Fatalf("expected console notification:\n%s", out)
	}

	st, err := store.New(filepath.Join(dir, "data", "remmeter", "remmeter.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	sessions, err := st.ListSessions(store.SessionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].Status != store.StatusCompleted {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestLayoutStaticDisplays(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[[display]]\nwidth = 1920\nheight = 1080\nprimary = true\n")

	out, err := execute(t, "layout")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Display 1 - 1920x1080 (Primary)", "1890,108 20x864", "1790,108 120x864", "Right *"} {
		if !strings.Contains(out, want) {
			t.Fatalf("layout missing %q:\n%s", want, out)
		}
	}
}

func TestExportEmptyJSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, "export", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Count    int               `json:"count"`
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Count != 0 || len(doc.Sessions) != 0 {
		t.Fatalf("expected empty export, got %+v", doc)
	}
	if _, err := execute(t, "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestHistoryStatusFilter(t *testing.T) {
	f, err := sessionFilter("Completed", 5)
	if err != nil || f.Status == nil || *f.Status != store.StatusCompleted || f.Limit != 5 {
		t.Fatalf("sessionFilter = %+v, %v", f, err)
	}
	if f, _ := sessionFilter("", 0); f.Status != nil {
		t.Fatal("empty status should not filter")
	}
	if _, err := sessionFilter("paused", 0); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestApplyConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var n int
	cmd.Flags().IntVar(&n, "n", 1, "")

	v := 5
	applyConfig(cmd, "n", &n, &v)
	if n != 5 {
		t.Fatalf("config should apply when flag unset, got %d", n)
	}
	applyConfig(cmd, "n", &n, nil)
	if n != 5 {
		t.Fatal("nil config value should be ignored")
	}

	if err := cmd.Flags().Set("n", "7"); err != nil {
		t.Fatal(err)
	}
	applyConfig(cmd, "n", &n, &v)
	if n != 7 {
		t.Fatalf("flag should win, got %d", n)
	}
}

func TestFormatRect(t *testing.T) {
	got := formatRect(display.Rect{Left: 1890, Top: 108, Width: 20, Height: 864})
	if got != "1890,108 20x864" {
		t.Fatalf("formatRect = %q", got)
	}
}
