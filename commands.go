package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/remmeter/internal/config"
	"github.com/sadopc/remmeter/internal/countdown"
	"github.com/sadopc/remmeter/internal/display"
	"github.com/sadopc/remmeter/internal/export"
	"github.com/sadopc/remmeter/internal/notify"
	"github.com/sadopc/remmeter/internal/position"
	"github.com/sadopc/remmeter/internal/store"
	"github.com/sadopc/remmeter/internal/timeinput"
	"github.com/sadopc/remmeter/internal/validate"
)

const progressWidth = 30

var (
	historyLimit  int
	historyStatus string

	exportFormat string
	exportOutput string
)

// ============================================================
// run
// ============================================================

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <time>",
		Short: "Run a countdown in this terminal without the TUI",
		Long: "Run a countdown without the TUI. <time> is 1-2 digits of seconds, " +
			"3-4 digits of MMSS, or MM:SS. Ctrl+C stops the countdown.",
		Args: cobra.ExactArgs(1),
		RunE: runRunCmd,
	}
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if res := e.validator(validate.Size{}).Input(args[0]); !res.Valid {
		return errors.New(res.First())
	}
	total := e.parser.TotalSeconds(args[0])

	ds, err := display.List(display.Terminal{}, display.Default())
	if err != nil {
		e.logger.Debug("terminal size unavailable", slog.Any("err", err))
	}
	idx := display.PrimaryIndex(ds)

	st, err := openStore(e.logger)
	if err != nil {
		return err
	}
	defer closeStore(st)

	cd, err := countdown.New(countdown.Config{
		TotalSeconds: total,
		Position:     e.position,
		Display:      ds[idx],
		Thresholds:   e.thresholds,
	}, countdown.WithLogger(e.logger))
	if err != nil {
		return err
	}
	sess, err := st.StartSession(total, e.position.String(), idx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	out := cmd.OutOrStdout()
	printProgress(out, cd)
	runErr := countdown.Run(ctx, cd, ticker.C, nil, func(c *countdown.Countdown) {
		printProgress(out, c)
	})
	fmt.Fprintln(out)

	if runErr != nil {
		if _, err := st.FinishSession(sess.ID, store.StatusStopped, cd.RemainingSeconds()); err != nil {
			return err
		}
		logErrf("Stopped with %s left.\n", cd.Remaining())
		return nil
	}
	if _, err := st.FinishSession(sess.ID, store.StatusCompleted, 0); err != nil {
		return err
	}

	n := notify.TimeUp(total)
	console := notify.Console(out)
	primary := e.notifier()
	if primary == nil {
		return console.Notify(context.Background(), n)
	}
	// The countdown context is done once interrupted; the notification gets its own.
	return notify.WithFallback(primary, console, e.logger).Notify(context.Background(), n)
}

func printProgress(w io.Writer, c *countdown.Countdown) {
	filled := display.Fill(progressWidth, c.Progress())
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	fmt.Fprintf(w, "\r[%s] %6s %-8s", bar, c.Remaining(), c.Tier())
}

// ============================================================
// parse
// ============================================================

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <input>",
		Short: "Show how a time input is interpreted",
		Args:  cobra.ExactArgs(1),
		RunE:  runParseCmd,
	}
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	input := args[0]
	m, s := e.parser.Parse(input)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Input:    %s\n", input)
	fmt.Fprintf(out, "Time:     %s\n", e.parser.FormatForDisplay(m, s))
	fmt.Fprintf(out, "Seconds:  %d\n", m*60+s)
	fmt.Fprintf(out, "Retype:   %s\n", e.parser.FormatForInput(m, s))
	if timeinput.IsQuickTimeFormat(input) {
		fmt.Fprintln(out, "Format:   quick (seconds)")
	}
	if res := e.validator(validate.Size{}).Input(input); !res.Valid {
		fmt.Fprintf(out, "Invalid:  %s\n", res.First())
	}
	for _, hint := range e.parser.Suggestions(input) {
		fmt.Fprintf(out, "Hint:     %s\n", hint)
	}
	return nil
}

// ============================================================
// layout
// ============================================================

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print bar placement for every display and edge",
		Args:  cobra.NoArgs,
		RunE:  runLayoutCmd,
	}
}

func runLayoutCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	// Configured monitors are measured in pixels, the terminal in cells.
	var enum display.Enumerator = display.Terminal{}
	layout := display.CellLayout()
	if static := e.file.StaticDisplays(); static != nil {
		enum = static
		layout = display.PixelLayout()
	}
	ds, err := display.List(enum, display.Default())
	if err != nil {
		e.logger.Warn("display enumeration failed", slog.Any("err", err))
		layout = display.PixelLayout()
	}

	v := e.validator(validate.MinPixels)
	if layout == display.CellLayout() {
		v = e.validator(validate.MinCells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Display", "Edge", "Slim", "Expanded").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for i, d := range ds {
		label := d.Label(i)
		if res := v.Display(&d); !res.Valid {
			label += " !"
		}
		bounds := d.Logical()
		for _, p := range position.All() {
			mark := ""
			if p == e.position {
				mark = " *"
			}
			t.Row(label, p.DisplayName(e.lang)+mark,
				formatRect(layout.Slim(p, bounds)), formatRect(layout.Expanded(p, bounds)))
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func formatRect(r display.Rect) string {
	return fmt.Sprintf("%.0f,%.0f %.0fx%.0f", r.Left, r.Top, r.Width, r.Height)
}

// ============================================================
// history
// ============================================================

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent countdowns",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "last", 20, "limit to last N countdowns (0 = all)")
	cmd.Flags().StringVar(&historyStatus, "status", "", "filter by status: running, completed or stopped")
	return cmd
}

func sessionFilter(status string, limit int) (store.SessionFilter, error) {
	f := store.SessionFilter{Limit: limit}
	if status == "" {
		return f, nil
	}
	s := store.Status(strings.ToLower(strings.TrimSpace(status)))
	switch s {
	case store.StatusRunning, store.StatusCompleted, store.StatusStopped:
		f.Status = &s
		return f, nil
	}
	return f, fmt.Errorf("invalid --status value %q", status)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	f, err := sessionFilter(historyStatus, historyLimit)
	if err != nil {
		return err
	}
	st, err := openStore(e.logger)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessions, err := st.ListSessions(f)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		logErrf("No countdowns recorded yet.\n")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Started", "Status", "Edge", "Duration", "Elapsed")
	for _, s := range sessions {
		t.Row(
			strconv.FormatInt(s.ID, 10),
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			string(s.Status),
			s.Position,
			countdown.FormatClock(s.TotalSeconds),
			countdown.FormatClock(s.Elapsed()),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

// ============================================================
// export
// ============================================================

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export countdown history",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.FormatCSV), "csv, json or yaml")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file ('-' for stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err := openStore(e.logger)
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessions, err := st.ListSessions(store.SessionFilter{})
	if err != nil {
		return err
	}
	if exportOutput == "-" {
		return export.Write(cmd.OutOrStdout(), format, sessions)
	}
	if err := export.ToFile(exportOutput, format, sessions); err != nil {
		return err
	}
	logErrf("Exported %d countdowns to %s\n", len(sessions), exportOutput)
	return nil
}

// ============================================================
// config
// ============================================================

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}
