// Package main provides the CLI entrypoint for remmeter.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/sadopc/remmeter/internal/config"
	"github.com/sadopc/remmeter/internal/countdown"
	"github.com/sadopc/remmeter/internal/logging"
	"github.com/sadopc/remmeter/internal/notify"
	"github.com/sadopc/remmeter/internal/position"
	"github.com/sadopc/remmeter/internal/store"
	"github.com/sadopc/remmeter/internal/timeinput"
	"github.com/sadopc/remmeter/internal/tui"
	"github.com/sadopc/remmeter/internal/validate"
)

var (
	flagLang       string
	flagMaxMinutes int
	flagMaxSeconds int
	flagOverflow   string
	flagClamp      string
	flagMaxTotal   int
	flagPosition   string
	flagWarning    float64
	flagDanger     float64
	flagLogLevel   string
	flagNoNotify   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "remmeter",
		Short:         "Countdown timer bar docked to a screen edge",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTUICmd,
	}

	th := countdown.DefaultThresholds()
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagLang, "lang", config.DefaultLang, "UI language (en-US, ja-JP, zh-CN, zh-TW)")
	f.IntVar(&flagMaxMinutes, "max-minutes", timeinput.DefaultMaxMinutes, "upper bound for minutes")
	f.IntVar(&flagMaxSeconds, "max-seconds", timeinput.DefaultMaxSeconds, "upper bound for seconds")
	f.StringVar(&flagOverflow, "overflow", timeinput.OverflowNormalize.String(), "seconds overflow: normalize or literal")
	f.StringVar(&flagClamp, "clamp", timeinput.ClampJoint.String(), "clamping: joint or independent")
	f.IntVar(&flagMaxTotal, "max-total", 0, "reject durations longer than this many seconds (0 = no limit)")
	f.StringVar(&flagPosition, "position", position.Default.String(), "screen edge: Right, Left, Top or Bottom")
	f.Float64Var(&flagWarning, "warning", th.Warning, "progress fraction for the warning color (0-1)")
	f.Float64Var(&flagDanger, "danger", th.Danger, "progress fraction for the danger color (0-1)")
	f.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.BoolVar(&flagNoNotify, "no-notify", false, "skip desktop notifications and show the message in-app")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLayoutCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// env is the effective configuration after merging the config file under
// the command line flags.
type env struct {
	file       config.FileConfig
	parser     timeinput.Parser
	maxTotal   int
	thresholds countdown.Thresholds
	position   position.Position
	lang       language.Tag
	notifyOn   bool
	cleanup    time.Duration
	logger     *slog.Logger
	logCloser  io.Closer
}

func (e *env) close() {
	if e.logCloser == nil {
		return
	}
	if err := e.logCloser.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

func (e *env) validator(min validate.Size) validate.Validator {
	return validate.New(e.parser, min, e.maxTotal)
}

// notifier returns the desktop notifier, or nil when notifications are off.
func (e *env) notifier() notify.Notifier {
	if !e.notifyOn {
		return nil
	}
	return notify.NewScope(notify.NewDesktop().Show, e.cleanup, e.logger)
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "max-minutes", &flagMaxMinutes, fileCfg.Input.MaxMinutes)
	applyConfig(cmd, "max-seconds", &flagMaxSeconds, fileCfg.Input.MaxSeconds)
	applyConfig(cmd, "overflow", &flagOverflow, fileCfg.Input.Overflow)
	applyConfig(cmd, "clamp", &flagClamp, fileCfg.Input.Clamp)
	applyConfig(cmd, "max-total", &flagMaxTotal, fileCfg.Input.MaxTotal)
	applyConfig(cmd, "position", &flagPosition, fileCfg.Timer.Position)
	applyConfig(cmd, "warning", &flagWarning, fileCfg.Timer.Warning)
	applyConfig(cmd, "danger", &flagDanger, fileCfg.Timer.Danger)
	applyConfig(cmd, "log-level", &flagLogLevel, fileCfg.Log.Level)

	overflow, err := timeinput.ParseOverflow(flagOverflow)
	if err != nil {
		return nil, fmt.Errorf("--overflow: %w", err)
	}
	clamp, err := timeinput.ParseClamp(flagClamp)
	if err != nil {
		return nil, fmt.Errorf("--clamp: %w", err)
	}
	if flagMaxTotal < 0 {
		return nil, fmt.Errorf("--max-total must be >= 0")
	}
	if res := validate.Position(flagPosition); !res.Valid {
		return nil, fmt.Errorf("--position: %s", res.First())
	}
	th := countdown.Thresholds{Warning: flagWarning, Danger: flagDanger}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}

	e := &env{
		file: fileCfg,
		parser: timeinput.NewParser(timeinput.Config{
			MaxMinutes: flagMaxMinutes,
			MaxSeconds: flagMaxSeconds,
			Overflow:   overflow,
			Clamp:      clamp,
		}),
		maxTotal:   flagMaxTotal,
		thresholds: th,
		position:   position.Parse(flagPosition),
		lang:       position.MatchLanguage(config.ResolveLang(flagLang, cmd.Flags().Changed("lang"), fileCfg.Lang)),
		notifyOn:   !flagNoNotify,
		cleanup:    notify.DefaultCleanupDelay,
	}
	if fileCfg.Notify.Enabled != nil && !cmd.Flags().Changed("no-notify") {
		e.notifyOn = *fileCfg.Notify.Enabled
	}
	if fileCfg.Notify.CleanupDelay != nil {
		e.cleanup = fileCfg.Notify.CleanupDelay.Duration
	}

	logger, closer, err := logging.Open(config.DefaultLogPath(), level)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		logger = logging.Discard()
	}
	e.logger, e.logCloser = logger, closer
	return e, nil
}

func openStore(logger *slog.Logger) (*store.Store, error) {
	st, err := store.New(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// Sessions left running by a crash can never finish.
	if n, err := st.AbandonRunning(); err != nil {
		logger.Warn("abandon running sessions", slog.Any("err", err))
	} else if n > 0 {
		logger.Info("abandoned running sessions", slog.Int64("count", n))
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
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

	// Cancelling releases any notification still on screen.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(st, tui.Options{
		Context:    ctx,
		Validator:  e.validator(validate.MinCells),
		Thresholds: e.thresholds,
		Lang:       e.lang,
		Position:   e.position,
		Notifier:   e.notifier(),
		Logger:     e.logger,
	})
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	e.logger.Info("tui started", slog.String("lang", e.lang.String()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// applyConfig copies a config file value into target unless the flag was
// given on the command line.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
