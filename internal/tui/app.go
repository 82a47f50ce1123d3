package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/sadopc/remmeter/internal/countdown"
	"github.com/sadopc/remmeter/internal/export"
	"github.com/sadopc/remmeter/internal/notify"
	"github.com/sadopc/remmeter/internal/position"
	"github.com/sadopc/remmeter/internal/store"
	"github.com/sadopc/remmeter/internal/validate"
)

const (
	tickInterval  = time.Second
	blinkInterval = 500 * time.Millisecond
)

var exportFormats = []export.Format{export.FormatCSV, export.FormatJSON, export.FormatYAML}

// Options configures the App.
type Options struct {
	// Context bounds notification resources. Defaults to context.Background.
	Context    context.Context
	Validator  validate.Validator
	Thresholds countdown.Thresholds
	Lang       language.Tag
	// Position preselected in the setup form until a remembered one loads.
	Position position.Position
	// Notifier shows desktop notifications. When nil, only the in-app
	// modal is used.
	Notifier  notify.Notifier
	Logger    *slog.Logger
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	ctx      context.Context
	notifier notify.Notifier
	log      *slog.Logger
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	formOpened    bool
	exportPicking bool
	exportCursor  int
	exportDir     string
	modal         *notify.Notification

	setup   setupModel
	timer   timerModel
	history historyModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(s *store.Store, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	a := App{
		store:      s,
		ctx:        opts.Context,
		notifier:   opts.Notifier,
		log:        opts.Logger,
		exportDir:  opts.ExportDir,
		activeView: viewSetup,
		setup:      newSetupModel(s, opts.Validator, opts.Lang),
		timer:      newTimerModel(s, opts.Thresholds, opts.Logger),
		history:    newHistoryModel(s),
		help:       h,
	}
	*a.setup.position = opts.Position.String()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.setup.refresh(),
		a.history.refresh(),
	)
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func blinkCmd(gen int) tea.Cmd {
	return tea.Tick(blinkInterval, func(time.Time) tea.Msg {
		return blinkMsg{gen: gen}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		_, h := a.canvas()
		a.setup.setSize(a.width, h)
		a.history.setSize(a.width, h)
		return a.openSetup()

	case setupDataMsg:
		a.setup, _ = a.setup.update(msg)
		return a.openSetup()

	case tea.KeyMsg:
		if a.modal != nil {
			return a.updateModal(msg)
		}
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		// The setup form captures all keys while open.
		if a.activeView == viewSetup && a.setup.formActive {
			return a.updateActiveView(msg)
		}
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.activeView != viewTimer || a.modal != nil || a.exportPicking {
			return a, nil
		}
		top, h := a.canvas()
		a.timer.hover(msg.X, msg.Y-top, a.width, h)
		return a, nil

	case setupDoneMsg:
		return a.startTimer(msg)

	case tickMsg:
		if msg.gen != a.timer.gen || !a.timer.active() {
			return a, nil
		}
		expired, err := a.timer.tick()
		if err != nil {
			a.log.Error("record completion", slog.Any("err", err))
		}
		if !expired {
			return a, tickCmd(msg.gen)
		}
		return a, tea.Batch(
			a.notify(notify.TimeUp(a.timer.cd.Config().TotalSeconds)),
			finished(a.timer.session),
		)

	case blinkMsg:
		if msg.gen != a.timer.gen || !a.timer.active() {
			return a, nil
		}
		if a.timer.cd.Tier().Blinks() {
			a.timer.blinkOn = !a.timer.blinkOn
		} else {
			a.timer.blinkOn = true
		}
		return a, blinkCmd(msg.gen)

	case modalMsg:
		n := msg.n
		a.modal = &n
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		return a, nil

	case timerStartedMsg:
		a.setStatus(fmt.Sprintf("Timer started: %s", countdown.FormatClock(msg.session.TotalSeconds)))
		return a, nil

	case timerFinishedMsg:
		if msg.session != nil && msg.session.Status == store.StatusCompleted {
			a.setStatus("Time's up")
		} else {
			a.setStatus("Timer stopped")
		}
		return a, a.history.refresh()

	case exportDoneMsg:
		a.setStatus("Exported to " + msg.path)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.isErr = false
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if sess, err := a.timer.stop(); err != nil {
			a.log.Error("record stop on quit", slog.Any("err", err))
		} else if sess != nil {
			a.log.Info("stopped on quit", slog.Int64("session", sess.ID))
		}
		return a, tea.Quit
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Pause):
		if !a.timer.active() {
			return a, nil
		}
		a.timer.toggle()
		if a.timer.paused() {
			a.setStatus("Paused")
		} else {
			a.setStatus("Resumed")
		}
		return a, nil
	case key.Matches(msg, keys.Stop):
		sess, err := a.timer.stop()
		if err != nil {
			return a, func() tea.Msg { return statusMsg{text: fmt.Sprintf("Stop: %v", err), isError: true} }
		}
		if sess == nil {
			return a, nil
		}
		return a, finished(sess)
	case key.Matches(msg, keys.Expand):
		if a.timer.active() {
			a.timer.togglePinned()
		}
		return a, nil
	case key.Matches(msg, keys.New):
		a.activeView = viewSetup
		var cmd tea.Cmd
		a.setup, cmd = a.setup.showForm()
		return a, cmd
	case key.Matches(msg, keys.Tab1):
		a.activeView = viewSetup
		return a, nil
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewTimer
		return a, nil
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewHistory
		return a, a.history.refresh()
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % viewState(len(viewNames))
		return a, a.refreshCurrentView()
	}
	return a.updateActiveView(msg)
}

// openSetup shows the setup form once the terminal size and the remembered
// settings are both known.
func (a App) openSetup() (tea.Model, tea.Cmd) {
	if a.formOpened || a.width == 0 || !a.setup.loaded || a.activeView != viewSetup {
		return a, nil
	}
	a.formOpened = true
	var cmd tea.Cmd
	a.setup, cmd = a.setup.showForm()
	return a, cmd
}

// startTimer replaces any running countdown with the one just set up.
func (a App) startTimer(msg setupDoneMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if sess, err := a.timer.stop(); err != nil {
		a.log.Error("stop previous timer", slog.Any("err", err))
	} else if sess != nil {
		cmds = append(cmds, finished(sess))
	}

	if err := a.timer.start(msg.total, msg.pos, msg.display, msg.displayIndex); err != nil {
		a.status = fmt.Sprintf("Start timer: %v", err)
		a.isErr = true
		return a, tea.Batch(cmds...)
	}
	a.activeView = viewTimer
	sess := a.timer.session
	cmds = append(cmds,
		tickCmd(a.timer.gen),
		blinkCmd(a.timer.gen),
		func() tea.Msg { return timerStartedMsg{session: sess} },
	)
	return a, tea.Batch(cmds...)
}

func finished(sess *store.Session) tea.Cmd {
	return func() tea.Msg { return timerFinishedMsg{session: sess} }
}

// notify tries the desktop notifier and falls back to the in-app modal.
func (a App) notify(n notify.Notification) tea.Cmd {
	if a.notifier == nil {
		return func() tea.Msg { return modalMsg{n: n} }
	}
	primary, ctx, log := a.notifier, a.ctx, a.log
	return func() tea.Msg {
		shown := false
		modal := notify.Func(func(context.Context, notify.Notification) error {
			shown = true
			return nil
		})
		_ = notify.WithFallback(primary, modal, log).Notify(ctx, n)
		if shown {
			return modalMsg{n: n}
		}
		return nil
	}
}

func (a App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Back), key.Matches(msg, keys.Pause):
		a.modal = nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewSetup:
		a.setup, cmd = a.setup.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	if a.activeView == viewHistory {
		return a.history.refresh()
	}
	return nil
}

// canvas returns the first row and the height of the content area.
func (a App) canvas() (top, height int) {
	top = lipgloss.Height(a.renderHeader())
	height = max(a.height-top-lipgloss.Height(a.renderFooter()), 1)
	return top, height
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	_, contentHeight := a.canvas()

	var content string
	switch a.activeView {
	case viewSetup:
		content = a.setup.view()
	case viewTimer:
		content = a.timer.view(a.width, contentHeight)
	case viewHistory:
		content = a.history.view()
	}

	switch {
	case a.modal != nil:
		content = a.renderModal(contentHeight)
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("remmeter")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	timerInfo := ""
	if a.timer.active() {
		style := lipgloss.NewStyle().Foreground(tierColors[a.timer.cd.Tier()])
		icon := " ● "
		if a.timer.paused() {
			icon = " ⏸ "
		}
		timerInfo = style.Render(icon + a.timer.cd.Remaining())
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderModal(h int) string {
	box := activePanelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(a.modal.Title),
		"",
		a.modal.Message,
		"",
		mutedStyle.Render("enter: OK"),
	))
	return lipgloss.Place(a.width, h, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	s, dir := a.store, a.exportDir
	return func() tea.Msg {
		sessions, err := s.ListSessions(store.SessionFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		name := fmt.Sprintf("remmeter-export-%s.%s", time.Now().Format("2006-01-02"), f)
		path := filepath.Join(dir, name)
		if err := export.ToFile(path, f, sessions); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", f, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
