package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/sadopc/remmeter/internal/display"
	"github.com/sadopc/remmeter/internal/position"
	"github.com/sadopc/remmeter/internal/store"
	"github.com/sadopc/remmeter/internal/timeinput"
	"github.com/sadopc/remmeter/internal/validate"
)

// setupModel collects duration, edge and display for the next countdown.
type setupModel struct {
	store     *store.Store
	validator validate.Validator
	lang      language.Tag
	width     int
	height    int

	displays   []display.Display
	loaded     bool
	formActive bool
	form       *huh.Form
	errMsg     string

	// Form values as pointers (survive value copies)
	duration *string
	position *string
	display  *int
	remember *bool
}

func newSetupModel(s *store.Store, v validate.Validator, lang language.Tag) setupModel {
	dur, pos, disp, rem := "", position.Default.String(), 0, true
	return setupModel{
		store:     s,
		validator: v,
		lang:      lang,
		displays:  []display.Display{display.Default()},
		duration:  &dur,
		position:  &pos,
		display:   &disp,
		remember:  &rem,
	}
}

func (s *setupModel) setSize(w, h int) {
	s.width = w
	s.height = h
	// The terminal is the display the bar is drawn on.
	s.displays = []display.Display{{Width: float64(w), Height: float64(h), ScaleX: 1, ScaleY: 1, Primary: true}}
}

// setupDoneMsg carries a validated setup to the app.
type setupDoneMsg struct {
	total        int
	pos          position.Position
	display      display.Display
	displayIndex int
}

type setupDataMsg struct {
	remembered store.Remembered
	err        error
}

func (s setupModel) refresh() tea.Cmd {
	return func() tea.Msg {
		r, err := s.store.LoadRemembered()
		return setupDataMsg{remembered: r, err: err}
	}
}

func (s setupModel) update(msg tea.Msg) (setupModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case setupDataMsg:
		s.loaded = true
		if msg.err == nil {
			s.apply(msg.remembered)
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s setupModel) apply(r store.Remembered) {
	*s.remember = r.Remember
	if !r.Remember {
		return
	}
	*s.duration = r.Duration
	*s.position = position.Parse(r.Position).String()
	if r.Display >= 0 && r.Display < len(s.displays) {
		*s.display = r.Display
	}
}

func (s setupModel) showForm() (setupModel, tea.Cmd) {
	posOptions := make([]huh.Option[string], 0, 4)
	for _, p := range position.All() {
		posOptions = append(posOptions, huh.NewOption(p.DisplayName(s.lang), p.String()))
	}
	dispOptions := make([]huh.Option[int], 0, len(s.displays))
	for i, d := range s.displays {
		dispOptions = append(dispOptions, huh.NewOption(d.Label(i), i))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Time").
				Placeholder("90, 5:30 or 1000").
				DescriptionFunc(func() string {
					return strings.Join(s.validator.Parser.Suggestions(*s.duration), "\n")
				}, s.duration).
				Value(s.duration),
			huh.NewSelect[string]().Title("Position").
				Options(posOptions...).
				Value(s.position),
			huh.NewSelect[int]().Title("Display").
				Options(dispOptions...).
				Value(s.display),
			huh.NewConfirm().Title("Remember settings").
				Affirmative("Yes").
				Negative("No").
				Value(s.remember),
		).Title("New timer"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s setupModel) updateForm(msg tea.Msg) (setupModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.formActive = false
		return s.submit()
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	}

	return s, cmd
}

// submit validates the form values. On failure the first message is shown
// and no countdown starts.
func (s setupModel) submit() (setupModel, tea.Cmd) {
	var d *display.Display
	if *s.display >= 0 && *s.display < len(s.displays) {
		d = &s.displays[*s.display]
	}
	res := s.validator.Setup(*s.duration, d, *s.position)
	if !res.Valid {
		s.errMsg = res.First()
		return s, func() tea.Msg { return statusMsg{text: res.First(), isError: true} }
	}
	s.errMsg = ""

	done := setupDoneMsg{
		total:        s.validator.Parser.TotalSeconds(*s.duration),
		pos:          position.Parse(*s.position),
		display:      *d,
		displayIndex: *s.display,
	}
	r := store.Remembered{
		Duration: *s.duration,
		Position: *s.position,
		Display:  *s.display,
		Remember: *s.remember,
	}
	return s, tea.Sequence(s.save(r), func() tea.Msg { return done })
}

func (s setupModel) save(r store.Remembered) tea.Cmd {
	return func() tea.Msg {
		if err := s.store.SaveRemembered(r); err != nil {
			return statusMsg{text: fmt.Sprintf("Save settings: %v", err), isError: true}
		}
		return nil
	}
}

func (s setupModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Setup")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	p := position.Parse(*s.position)
	m, sec := s.validator.Parser.Parse(*s.duration)
	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(12).Render("Time"), highlightStyle.Render(timeinput.FormatForDisplay(m, sec))),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(12).Render("Position"), highlightStyle.Render(p.DisplayName(s.lang))),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(12).Render("Remember"), highlightStyle.Render(fmt.Sprintf("%t", *s.remember))),
	}
	if s.errMsg != "" {
		rows = append(rows, "", errorStyle.Render("  "+s.errMsg))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to set up a timer"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
