package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remmeter/internal/store"
)

const historyDays = 7

type historyModel struct {
	store  *store.Store
	width  int
	height int

	totals   []store.DailyTotal
	sessions []store.Session
	offset   int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *historyModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type historyDataMsg struct {
	totals   []store.DailyTotal
	sessions []store.Session
}

func (r historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		totals, _ := r.store.GetDailyTotals(from, to)
		sessions, _ := r.store.ListSessions(store.SessionFilter{From: &from, To: &to, Limit: 8})
		return historyDataMsg{totals: totals, sessions: sessions}
	}
}

func (r historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-historyDays*r.offset)
	return end.AddDate(0, 0, -historyDays), end
}

func (r historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		r.totals = msg.totals
		r.sessions = msg.sessions
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *historyModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.DailyTotal, len(r.totals))
	for _, t := range r.totals {
		byDate[t.Date] = t
	}

	from, to := r.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		t := byDate[d.Format("2006-01-02")]
		style := lipgloss.NewStyle().Foreground(colorSuccess)
		if t.ElapsedSeconds == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  "minutes",
				Value: float64(t.ElapsedSeconds) / 60,
				Style: style,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r historyModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("History"), "  ", dateLabel)

	nav := mutedStyle.Render("  ←/→: navigate  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderTotals(), "", r.renderSessions(w), "", nav,
		),
	)
}

func (r historyModel) renderTotals() string {
	var elapsed int64
	var completed, stopped int
	for _, t := range r.totals {
		elapsed += t.ElapsedSeconds
		completed += t.Completed
		stopped += t.Stopped
	}
	return fmt.Sprintf("  %s counted down  %s  %s",
		highlightStyle.Render(formatMinutes(elapsed)),
		successStyle.Render(fmt.Sprintf("%d completed", completed)),
		warningStyle.Render(fmt.Sprintf("%d stopped", stopped)),
	)
}

func (r historyModel) renderSessions(w int) string {
	if len(r.sessions) == 0 {
		return mutedStyle.Render("  No timers in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-17s %-10s %-8s %10s %10s", "Started", "Status", "Edge", "Duration", "Elapsed")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 59))))

	for _, s := range r.sessions {
		status := string(s.Status)
		switch s.Status {
		case store.StatusCompleted:
			status = successStyle.Render(fmt.Sprintf("%-10s", status))
		case store.StatusStopped:
			status = warningStyle.Render(fmt.Sprintf("%-10s", status))
		default:
			status = highlightStyle.Render(fmt.Sprintf("%-10s", status))
		}
		rows = append(rows, fmt.Sprintf("  %-17s %s %-8s %10s %10s",
			s.StartedAt.Local().Format("Jan 02 15:04"), status, s.Position,
			formatSeconds(int64(s.TotalSeconds)), formatSeconds(int64(s.Elapsed())),
		))
	}
	return strings.Join(rows, "\n")
}
