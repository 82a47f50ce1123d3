package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/remmeter/internal/countdown"
	"github.com/sadopc/remmeter/internal/display"
)

const (
	cellFilled = "█"
	cellEmpty  = "░"
)

// barRect is where the bar sits on a w×h terminal.
func (t timerModel) barRect(w, h int) display.Rect {
	l := display.CellLayout()
	b := display.Rect{Width: float64(w), Height: float64(h)}
	if t.expanded {
		return l.Expanded(t.position(), b)
	}
	return l.Slim(t.position(), b)
}

// hover expands the bar while the pointer is over it and reports whether
// the footprint changed.
func (t *timerModel) hover(x, y, w, h int) bool {
	if t.pinned || !t.active() {
		return false
	}
	inside := t.barRect(w, h).Contains(float64(x)+0.5, float64(y)+0.5)
	if inside == t.expanded {
		return false
	}
	t.expanded = inside
	return true
}

func (t *timerModel) togglePinned() {
	t.pinned = !t.pinned
	t.expanded = t.pinned
}

func (t timerModel) dim() bool {
	return t.cd != nil && t.cd.Tier().Blinks() && !t.blinkOn
}

func (t timerModel) view(w, h int) string {
	if t.cd == nil {
		return mutedStyle.Render("No timer yet. Press 1 to set one up.")
	}
	if t.cd.Done() {
		return t.finishedView(w, h)
	}

	x, y, bw, bh := t.barRect(w, h).Cells()
	var block string
	switch {
	case t.expanded:
		block = t.expandedView(bw, bh)
	case t.position().Horizontal():
		block = t.horizontalBar(bw, bh)
	default:
		block = t.verticalBar(bw, bh)
	}
	return placeBlock(h, x, y, block)
}

// verticalBar fills from the bottom up.
func (t timerModel) verticalBar(bw, bh int) string {
	style := tierStyle(t.cd.Tier(), t.dim())
	filled := display.Fill(bh, t.cd.Progress())
	rows := make([]string, bh)
	for i := range rows {
		if i >= bh-filled {
			rows[i] = style.Render(strings.Repeat(cellFilled, bw))
		} else {
			rows[i] = barTrackStyle.Render(strings.Repeat(cellEmpty, bw))
		}
	}
	return strings.Join(rows, "\n")
}

// horizontalBar fills left to right with the remaining time centered on the
// first row when it fits.
func (t timerModel) horizontalBar(bw, bh int) string {
	style := tierStyle(t.cd.Tier(), t.dim())
	filled := display.Fill(bw, t.cd.Progress())
	plain := cells(style, filled, 0, bw)

	label := fitLabel(" "+t.cd.Remaining()+" ", bw-2)
	first := plain
	if label != "" {
		lw := runewidth.StringWidth(label)
		start := (bw - lw) / 2
		first = cells(style, filled, 0, start) +
			barLabelStyle.Render(label) +
			cells(style, filled, start+lw, bw)
	}

	rows := make([]string, bh)
	for i := range rows {
		rows[i] = plain
	}
	if bh > 0 {
		rows[0] = first
	}
	return strings.Join(rows, "\n")
}

// cells renders bar cells [from, to) where the first filled cells are progress.
func cells(style lipgloss.Style, filled, from, to int) string {
	if to <= from {
		return ""
	}
	split := min(max(filled, from), to)
	return style.Render(strings.Repeat(cellFilled, split-from)) +
		barTrackStyle.Render(strings.Repeat(cellEmpty, to-split))
}

func (t timerModel) expandedView(bw, bh int) string {
	tier := t.cd.Tier()
	color := tierColors[tier]
	inner := max(bw-4, 1)

	state := "Running"
	if t.cd.Paused() {
		state = "Paused"
	}
	status := fmt.Sprintf("%s %3.0f%%", state, t.cd.Progress()*100)

	fill := display.Fill(inner, t.cd.Progress())
	progress := cells(tierStyle(tier, t.dim()), fill, 0, inner)

	controls := "spc pause  x stop"
	if t.cd.Paused() {
		controls = "spc resume  x stop"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		clockStyle.Foreground(color).Render(fitLabel(t.cd.Remaining(), inner)),
		mutedStyle.Render(fitLabel(status, inner)),
		progress,
		mutedStyle.Render(fitLabel(controls, inner)),
	)
	return expandedStyle.
		BorderForeground(color).
		Width(max(bw-2, 1)).
		Height(max(bh-2, 1)).
		Render(body)
}

func (t timerModel) finishedView(w, h int) string {
	var msg string
	if t.expired() {
		msg = successStyle.Render(fmt.Sprintf("Time's up! %s elapsed.", countdown.FormatClock(t.cd.Config().TotalSeconds)))
	} else {
		msg = warningStyle.Render(fmt.Sprintf("Stopped with %s left.", t.cd.Remaining()))
	}
	hint := mutedStyle.Render("n: new timer  3: history")
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, msg, "", hint))
}

// fitLabel truncates s to width cells, or returns "" when nothing useful fits.
func fitLabel(s string, width int) string {
	if width < 4 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// placeBlock positions block at column x, row y of an h-row canvas.
func placeBlock(h, x, y int, block string) string {
	lines := strings.Split(block, "\n")
	out := make([]string, h)
	pad := strings.Repeat(" ", max(x, 0))
	for row := range out {
		if i := row - y; i >= 0 && i < len(lines) {
			out[row] = pad + lines[i]
		}
	}
	return strings.Join(out, "\n")
}
