package display

import (
	"math"

	"github.com/sadopc/remmeter/internal/position"
)

// Layout holds the bar dimensions in logical units.
type Layout struct {
	Thickness      float64 // bar width (vertical) or height (horizontal)
	Ratio          float64 // share of the perpendicular screen dimension
	Margin         float64
	BottomMargin   float64 // clears a bottom taskbar/dock
	ExpandedWidth  float64
	ExpandedHeight float64
}

// PixelLayout matches a desktop window measured in logical pixels.
func PixelLayout() Layout {
	return Layout{
		Thickness:      20,
		Ratio:          0.8,
		Margin:         10,
		BottomMargin:   50,
		ExpandedWidth:  120,
		ExpandedHeight: 140,
	}
}

// CellLayout fits a terminal measured in character cells.
func CellLayout() Layout {
	return Layout{
		Thickness:      2,
		Ratio:          0.8,
		Margin:         0,
		BottomMargin:   0,
		ExpandedWidth:  22,
		ExpandedHeight: 7,
	}
}

// Slim is the resting footprint: Thickness along the edge, Ratio of the
// other dimension, centered.
func (l Layout) Slim(p position.Position, b Rect) Rect {
	var r Rect
	switch p {
	case position.Left:
		r.Width = l.Thickness
		r.Height = b.Height * l.Ratio
		r.Left = b.Left + l.Margin
		r.Top = b.Top + (b.Height-r.Height)/2
	case position.Top:
		r.Width = b.Width * l.Ratio
		r.Height = l.Thickness
		r.Left = b.Left + (b.Width-r.Width)/2
		r.Top = b.Top + l.Margin
	case position.Bottom:
		r.Width = b.Width * l.Ratio
		r.Height = l.Thickness
		r.Left = b.Left + (b.Width-r.Width)/2
		r.Top = b.Top + b.Height - r.Height - l.BottomMargin
	default:
		r.Width = l.Thickness
		r.Height = b.Height * l.Ratio
		r.Left = b.Left + b.Width - r.Width - l.Margin
		r.Top = b.Top + (b.Height-r.Height)/2
	}
	return r
}

// Expanded is the hover footprint that makes room for the controls. It stays
// on the same edge and never shrinks the slim bar's long side.
func (l Layout) Expanded(p position.Position, b Rect) Rect {
	r := l.Slim(p, b)
	switch p {
	case position.Left:
		r.Width = l.ExpandedWidth
		r.Height = math.Max(r.Height, l.ExpandedHeight)
		r.Left = b.Left + l.Margin
	case position.Top:
		r.Width = math.Max(r.Width, l.ExpandedWidth)
		r.Height = l.ExpandedHeight
		r.Top = b.Top + l.Margin
	case position.Bottom:
		r.Width = math.Max(r.Width, l.ExpandedWidth)
		r.Height = l.ExpandedHeight
		r.Top = b.Top + b.Height - l.ExpandedHeight - l.BottomMargin
	default:
		r.Width = l.ExpandedWidth
		r.Height = math.Max(r.Height, l.ExpandedHeight)
		r.Left = b.Left + b.Width - l.ExpandedWidth - l.Margin
	}
	return r
}

// Cells rounds r to whole character cells.
func (r Rect) Cells() (x, y, w, h int) {
	return int(math.Round(r.Left)), int(math.Round(r.Top)), int(math.Round(r.Width)), int(math.Round(r.Height))
}

// Fill returns the part of a bar of the given length that shows progress.
func Fill(length int, progress float64) int {
	if progress <= 0 || length <= 0 {
		return 0
	}
	if progress >= 1 {
		return length
	}
	return int(math.Round(float64(length) * progress))
}
