// Package display describes the screens a timer bar can be placed on and
// computes where the bar goes.
package display

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Display is one monitor (or the terminal) in physical units.
type Display struct {
	Left    float64
	Top     float64
	Width   float64
	Height  float64
	ScaleX  float64
	ScaleY  float64
	Primary bool
}

// Rect is an axis-aligned rectangle in logical units.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Logical converts physical bounds to DPI-independent units.
func (d Display) Logical() Rect {
	sx, sy := d.ScaleX, d.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return Rect{
		Left:   d.Left / sx,
		Top:    d.Top / sy,
		Width:  d.Width / sx,
		Height: d.Height / sy,
	}
}

// Label is the human name shown in display pickers, e.g. "Display 1 - 1920x1080 (Primary)".
func (d Display) Label(index int) string {
	s := fmt.Sprintf("Display %d - %.0fx%.0f", index+1, d.Width, d.Height)
	if d.Primary {
		s += " (Primary)"
	}
	return s
}

// Default is the display assumed when enumeration fails.
func Default() Display {
	return Display{Width: 1920, Height: 1080, ScaleX: 1, ScaleY: 1, Primary: true}
}

// Enumerator lists the displays available for placement.
type Enumerator interface {
	Displays() ([]Display, error)
}

// Static is a fixed list of displays, typically from the config file.
type Static []Display

func (s Static) Displays() ([]Display, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("no displays configured")
	}
	return append([]Display(nil), s...), nil
}

// Terminal reports the controlling terminal as a single primary display
// measured in character cells.
type Terminal struct {
	File *os.File
}

func (t Terminal) Displays() ([]Display, error) {
	f := t.File
	if f == nil {
		f = os.Stdout
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	return []Display{{Width: float64(w), Height: float64(h), ScaleX: 1, ScaleY: 1, Primary: true}}, nil
}

// List enumerates with e and falls back to fallback when enumeration fails
// or reports nothing. The returned error is the enumeration failure, if any,
// so callers can log it.
func List(e Enumerator, fallback Display) ([]Display, error) {
	ds, err := e.Displays()
	if err != nil {
		return []Display{fallback}, err
	}
	if len(ds) == 0 {
		return []Display{fallback}, nil
	}
	return ds, nil
}

// PrimaryIndex returns the index of the first primary display, or 0.
func PrimaryIndex(ds []Display) int {
	for i, d := range ds {
		if d.Primary {
			return i
		}
	}
	return 0
}
