// Package validate checks timer setup input before a countdown may start.
package validate

import (
	"fmt"
	"strings"

	"github.com/sadopc/remmeter/internal/display"
	"github.com/sadopc/remmeter/internal/position"
	"github.com/sadopc/remmeter/internal/timeinput"
)

// Messages shown to the user.
const (
	MsgInvalidTime     = "Please set the time correctly."
	MsgNoDisplay       = "No display selected."
	MsgDisplayTooSmall = "Selected display resolution is too small for optimal timer visibility."
	MsgNoPosition      = "No position selected."
)

// Result collects every failed check, in the order the checks ran.
type Result struct {
	Valid  bool
	Errors []string
}

func ok() Result { return Result{Valid: true} }

func (r *Result) fail(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

func (r *Result) merge(o Result) {
	for _, e := range o.Errors {
		r.fail(e)
	}
}

// First is the message shown to the user, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

// Size is a minimum display resolution.
type Size struct {
	Width  float64
	Height float64
}

// MinPixels is the smallest desktop resolution the bar is placed on.
var MinPixels = Size{Width: 800, Height: 600}

// MinCells is the smallest terminal the bar is drawn in.
var MinCells = Size{Width: 40, Height: 12}

// Validator holds the parsing rules and limits used by every check.
type Validator struct {
	Parser     timeinput.Parser
	MinDisplay Size
	// MaxTotalSeconds rejects longer durations when > 0.
	MaxTotalSeconds int
}

func New(p timeinput.Parser, min Size, maxTotal int) Validator {
	return Validator{Parser: p, MinDisplay: min, MaxTotalSeconds: maxTotal}
}

// Input checks that raw parses to a positive duration within the ceiling.
func (v Validator) Input(raw string) Result {
	r := ok()
	m, s := v.Parser.Parse(raw)
	if !timeinput.IsValidTotalTime(m, s) {
		r.fail(MsgInvalidTime)
		return r
	}
	if v.MaxTotalSeconds > 0 && m*60+s > v.MaxTotalSeconds {
		r.fail(fmt.Sprintf("Timer duration should not exceed %s.",
			timeinput.FormatForDisplay(v.MaxTotalSeconds/60, v.MaxTotalSeconds%60)))
	}
	return r
}

// Display checks that a display was chosen and is large enough.
func (v Validator) Display(d *display.Display) Result {
	r := ok()
	if d == nil {
		r.fail(MsgNoDisplay)
		return r
	}
	if d.Width < v.MinDisplay.Width || d.Height < v.MinDisplay.Height {
		r.fail(MsgDisplayTooSmall)
	}
	return r
}

// Position checks a position name as typed or selected by the user.
func Position(name string) Result {
	r := ok()
	switch {
	case strings.TrimSpace(name) == "":
		r.fail(MsgNoPosition)
	case !position.IsValid(name):
		r.fail(InvalidPosition(name))
	}
	return r
}

// InvalidPosition formats the rejection message for an unknown position.
func InvalidPosition(name string) string {
	valid := make([]string, 0, 4)
	for _, p := range position.All() {
		valid = append(valid, p.String())
	}
	return fmt.Sprintf("Invalid position: %s. Valid positions are: %s", name, strings.Join(valid, ", "))
}

// Setup runs every check: input, display, then position.
func (v Validator) Setup(raw string, d *display.Display, pos string) Result {
	r := ok()
	r.merge(v.Input(raw))
	r.merge(v.Display(d))
	r.merge(Position(pos))
	return r
}
