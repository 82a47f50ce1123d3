// Package timeinput turns free-text duration entries into minutes and seconds.
//
// Accepted shapes:
//
//	"5:30"   minutes:seconds
//	"45"     1–2 digits, seconds
//	"130"    3–4 digits, MMSS
//	"12345"  5+ digits, total seconds
//
// Anything that is not a digit or a colon is dropped before interpretation,
// so "5 min" and "5m" both read as "5".
package timeinput

import (
	"fmt"
	"strconv"
	"strings"
)

// Overflow controls what happens to a seconds field of 60 or more.
type Overflow int

const (
	// OverflowNormalize carries whole minutes out of the seconds field ("90" is 1:30).
	OverflowNormalize Overflow = iota
	// OverflowLiteral keeps the seconds field as typed, up to MaxSeconds ("90" is 0:90).
	OverflowLiteral
)

func (o Overflow) String() string {
	if o == OverflowLiteral {
		return "literal"
	}
	return "normalize"
}

// ParseOverflow maps a config string to an Overflow mode.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normalize":
		return OverflowNormalize, nil
	case "literal":
		return OverflowLiteral, nil
	}
	return OverflowNormalize, fmt.Errorf("unknown overflow mode %q (want normalize or literal)", s)
}

// Clamp controls how out-of-range values are pulled back into the caps.
type Clamp int

const (
	// ClampJoint pins both fields to their caps once minutes overflow.
	ClampJoint Clamp = iota
	// ClampIndependent caps minutes and seconds separately.
	ClampIndependent
)

func (c Clamp) String() string {
	if c == ClampIndependent {
		return "independent"
	}
	return "joint"
}

// ParseClamp maps a config string to a Clamp mode.
func ParseClamp(s string) (Clamp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "joint":
		return ClampJoint, nil
	case "independent":
		return ClampIndependent, nil
	}
	return ClampJoint, fmt.Errorf("unknown clamp mode %q (want joint or independent)", s)
}

const (
	DefaultMaxMinutes = 99
	DefaultMaxSeconds = 99
)

// Config parameterizes a Parser. The zero value is usable and equals DefaultConfig.
type Config struct {
	MaxMinutes int
	MaxSeconds int
	Overflow   Overflow
	Clamp      Clamp
}

// DefaultConfig returns 99/99 caps with normalized overflow and joint clamping.
func DefaultConfig() Config {
	return Config{
		MaxMinutes: DefaultMaxMinutes,
		MaxSeconds: DefaultMaxSeconds,
		Overflow:   OverflowNormalize,
		Clamp:      ClampJoint,
	}
}

// Parser interprets duration input under a fixed Config.
type Parser struct {
	cfg Config
}

func NewParser(cfg Config) Parser {
	if cfg.MaxMinutes <= 0 {
		cfg.MaxMinutes = DefaultMaxMinutes
	}
	if cfg.MaxSeconds <= 0 {
		cfg.MaxSeconds = DefaultMaxSeconds
	}
	return Parser{cfg: cfg}
}

// Config returns the effective configuration.
func (p Parser) Config() Config { return p.cfg }

// MaxTotalSeconds is the largest duration the parser can produce.
func (p Parser) MaxTotalSeconds() int {
	return p.cfg.MaxMinutes*60 + p.cfg.MaxSeconds
}

// Parse interprets input and returns clamped minutes and seconds.
// Input it cannot read yields (0, 0).
func (p Parser) Parse(input string) (minutes, seconds int) {
	m, s, ok := p.parse(input)
	if !ok {
		return 0, 0
	}
	return m, s
}

// ParseOr is Parse with a caller-supplied result for unreadable input.
func (p Parser) ParseOr(input string, defMinutes, defSeconds int) (minutes, seconds int) {
	m, s, ok := p.parse(input)
	if !ok {
		return defMinutes, defSeconds
	}
	return m, s
}

// TotalSeconds parses input and returns the duration in seconds.
func (p Parser) TotalSeconds(input string) int {
	m, s := p.Parse(input)
	return m*60 + s
}

func (p Parser) parse(input string) (int, int, bool) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, input)
	if clean == "" {
		return 0, 0, false
	}

	if strings.Contains(clean, ":") {
		parts := strings.Split(clean, ":")
		m, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, false
		}
		s, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, false
		}
		m, s = p.settle(m, s)
		return m, s, true
	}

	var m, s int
	switch n := len(clean); {
	case n <= 2:
		v, _ := strconv.Atoi(clean)
		s = v
	case n <= 4:
		v, _ := strconv.Atoi(clean)
		m, s = v/100, v%100
	default:
		limit := p.MaxTotalSeconds()
		v, err := strconv.Atoi(clean)
		if err != nil || v > limit {
			// Out of int range still means "more than the cap".
			v = limit
		}
		m, s = v/60, v%60
	}
	m, s = p.settle(m, s)
	return m, s, true
}

// settle carries seconds overflow into minutes and clamps the result.
func (p Parser) settle(m, s int) (int, int) {
	carried := p.cfg.Overflow == OverflowNormalize && s >= 60
	m, s = p.carry(m, s)
	if carried && m > p.cfg.MaxMinutes {
		// A carry past the minute cap pins to the largest time in both modes.
		return p.cfg.MaxMinutes, min(p.cfg.MaxSeconds, 59)
	}
	return p.Clamp(m, s)
}

func (p Parser) carry(m, s int) (int, int) {
	if p.cfg.Overflow == OverflowNormalize && s >= 60 {
		m += s / 60
		s %= 60
	}
	return m, s
}

// Clamp pulls minutes and seconds into [0,MaxMinutes]×[0,MaxSeconds].
func (p Parser) Clamp(minutes, seconds int) (int, int) {
	minutes = max(minutes, 0)
	seconds = max(seconds, 0)

	switch p.cfg.Clamp {
	case ClampIndependent:
		minutes = min(minutes, p.cfg.MaxMinutes)
		seconds = min(seconds, p.cfg.MaxSeconds)
	default:
		if minutes > p.cfg.MaxMinutes {
			minutes = p.cfg.MaxMinutes
			seconds = p.cfg.MaxSeconds
			if p.cfg.Overflow == OverflowNormalize {
				seconds = min(seconds, 59)
			}
		} else if seconds > p.cfg.MaxSeconds {
			seconds = p.cfg.MaxSeconds
		}
	}
	return minutes, seconds
}

// FormatForInput renders a duration the way a user would type it back:
// plain seconds below 100 with no minutes, otherwise the compact MMSS digits.
func (p Parser) FormatForInput(minutes, seconds int) string {
	m, s := p.Clamp(minutes, seconds)
	if m == 0 && s < 100 {
		return strconv.Itoa(s)
	}
	return fmt.Sprintf("%d%02d", m, s)
}

// FormatForDisplay renders a zero-padded "MM:SS".
func (p Parser) FormatForDisplay(minutes, seconds int) string {
	m, s := p.Clamp(minutes, seconds)
	return fmt.Sprintf("%02d:%02d", m, s)
}

var defaultParser = NewParser(DefaultConfig())

// Parse interprets input with DefaultConfig.
func Parse(input string) (minutes, seconds int) { return defaultParser.Parse(input) }

// FormatForInput formats with DefaultConfig.
func FormatForInput(minutes, seconds int) string { return defaultParser.FormatForInput(minutes, seconds) }

// FormatForDisplay formats with DefaultConfig.
func FormatForDisplay(minutes, seconds int) string {
	return defaultParser.FormatForDisplay(minutes, seconds)
}

// IsValidTotalTime reports whether the pair is non-negative and adds up to more than zero.
func IsValidTotalTime(minutes, seconds int) bool {
	return minutes >= 0 && seconds >= 0 && minutes*60+seconds > 0
}

// IsQuickTimeFormat reports whether the digits in input form a value in [1,99].
func IsQuickTimeFormat(input string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
	if digits == "" {
		return false
	}
	v, err := strconv.Atoi(digits)
	return err == nil && v >= 1 && v <= 99
}
