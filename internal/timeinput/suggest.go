package timeinput

import (
	"fmt"
	"strings"
)

// Suggestions explains how input will be read and offers an equivalent spelling.
func (p Parser) Suggestions(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{
			"Try entering a number like '45' for 45 seconds, or '130' for 1 minute 30 seconds",
			"You can also use colon format like '5:30' for 5 minutes 30 seconds",
		}
	}

	m, s := p.Parse(input)
	if !IsValidTotalTime(m, s) {
		return []string{fmt.Sprintf("Could not read a duration from %q", input)}
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)

	var out []string
	switch {
	case strings.Contains(input, ":"):
		out = append(out, "Interpreted as "+describe(m, s))
	case len(digits) >= 5:
		out = append(out, "Interpreted as "+describe(m, s)+" (total seconds)")
	case len(digits) >= 3:
		out = append(out, "Interpreted as "+describe(m, s)+" (MMSS format)")
	default:
		out = append(out, "Interpreted as "+describe(m, s))
	}

	if strings.Contains(input, ":") {
		out = append(out, fmt.Sprintf("Alternative: '%s' for the same duration", p.FormatForInput(m, s)))
	} else {
		out = append(out, fmt.Sprintf("Alternative: '%d:%02d' for the same duration", m, s))
	}
	return out
}

func describe(m, s int) string {
	switch {
	case m == 0:
		return plural(s, "second")
	case s == 0:
		return plural(m, "minute")
	}
	return plural(m, "minute") + " " + plural(s, "second")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
