package timeinput

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefault(t *testing.T) {
	tests := []struct {
		input       string
		wantMinutes int
		wantSeconds int
	}{
		{"45", 0, 45},
		{"5", 0, 5},
		{"59", 0, 59},
		{"60", 1, 0},
		{"90", 1, 30},
		{"5:30", 5, 30},
		{"05:05", 5, 5},
		{"5:90", 6, 30},
		{"123", 1, 23},
		{"130", 1, 30},
		{"1005", 10, 5},
		{"199", 2, 39},
		{"6000", 60, 0},
		{"12345", 99, 59},
		{"99999999999999999999999", 99, 59},
		{"  45  ", 0, 45},
		{"5m", 0, 5},
		{"45 seconds", 0, 45},
		{"5:30:10", 5, 30},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, s := Parse(tt.input)
			assert.Equal(t, tt.wantMinutes, m, "minutes")
			assert.Equal(t, tt.wantSeconds, s, "seconds")
		})
	}
}

func TestParseUnreadable(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "0", ":", "5:", ":30", "::"} {
		m, s := Parse(input)
		assert.Zero(t, m, "minutes for %q", input)
		assert.Zero(t, s, "seconds for %q", input)
	}
}

func TestParseOr(t *testing.T) {
	p := NewParser(DefaultConfig())

	m, s := p.ParseOr("", 3, 0)
	assert.Equal(t, 3, m)
	assert.Equal(t, 0, s)

	m, s = p.ParseOr("nothing here", 0, 20)
	assert.Equal(t, 0, m)
	assert.Equal(t, 20, s)

	m, s = p.ParseOr("1:15", 3, 0)
	assert.Equal(t, 1, m)
	assert.Equal(t, 15, s)
}

func TestParseLiteral(t *testing.T) {
	p := NewParser(Config{Overflow: OverflowLiteral})

	tests := []struct {
		input       string
		wantMinutes int
		wantSeconds int
	}{
		{"90", 0, 90},
		{"99", 0, 99},
		{"5:90", 5, 90},
		{"5:120", 5, 99},
		{"199", 1, 99},
		{"12345", 99, 99},
	}
	for _, tt := range tests {
		m, s := p.Parse(tt.input)
		assert.Equal(t, tt.wantMinutes, m, "minutes for %q", tt.input)
		assert.Equal(t, tt.wantSeconds, s, "seconds for %q", tt.input)
	}
}

func TestParseIndependentClamp(t *testing.T) {
	p := NewParser(Config{Overflow: OverflowLiteral, Clamp: ClampIndependent})

	m, s := p.Parse("150:30")
	assert.Equal(t, 99, m)
	assert.Equal(t, 30, s)

	joint := NewParser(Config{Overflow: OverflowLiteral, Clamp: ClampJoint})
	m, s = joint.Parse("150:30")
	assert.Equal(t, 99, m)
	assert.Equal(t, 99, s)
}

func TestParseIndependentClampCarryPastCap(t *testing.T) {
	p := NewParser(Config{Overflow: OverflowNormalize, Clamp: ClampIndependent})
	for _, input := range []string{"9959", "9960", "9999", "99:99"} {
		m, s := p.Parse(input)
		assert.Equal(t, 99, m, "minutes for %q", input)
		assert.Equal(t, 59, s, "seconds for %q", input)
	}

	m, s := p.Parse("150:30")
	assert.Equal(t, 99, m)
	assert.Equal(t, 30, s, "seconds typed without carry keep their own cap")

	m, s = p.Parse("98:75")
	assert.Equal(t, 99, m)
	assert.Equal(t, 15, s)
}

func TestParseCustomCaps(t *testing.T) {
	p := NewParser(Config{MaxMinutes: 60, MaxSeconds: 59})
	assert.Equal(t, 60*60+59, p.MaxTotalSeconds())

	m, s := p.Parse("7200")
	assert.Equal(t, 60, m)
	assert.Equal(t, 59, s)

	m, s = p.Parse("99999")
	assert.Equal(t, 60, m)
	assert.Equal(t, 59, s)
}

func TestQuickDigitsAreSecondsInLiteralMode(t *testing.T) {
	p := NewParser(Config{Overflow: OverflowLiteral})
	for v := 0; v <= 99; v++ {
		for _, in := range []string{fmt.Sprint(v), fmt.Sprintf("%02d", v)} {
			m, s := p.Parse(in)
			require.Equal(t, 0, m, "minutes for %q", in)
			require.Equal(t, v, s, "seconds for %q", in)
		}
	}
}

func TestColonFieldsKeptWhenInRange(t *testing.T) {
	for _, p := range []Parser{NewParser(DefaultConfig()), NewParser(Config{Overflow: OverflowLiteral})} {
		for mm := 0; mm <= 99; mm += 7 {
			for ss := 0; ss <= 59; ss += 4 {
				m, s := p.Parse(fmt.Sprintf("%d:%02d", mm, ss))
				require.Equal(t, mm, m)
				require.Equal(t, ss, s)
			}
		}
	}
}

func TestDisplayFormatAlwaysMMSS(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}:\d{2}$`)
	inputs := []string{"", "0", "5", "90", "5:30", "199", "9999", "12345", "abc", "150:150", strings.Repeat("9", 40)}
	for _, p := range []Parser{NewParser(DefaultConfig()), NewParser(Config{Overflow: OverflowLiteral, Clamp: ClampIndependent})} {
		for _, in := range inputs {
			got := p.FormatForDisplay(p.Parse(in))
			assert.Regexp(t, pattern, got, "input %q", in)
		}
	}
}

func TestIsValidTotalTime(t *testing.T) {
	tests := []struct {
		minutes, seconds int
		want             bool
	}{
		{1, 0, true},
		{0, 30, true},
		{59, 59, true},
		{0, 0, false},
		{-1, 0, false},
		{0, -1, false},
		{-1, 120, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidTotalTime(tt.minutes, tt.seconds), "%d:%d", tt.minutes, tt.seconds)
	}
}

func TestFormatForInput(t *testing.T) {
	tests := []struct {
		minutes, seconds int
		want             string
	}{
		{0, 0, "0"},
		{0, 30, "30"},
		{0, 90, "90"},
		{2, 30, "230"},
		{5, 0, "500"},
		{10, 5, "1005"},
		{150, 0, "9959"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatForInput(tt.minutes, tt.seconds), "%d:%d", tt.minutes, tt.seconds)
	}
}

func TestFormatForInputParsesBack(t *testing.T) {
	p := NewParser(DefaultConfig())
	for _, pair := range [][2]int{{0, 45}, {2, 30}, {10, 5}, {99, 59}, {1, 0}} {
		m, s := p.Parse(p.FormatForInput(pair[0], pair[1]))
		assert.Equal(t, pair[0]*60+pair[1], m*60+s, "pair %v", pair)
	}
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "05:00", FormatForDisplay(5, 0))
	assert.Equal(t, "00:30", FormatForDisplay(0, 30))
	assert.Equal(t, "02:30", FormatForDisplay(2, 30))
	assert.Equal(t, "10:05", FormatForDisplay(10, 5))
	assert.Equal(t, "00:00", FormatForDisplay(-3, -3))
}

func TestIsQuickTimeFormat(t *testing.T) {
	tests := map[string]bool{
		"5":    true,
		"30":   true,
		"99":   true,
		"7s":   true,
		"0":    false,
		"100":  false,
		"abc":  false,
		"":     false,
		"   ":  false,
		"0000": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsQuickTimeFormat(in), "input %q", in)
	}
}

func TestParseModes(t *testing.T) {
	o, err := ParseOverflow("Literal")
	require.NoError(t, err)
	assert.Equal(t, OverflowLiteral, o)

	o, err = ParseOverflow("")
	require.NoError(t, err)
	assert.Equal(t, OverflowNormalize, o)

	_, err = ParseOverflow("wrap")
	assert.Error(t, err)

	c, err := ParseClamp(" independent ")
	require.NoError(t, err)
	assert.Equal(t, ClampIndependent, c)

	_, err = ParseClamp("both")
	assert.Error(t, err)

	assert.Equal(t, "literal", OverflowLiteral.String())
	assert.Equal(t, "joint", ClampJoint.String())
}

func TestSuggestions(t *testing.T) {
	p := NewParser(DefaultConfig())

	assert.Len(t, p.Suggestions(""), 2)

	got := p.Suggestions("90")
	require.Len(t, got, 2)
	assert.Equal(t, "Interpreted as 1 minute 30 seconds", got[0])
	assert.Equal(t, "Alternative: '1:30' for the same duration", got[1])

	got = p.Suggestions("130")
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "MMSS")

	got = p.Suggestions("5:00")
	require.Len(t, got, 2)
	assert.Equal(t, "Interpreted as 5 minutes", got[0])
	assert.Equal(t, "Alternative: '500' for the same duration", got[1])

	got = p.Suggestions("abc")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Could not read")
}
