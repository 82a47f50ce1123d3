// Package position names the screen edge a timer bar is docked to.
package position

import (
	"strings"

	"golang.org/x/text/language"
)

// Position is one of the four screen edges.
type Position int

const (
	Right Position = iota
	Left
	Top
	Bottom
)

// Default is used whenever input cannot be mapped.
const Default = Right

var names = [...]string{"Right", "Left", "Top", "Bottom"}

// All returns every edge in declaration order.
func All() []Position {
	return []Position{Right, Left, Top, Bottom}
}

// String returns the canonical English name. Values outside the enum render as the default.
func (p Position) String() string {
	if p < Right || p > Bottom {
		return names[Default]
	}
	return names[p]
}

// Horizontal reports whether the bar runs along the top or bottom edge.
func (p Position) Horizontal() bool {
	return p == Top || p == Bottom
}

// Parse maps user or stored text to a Position. It never fails: anything it
// does not recognize becomes Default.
func Parse(s string) Position {
	p, ok := lookup(s)
	if !ok {
		return Default
	}
	return p
}

// IsValid reports whether s is a recognized spelling of an edge.
func IsValid(s string) bool {
	_, ok := lookup(s)
	return ok
}

func lookup(s string) (Position, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, false
	}
	switch strings.ToLower(s) {
	case "right", "r":
		return Right, true
	case "left", "l":
		return Left, true
	case "top", "t":
		return Top, true
	case "bottom", "b":
		return Bottom, true
	}
	for _, labels := range localized {
		for i, label := range labels {
			if label == s {
				return Position(i), true
			}
		}
	}
	return Default, false
}

// Localized labels in enum order.
var localized = map[language.Tag][4]string{
	language.Japanese:           {"右", "左", "上", "下"},
	language.SimplifiedChinese:  {"右侧", "左侧", "顶部", "底部"},
	language.TraditionalChinese: {"右側", "左側", "頂部", "底部"},
}

// Supported lists the UI languages with position labels, English first.
var Supported = []language.Tag{
	language.English,
	language.Japanese,
	language.SimplifiedChinese,
	language.TraditionalChinese,
}

var matcher = language.NewMatcher(Supported)

// MatchLanguage resolves a language code such as "ja-JP" or "zh-TW" to the
// closest supported tag. Unknown or malformed codes resolve to English.
func MatchLanguage(code string) language.Tag {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.English
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}

// DisplayName returns the label for p in the given language, falling back to English.
func (p Position) DisplayName(tag language.Tag) string {
	if labels, ok := localized[tag]; ok {
		return labels[Parse(p.String())]
	}
	return p.String()
}
