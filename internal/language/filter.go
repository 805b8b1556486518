// Package language decides whether copied text should be spoken.
package language

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/clipspeak/internal/domain"
)

// japaneseScript matches Hiragana, Katakana, CJK Unified Ideographs
// (plus Extension A), CJK Compatibility Ideographs and half-width Katakana.
var japaneseScript = regexp.MustCompile(`[\x{3040}-\x{30ff}\x{3400}-\x{4dbf}\x{4e00}-\x{9fff}\x{f900}-\x{faff}\x{ff66}-\x{ff9f}]`)

// ContainsJapanese reports whether text has at least one Japanese code point.
func ContainsJapanese(text string) bool {
	return japaneseScript.MatchString(text)
}

// Filter gates clipboard text according to the configured mode.
type Filter struct {
	mode domain.Mode
}

// NewFilter creates a filter for the given mode.
func NewFilter(mode domain.Mode) *Filter {
	return &Filter{mode: mode}
}

// Mode returns the filter's mode.
func (f *Filter) Mode() domain.Mode { return f.mode }

// ShouldSpeak returns true when text should be sent to synthesis.
// Blank text is never spoken.
func (f *Filter) ShouldSpeak(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if f.mode == domain.ModeEnglish {
		return true
	}
	return ContainsJapanese(text)
}
