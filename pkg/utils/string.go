package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// NormalizeText collapses whitespace and converts str to Unicode NFC, so that
// "Gasthof Bräu" typed with a combining diaeresis compares equal to the
// precomposed form.
func (s *StringHelper) NormalizeText(str string) string {
	return norm.NFC.String(s.NormalizeWhitespace(str))
}

// TruncateString truncates str to at most maxWidth terminal cells.
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	return runewidth.Truncate(str, maxWidth, "...")
}

// PadRight pads str with spaces to width terminal cells.
func (s *StringHelper) PadRight(str string, width int) string {
	return runewidth.FillRight(str, width)
}

// Width returns the number of terminal cells str occupies.
func (s *StringHelper) Width(str string) int {
	return runewidth.StringWidth(str)
}
