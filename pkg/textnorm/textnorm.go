// Package textnorm canonicalizes user text and table cells before matching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

const byteOrderMark = "\uFEFF"

// productCodeRe leading market code such as "A1 ", "72 " or "T12-"; must contain a digit
var productCodeRe = regexp.MustCompile(`^[\s\x{3000}]*[A-Za-z]{0,3}[0-9]+[A-Za-z0-9]*[\s\x{3000}\-_.]*`)

// Normalize strips byte-order marks and surrounding whitespace (half and full width).
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, byteOrderMark, "")
	return strings.TrimFunc(s, unicode.IsSpace)
}

// CleanHeader normalizes a column header read from a table file.
func CleanHeader(s string) string {
	return Normalize(s)
}

// MatchKey removes every whitespace rune and byte-order mark, giving the key used for containment checks.
func MatchKey(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\uFEFF' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripProductCode drops a leading numeric product code: "A1 香蕉" -> "香蕉".
// Labels that are nothing but a code are returned normalized.
func StripProductCode(s string) string {
	s = Normalize(s)
	stripped := Normalize(productCodeRe.ReplaceAllString(s, ""))
	if stripped == "" {
		return s
	}
	return stripped
}

// FoldDigits narrows full-width characters so "７月" reads as "7月".
func FoldDigits(s string) string {
	return width.Narrow.String(s)
}

// FoldCounty unifies the two spellings of 臺/台 used in county names.
func FoldCounty(s string) string {
	return strings.ReplaceAll(MatchKey(s), "台", "臺")
}
