package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader canonicalizes a header cell for keyword matching: trimmed,
// lower-cased, inner whitespace collapsed to single spaces.
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}

// ContainsAny reports whether text contains any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

var dateValueRe = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}$`)

// monthTokenRe matches Indonesian and English month names as whole words,
// so "sepatu" does not read as September.
var monthTokenRe = regexp.MustCompile(`\b(januari|februari|maret|april|mei|juni|juli|agustus|september|oktober|november|desember|january|february|march|june|july|august|october|december|jan|feb|mar|apr|may|jun|jul|agu|aug|sep|okt|oct|nov|des|dec)\b`)

// LooksLikeDate reports whether a cell value reads as a calendar date:
// either a separator-delimited numeric date or a textual month name next to
// a number.
func LooksLikeDate(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	if dateValueRe.MatchString(v) {
		return true
	}
	return monthTokenRe.MatchString(v) && strings.IndexFunc(v, unicode.IsDigit) >= 0
}

// IsPureNumber reports whether the value is numeric after money
// normalization: digits, separators and sign only.
func IsPureNumber(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	digits := 0
	for i, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',':
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return digits > 0
}

// HasLetter reports whether the value contains at least one letter.
func HasLetter(value string) bool {
	return strings.IndexFunc(value, unicode.IsLetter) >= 0
}
