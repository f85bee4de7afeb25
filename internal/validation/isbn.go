package validation

import (
	"regexp"
	"strings"
)

// isbnPrefix strips an optional "ISBN", "ISBN-10", or "ISBN-13" label.
var isbnPrefix = regexp.MustCompile(`^ISBN(?:-1[03])?:? `)

// isbnSeparators drops hyphens and spaces anywhere in the value.
var isbnSeparators = strings.NewReplacer("-", "", " ", "")

// IsISBN reports whether s is an ISBN-10 or ISBN-13 with a valid check
// digit.  Hyphens and spaces are ignored wherever they appear.  ISBN-13
// values must carry the 978 or 979 prefix.
func IsISBN(s string) bool { return IsISBN10(s) || IsISBN13(s) }

// IsISBN10 validates the ten-character form.
func IsISBN10(s string) bool {
	digits := isbnDigits(s)
	if len(digits) != 10 {
		return false
	}
	sum := 0
	for i := 0; i < 10; i++ {
		c := digits[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

// IsISBN13 validates the thirteen-digit form.
func IsISBN13(s string) bool {
	digits := isbnDigits(s)
	if len(digits) != 13 {
		return false
	}
	if !strings.HasPrefix(digits, "978") && !strings.HasPrefix(digits, "979") {
		return false
	}
	sum := 0
	for i := 0; i < 13; i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += int(c-'0') * w
	}
	return sum%10 == 0
}

// isbnDigits removes the label and every separator.
func isbnDigits(s string) string {
	s = isbnPrefix.ReplaceAllString(strings.TrimSpace(s), "")
	return isbnSeparators.Replace(s)
}
