package utils

import (
	"regexp"
	"strings"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reInvisible = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-\x9F\x{200B}\x{FEFF}]`)
)

// NormalizeString collapses runs of whitespace into a single space and trims
// the result. Dashboard pages pad values with &nbsp; and newlines.
func NormalizeString(s string) string {
	s = ReplaceNonBreakingSpaces(s)
	s = RemoveInvisibleChars(s)
	s = RemoveSpace(s)
	return strings.TrimSpace(s)
}

func RemoveInvisibleChars(s string) string {
	return reInvisible.ReplaceAllString(s, "")
}

func ReplaceNonBreakingSpaces(s string) string {
	return strings.ReplaceAll(s, "\u00A0", " ")
}

func RemoveSpace(s string) string {
	return reSpaces.ReplaceAllString(s, " ")
}

// Mask hides the middle of a secret so it can be logged.
func Mask(pwd string) string {
	if len(pwd) <= 10 {
		return strings.Repeat("●", len(pwd))
	}
	return pwd[:5] + strings.Repeat("●", min(len(pwd)-10, 10)) + pwd[len(pwd)-5:]
}
