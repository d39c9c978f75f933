package validate

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceRe = regexp.MustCompile(`\s+`)

// Clean trims, drops NUL bytes, collapses whitespace runs and normalizes
// to NFC so visually identical names compare and search equal.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = norm.NFC.String(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
