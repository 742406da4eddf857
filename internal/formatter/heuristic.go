package formatter

import (
	"regexp"
	"strings"
)

// an existing line break right after the token is absorbed so it is not doubled
var breakAfterRe = regexp.MustCompile(`([;{}])[ \t]*\r?\n?`)

// Heuristic inserts a line break after every ';', '{' and '}'. It has no
// notion of strings or for-loop headers and is only used when nothing better
// is available.
func Heuristic(code string) string {
	return strings.TrimSpace(breakAfterRe.ReplaceAllString(code, "$1\n"))
}
