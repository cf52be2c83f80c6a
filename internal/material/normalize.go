package material

import (
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName normalizes a material name for unique addressing:
// trim, lowercase, collapse internal whitespace to single spaces.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}
