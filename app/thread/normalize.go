package thread

import (
	"regexp"
	"strings"
)

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	whitespace = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
)

// Normalize collapses line breaks and whitespace into a compact, trimmed form
// and drops blank lines.
func Normalize(text string) string {
	lines := strings.Split(lineBreaks.ReplaceAllString(text, "\n"), "\n")

	kept := lines[:0]
	for _, line := range lines {
		// Runs are single spaces here. U+0085 is outside the class and stays.
		line = strings.Trim(whitespace.ReplaceAllString(line, " "), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}
