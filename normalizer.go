package webtab

import "strings"

// Normalizer converts rendered page markup into clean text lines.
type Normalizer interface {
	// Normalize isolates the page body, drops script and style content and
	// returns the remaining visible text as trimmed, non-empty lines in
	// document order. Markup without a body yields no lines and no error.
	Normalize(markup string) ([]string, error)
}

// CleanLines splits text into lines, trims each line and drops the empty
// ones. Applying it to its own joined output returns the same lines.
func CleanLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// JoinLines rejoins normalized lines into the text form consumed by the chunker.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
