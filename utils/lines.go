package utils

import "strings"

// SplitLines splits text on '\n'. A trailing newline produces a trailing empty
// line so that JoinLines(SplitLines(s)) == s for every s. Empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// SpliceLines replaces lines[start-1:end] with replacement. Bounds must already
// be validated by the caller.
func SpliceLines(lines []string, start, end int, replacement []string) []string {
	out := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	out = append(out, lines[:start-1]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)
	return out
}
