package utils

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// DetectLanguageFromPath returns the chroma lexer name for a file path, or ""
// when no lexer claims it.
func DetectLanguageFromPath(relativePath string) string {
	lexer := lexers.Match(relativePath)
	if lexer == nil {
		return ""
	}
	return strings.ToLower(lexer.Config().Name)
}

// RenderHighlighted writes content to w with terminal syntax highlighting. The
// language is detected from relativePath; unknown files fall back to chroma's
// content analysis.
func RenderHighlighted(w io.Writer, relativePath string, content string, theme string) error {
	if theme == "" {
		theme = "dracula"
	}
	return quick.Highlight(w, content, DetectLanguageFromPath(relativePath), "terminal256", theme)
}
