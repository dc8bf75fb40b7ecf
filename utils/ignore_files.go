package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFileName is the optional project file holding extra ignore globs, one per line.
const IgnoreFileName = ".wsengine-ignore"

// SnapshotDirName is the directory under the workspace root that holds edit snapshots.
const SnapshotDirName = ".agent_snapshots"

const bundleDirSuffix = ".dSYM"

var defaultIgnoredNames = map[string]struct{}{
	".git":          {},
	"build":         {},
	"node_modules":  {},
	"dist":          {},
	"__pycache__":   {},
	".venv":         {},
	".idea":         {},
	".vscode":       {},
	SnapshotDirName: {},
}

// ShouldIgnore reports whether any segment of the slash-separated relative path
// is a reserved name or a bundle directory.
func ShouldIgnore(relativePath string) bool {
	if relativePath == "" || relativePath == "." {
		return false
	}
	for _, part := range strings.Split(relativePath, "/") {
		if _, ok := defaultIgnoredNames[part]; ok {
			return true
		}
		if strings.HasSuffix(part, bundleDirSuffix) {
			return true
		}
	}
	return false
}

// IgnoreMatcher applies user supplied glob patterns on top of ShouldIgnore.
// Patterns without a slash match any single path segment; patterns ending in
// a slash match directories only; everything else is matched against the
// whole relative path with doublestar semantics.
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher keeps the valid patterns and reports the rejected ones.
func NewIgnoreMatcher(patterns []string) (*IgnoreMatcher, []string) {
	m := &IgnoreMatcher{}
	var rejected []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(strings.TrimSuffix(p, "/")) {
			rejected = append(rejected, p)
			continue
		}
		m.patterns = append(m.patterns, p)
	}
	return m, rejected
}

// Patterns returns the accepted patterns.
func (m *IgnoreMatcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}

// Match reports whether relativePath is excluded by the default policy or by
// any user pattern.
func (m *IgnoreMatcher) Match(relativePath string, isDir bool) bool {
	if ShouldIgnore(relativePath) {
		return true
	}
	if m == nil {
		return false
	}
	for _, pattern := range m.patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")
		if dirOnly && !isDir {
			continue
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(relativePath)); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern, relativePath); ok {
			return true
		}
	}
	return false
}

// ignoreFileCacheEntry holds cached ignore patterns with metadata
type ignoreFileCacheEntry struct {
	patterns []string
	modTime  time.Time
}

var (
	ignoreFileCache = make(map[string]*ignoreFileCacheEntry)
	cacheMutex      sync.RWMutex
)

// GetIgnoreFilePatterns reads the patterns from the project ignore file under root.
// A missing file yields an empty list. Results are cached until the file's
// modification time changes.
func GetIgnoreFilePatterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFileName)

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", IgnoreFileName, err)
	}

	cacheMutex.RLock()
	if cached, exists := ignoreFileCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	cacheMutex.Lock()
	ignoreFileCache[ignorePath] = &ignoreFileCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// readIgnoreFile returns the non-empty, non-comment lines of the file.
func readIgnoreFile(ignorePath string) ([]string, error) {
	content, err := os.ReadFile(ignorePath)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// ClearIgnoreFileCache clears all cached ignore patterns
func ClearIgnoreFileCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreFileCache = make(map[string]*ignoreFileCacheEntry)
}
