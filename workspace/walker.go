package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/utils"
)

type walkState struct {
	root    string
	matcher *utils.IgnoreMatcher
	files   []string
}

// ListFiles returns every regular file under root that is not excluded by the
// ignore policy, as sorted slash-separated relative paths. Entries that cannot
// be read are skipped and the walk continues. A root that is a symlink to a
// directory is followed.
func ListFiles(root string, matcher *utils.IgnoreMatcher) []string {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	ws := &walkState{root: root, matcher: matcher}
	_ = filepath.WalkDir(root, ws.visit)
	sort.Strings(ws.files)
	return ws.files
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		logger.Debug("walk: skipping %s: %v", path, err)
		if d != nil && d.IsDir() && path != ws.root {
			return filepath.SkipDir
		}
		return nil
	}
	if path == ws.root {
		return nil
	}
	rel, ok := ws.relative(path)
	if !ok {
		return nil
	}
	if ws.matcher.Match(rel, d.IsDir()) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		return nil
	}
	if !isRegular(path, d) {
		return nil
	}
	ws.files = append(ws.files, rel)
	return nil
}

func (ws *walkState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// isRegular accepts regular files and symlinks that resolve to regular files.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
