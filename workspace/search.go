package workspace

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/utils"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

const (
	baseScore      = 1000
	maxLinePenalty = 200
)

// Search finds every line containing query as a case-sensitive literal
// substring, in eligible text files under root. Shorter lines score higher;
// ties keep discovery order (sorted path, then line). At most topK matches are
// returned and topK is clamped to at least 1.
func Search(root, query string, topK int, maxBytes int64, matcher *utils.IgnoreMatcher) []models.SearchMatch {
	if topK < 1 {
		topK = 1
	}

	var matches []models.SearchMatch
	for _, rel := range ListFiles(root, matcher) {
		content, _, err := ReadBounded(filepath.Join(root, filepath.FromSlash(rel)), maxBytes)
		if err != nil {
			logger.Debug("search: skipping %s: %v", rel, err)
			continue
		}
		if !utils.LooksLikeText(content) {
			continue
		}
		for i, line := range utils.SplitLines(string(content)) {
			if !strings.Contains(line, query) {
				continue
			}
			matches = append(matches, models.SearchMatch{
				Path:    rel,
				Line:    i + 1,
				Snippet: line,
				Score:   scoreLine(line),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	if matches == nil {
		matches = []models.SearchMatch{}
	}
	return matches
}

func scoreLine(line string) int {
	penalty := len(line)
	if penalty > maxLinePenalty {
		penalty = maxLinePenalty
	}
	return baseScore - penalty
}
