package workspace

import (
	"io"
	"os"

	"github.com/meysamhadeli/wsengine/workspace/models"
)

// ReadBounded reads at most maxBytes from path. truncated is true whenever the
// cap was reached, which includes a file of exactly maxBytes.
func ReadBounded(path string, maxBytes int64) ([]byte, bool, error) {
	if maxBytes < 0 {
		maxBytes = 0
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false, models.NewError(models.KindReadFailed, path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, false, models.NewError(models.KindReadFailed, path, err)
	}
	return content, int64(len(content)) >= maxBytes, nil
}
