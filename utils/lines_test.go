package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{"a"}, SplitLines("a"))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"", ""}, SplitLines("\n"))
}

func TestSplitJoinRoundTrip(t *testing.T) {
	for _, text := range []string{"", "a", "a\n", "\n\n", "a\r\nb", "x\n\ny\n"} {
		assert.Equal(t, text, JoinLines(SplitLines(text)), "%q", text)
	}
}

func TestSpliceLines(t *testing.T) {
	lines := []string{"1", "2", "3", "4", "5"}
	assert.Equal(t, []string{"1", "a", "b", "c", "4", "5"}, SpliceLines(lines, 2, 3, []string{"a", "b", "c"}))
	assert.Equal(t, []string{"2", "3", "4", "5"}, SpliceLines(lines, 1, 1, nil))
	assert.Equal(t, []string{"1", "2", "3", "4", "z"}, SpliceLines(lines, 5, 5, []string{"z"}))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, lines)
}
