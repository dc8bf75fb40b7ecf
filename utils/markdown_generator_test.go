package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguageFromPath(t *testing.T) {
	assert.Equal(t, "go", DetectLanguageFromPath("cmd/main.go"))
	assert.Equal(t, "python", DetectLanguageFromPath("tools/gen.py"))
	assert.Equal(t, "", DetectLanguageFromPath("data/blob.unknownext"))
}

func TestRenderHighlighted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHighlighted(&buf, "main.go", "package main\n", ""))
	assert.Contains(t, buf.String(), "package")
	assert.Contains(t, buf.String(), "\x1b[")
}
