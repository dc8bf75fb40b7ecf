package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeText(t *testing.T) {
	assert.True(t, LooksLikeText(nil))
	assert.True(t, LooksLikeText([]byte("package main\n\nfunc main() {}\n")))
	assert.True(t, LooksLikeText([]byte("tabs\tand\r\nnewlines\n")))
	assert.False(t, LooksLikeText([]byte("abc\x00def")))
}

func TestLooksLikeText_ControlByteThreshold(t *testing.T) {
	four := append(bytes.Repeat([]byte("a"), 96), 0x01, 0x02, 0x03, 0x04)
	assert.True(t, LooksLikeText(four))

	five := append(bytes.Repeat([]byte("a"), 95), 0x01, 0x02, 0x03, 0x04, 0x1B)
	assert.False(t, LooksLikeText(five))
}

func TestLooksLikeText_OnlySamplesPrefix(t *testing.T) {
	data := append(bytes.Repeat([]byte("x"), textSampleSize), 0x00)
	assert.True(t, LooksLikeText(data))
}
