package edit_engine

import (
	"errors"
	"testing"

	"github.com/meysamhadeli/wsengine/workspace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEdits_Envelope(t *testing.T) {
	batch, err := DecodeEdits([]byte(`{"edits":[
		{"path":"a.txt","start_line":1,"end_line":2,"replacement":"x\ny"},
		{"path":"dir/b.txt","start_line":3,"end_line":3,"replacement":""}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, models.EditBatch{
		{Path: "a.txt", StartLine: 1, EndLine: 2, Replacement: "x\ny"},
		{Path: "dir/b.txt", StartLine: 3, EndLine: 3, Replacement: ""},
	}, batch)
}

func TestDecodeEdits_BareArray(t *testing.T) {
	batch, err := DecodeEdits([]byte(` [{"path":"a.txt","start_line":1,"end_line":1,"replacement":"z"}]`))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "z", batch[0].Replacement)
}

func TestDecodeEdits_EscapedBackslashIsNotNewline(t *testing.T) {
	escapedNewline, err := DecodeEdits([]byte(`{"edits":[{"path":"a","start_line":1,"end_line":1,"replacement":"a\nb"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "a\nb", escapedNewline[0].Replacement)

	literalBackslash, err := DecodeEdits([]byte(`{"edits":[{"path":"a","start_line":1,"end_line":1,"replacement":"a\\nb"}]}`))
	require.NoError(t, err)
	assert.Equal(t, `a\nb`, literalBackslash[0].Replacement)
}

func TestDecodeEdits_SkipsIncompleteRecords(t *testing.T) {
	batch, err := DecodeEdits([]byte(`{"edits":[
		{"path":"a.txt","start_line":1,"replacement":"missing end"},
		{"path":"a.txt","start_line":"1","end_line":1,"replacement":"string line"},
		{"path":"a.txt","start_line":1,"end_line":1,"replacement":5},
		"not an object",
		{"path":"a.txt","start_line":2,"end_line":2,"replacement":"kept"}
	]}`))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "kept", batch[0].Replacement)
}

func TestDecodeEdits_Malformed(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":       "",
		"not json":    "edits please",
		"no edits":    `{"changes":[]}`,
		"empty array": `{"edits":[]}`,
		"all invalid": `{"edits":[{"path":"a.txt"}]}`,
	} {
		_, err := DecodeEdits([]byte(raw))
		assert.True(t, errors.Is(err, models.ErrMalformedBatch), name)
	}
}

func TestDecodeEdits_InvalidEscapeNamesPath(t *testing.T) {
	_, err := DecodeEdits([]byte(`{"edits":[{"path":"src/x.go","start_line":1,"end_line":1,"replacement":"bad \q"}]}`))
	var we *models.WorkspaceError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, models.KindInvalidEscape, we.Kind)
	assert.Equal(t, "src/x.go", we.Path)
}

func TestUnescapeReplacement(t *testing.T) {
	cases := map[string]string{
		`plain`:          "plain",
		`tab\there`:      "tab\there",
		`cr\r\nlf`:       "cr\r\nlf",
		`quote \"x\"`:    `quote "x"`,
		`back\\slash`:    `back\slash`,
		`\\n`:            `\n`,
		`\u0041z`:        "Az",
		`caf\u00e9`:      "caf?",
		`\u4e2d`:         "?",
		`mixed \\\n end`: "mixed \\\n end",
	}
	for in, want := range cases {
		got, err := UnescapeReplacement(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestUnescapeReplacement_Errors(t *testing.T) {
	for _, in := range []string{`trailing\`, `\x41`, `\/`, `\b`, `\u12`, `\u12G4`, `\uZZZZ`} {
		_, err := UnescapeReplacement(in)
		assert.Error(t, err, in)
	}
}
