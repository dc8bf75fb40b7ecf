package edit_engine

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/meysamhadeli/wsengine/logger"
	"github.com/meysamhadeli/wsengine/workspace/models"
)

// DecodeEdits parses an edit batch of the form
//
//	{"edits":[{"path":"...","start_line":1,"end_line":2,"replacement":"..."}]}
//
// A bare top-level array of edit objects is accepted too. Objects missing a
// field, or holding a field of the wrong type, are skipped. Replacement strings
// are taken raw from the document and decoded by UnescapeReplacement, so their
// escape semantics do not depend on the JSON library.
func DecodeEdits(raw []byte) (models.EditBatch, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return nil, models.Errorf(models.KindMalformedBatch, "", "empty edit batch")
	}

	var keys []string
	if data[0] != '[' {
		keys = []string{"edits"}
	}

	var (
		batch     models.EditBatch
		decodeErr error
		index     int
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, elemErr error) {
		defer func() { index++ }()
		if decodeErr != nil {
			return
		}
		if elemErr != nil || dataType != jsonparser.Object {
			logger.Debug("decode: edit %d is not an object, skipping", index)
			return
		}
		record, ok, err := decodeRecord(value)
		if err != nil {
			decodeErr = err
			return
		}
		if !ok {
			logger.Debug("decode: edit %d is incomplete, skipping", index)
			return
		}
		batch = append(batch, record)
	}, keys...)
	if decodeErr != nil {
		return nil, decodeErr
	}
	if err != nil {
		return nil, models.NewError(models.KindMalformedBatch, "", err)
	}
	if len(batch) == 0 {
		return nil, models.Errorf(models.KindMalformedBatch, "", "no valid edits found")
	}
	return batch, nil
}

func decodeRecord(value []byte) (models.EditRecord, bool, error) {
	path, err := jsonparser.GetString(value, "path")
	if err != nil {
		return models.EditRecord{}, false, nil
	}
	start, err := jsonparser.GetInt(value, "start_line")
	if err != nil {
		return models.EditRecord{}, false, nil
	}
	end, err := jsonparser.GetInt(value, "end_line")
	if err != nil {
		return models.EditRecord{}, false, nil
	}
	rawReplacement, dataType, _, err := jsonparser.Get(value, "replacement")
	if err != nil || dataType != jsonparser.String {
		return models.EditRecord{}, false, nil
	}

	replacement, err := UnescapeReplacement(string(rawReplacement))
	if err != nil {
		return models.EditRecord{}, false, models.NewError(models.KindInvalidEscape, path, err)
	}
	return models.EditRecord{
		Path:        path,
		StartLine:   int(start),
		EndLine:     int(end),
		Replacement: replacement,
	}, true, nil
}

var (
	errTrailingBackslash = errors.New("trailing backslash")
	errBadUnicodeEscape  = errors.New("invalid \\u escape")
)

// UnescapeReplacement decodes the body of a JSON string literal (without the
// surrounding quotes) in a single left-to-right pass. Supported escapes are
// \n \t \r \" \\ and \uXXXX; code points above 0x7F become '?'. Any other escape
// is an error.
func UnescapeReplacement(in string) (string, error) {
	var out bytes.Buffer
	out.Grow(len(in))
	for i := 0; i < len(in); i++ {
		c := in[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		if i+1 >= len(in) {
			return "", errTrailingBackslash
		}
		i++
		switch in[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '"':
			out.WriteByte('"')
		case '\\':
			out.WriteByte('\\')
		case 'u':
			if i+4 >= len(in) {
				return "", errBadUnicodeEscape
			}
			code, ok := parseHex4(in[i+1 : i+5])
			if !ok {
				return "", errBadUnicodeEscape
			}
			i += 4
			if code <= 0x7F {
				out.WriteByte(byte(code))
			} else {
				out.WriteByte('?')
			}
		default:
			return "", fmt.Errorf("unsupported escape \\%c", in[i])
		}
	}
	return out.String(), nil
}

func parseHex4(s string) (uint16, bool) {
	var code uint16
	for i := 0; i < len(s); i++ {
		h := s[i]
		code <<= 4
		switch {
		case h >= '0' && h <= '9':
			code |= uint16(h - '0')
		case h >= 'a' && h <= 'f':
			code |= uint16(10 + h - 'a')
		case h >= 'A' && h <= 'F':
			code |= uint16(10 + h - 'A')
		default:
			return 0, false
		}
	}
	return code, true
}
