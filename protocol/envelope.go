package protocol

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/meysamhadeli/wsengine/workspace/models"
)

const (
	ExitOK      = 0
	ExitFailure = 2
)

// Envelope is the JSON object written for every operation: "ok" plus either
// the operation payload or "error" with the failing "path" when known.
type Envelope map[string]any

func Success() Envelope {
	return Envelope{"ok": true}
}

// With sets one payload field and returns the envelope for chaining.
func (e Envelope) With(key string, value any) Envelope {
	e[key] = value
	return e
}

// OK reports the envelope's "ok" field.
func (e Envelope) OK() bool {
	ok, _ := e["ok"].(bool)
	return ok
}

// Kind returns the error kind of a failed envelope, or "" on success.
func (e Envelope) Kind() models.ErrorKind {
	kind, _ := e["error"].(string)
	return models.ErrorKind(kind)
}

func (e Envelope) ExitCode() int {
	if e.OK() {
		return ExitOK
	}
	return ExitFailure
}

// FromError converts any error into a failed envelope. Errors that are not a
// *models.WorkspaceError are reported as internal_error.
func FromError(err error) Envelope {
	env := Envelope{"ok": false}
	var we *models.WorkspaceError
	if !errors.As(err, &we) {
		return env.With("error", string(models.KindInternal)).With("message", fmt.Sprint(err))
	}
	env["error"] = string(we.Kind)
	if we.Path != "" {
		env["path"] = we.Path
	}
	if we.SnapshotID != "" {
		env["snapshot_id"] = we.SnapshotID
	}
	if we.Err != nil {
		env["message"] = we.Err.Error()
	}
	return env
}

func Failure(kind models.ErrorKind, path string) Envelope {
	env := Envelope{"ok": false, "error": string(kind)}
	if path != "" {
		env["path"] = path
	}
	return env
}

func Files(files []string) Envelope {
	if files == nil {
		files = []string{}
	}
	return Success().With("files", files)
}

// Content reports a read. JSON strings cannot carry invalid UTF-8, so when the
// bytes are not valid UTF-8 (binary data, or a rune cut at the byte limit)
// "content" is lossy and "content_base64" holds the exact bytes.
func Content(result *models.ReadResult) Envelope {
	env := Success().
		With("path", result.Path).
		With("content", string(result.Content)).
		With("truncated", result.Truncated)
	if !utf8.Valid(result.Content) {
		env["content_base64"] = base64.StdEncoding.EncodeToString(result.Content)
	}
	return env
}

func Results(matches []models.SearchMatch) Envelope {
	if matches == nil {
		matches = []models.SearchMatch{}
	}
	return Success().With("results", matches)
}

func Applied(result *models.ApplyResult) Envelope {
	return Success().
		With("snapshot_id", result.SnapshotID).
		With("changed", nonNil(result.Changed))
}

func RolledBack(result *models.RollbackResult) Envelope {
	return Success().
		With("snapshot_id", result.SnapshotID).
		With("restored", nonNil(result.Restored))
}

func Snapshots(snapshots []models.SnapshotInfo) Envelope {
	if snapshots == nil {
		snapshots = []models.SnapshotInfo{}
	}
	return Success().With("snapshots", snapshots)
}

func SnapshotDiff(snapshotID string, diffs []models.SnapshotFileDiff) Envelope {
	if diffs == nil {
		diffs = []models.SnapshotFileDiff{}
	}
	return Success().With("snapshot_id", snapshotID).With("diffs", diffs)
}

// Respond builds the success envelope with build, or the failure envelope for err.
func Respond[T any](value T, err error, build func(T) Envelope) Envelope {
	if err != nil {
		return FromError(err)
	}
	return build(value)
}

// Write encodes the envelope as one line of JSON.
func Write(w io.Writer, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Marshal returns the envelope as compact JSON text.
func Marshal(env Envelope) (string, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to encode response: %w", err)
	}
	return string(data), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
