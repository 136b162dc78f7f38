package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogRecorder captures JSON log lines for assertions
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecordingLogger returns a debug-level logger and the recorder it writes to
func NewRecordingLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(slog.NewJSONHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug})), rec
}

// Write implements io.Writer
func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Entries decodes every captured line
func (r *LogRecorder) Entries() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(r.buf.String()), "\n") {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Find returns the captured entries with the given level and message
func (r *LogRecorder) Find(level slog.Level, msg string) []map[string]any {
	var found []map[string]any
	for _, e := range r.Entries() {
		if e["level"] == level.String() && e["msg"] == msg {
			found = append(found, e)
		}
	}
	return found
}
