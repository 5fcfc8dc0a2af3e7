// Package logging provides leveled logging and tick tracing for the
// snowflake tools. It offers two outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TraceWriter for per-tick JSONL reports
package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug. Per-tick lines are logged
// at this level.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace", "warn", "error"
// (case-insensitive). Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// TraceWriter writes one JSON object per line. It is safe for concurrent
// use. A nil TraceWriter is safe to use; all methods are no-ops on a nil
// receiver. Log never fails; the first failure and the number of lost
// lines are reported by Close.
type TraceWriter struct {
	mu      sync.Mutex
	file    *os.File
	now     func() time.Time
	err     error
	dropped int
}

// OpenTrace creates (or truncates) the trace file at path. An empty path
// returns a nil writer and no error.
func OpenTrace(path string) (*TraceWriter, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	return &TraceWriter{file: f, now: time.Now}, nil
}

type traceEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Log writes event and its payload as a single JSONL line.
func (tw *TraceWriter) Log(event string, data any) {
	if tw == nil {
		return
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.file == nil {
		return
	}

	line, err := json.Marshal(traceEntry{
		Time:  tw.now().UTC().Format(time.RFC3339Nano),
		Event: event,
		Data:  data,
	})
	if err == nil {
		_, err = tw.file.Write(append(line, '\n'))
	}
	if err != nil {
		tw.dropped++
		if tw.err == nil {
			tw.err = err
		}
	}
}

// Close closes the underlying file and reports the first write failure, if
// any. Safe to call on nil receiver.
func (tw *TraceWriter) Close() error {
	if tw == nil {
		return nil
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.file == nil {
		return nil
	}
	err := tw.file.Close()
	tw.file = nil
	if tw.err != nil {
		err = errors.Join(fmt.Errorf("trace lost %d lines: %w", tw.dropped, tw.err), err)
	}
	return err
}
