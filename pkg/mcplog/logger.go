// Package mcplog writes one JSON line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Entry levels.
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Payload limits applied by SanitizeParams.
const (
	maxLoggedString = 64
	maxLoggedItems  = 16
)

// LogEntry is one tool call.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Level         string         `json:"level"`
	Tool          string         `json:"tool"`
	File          string         `json:"file,omitempty"`
	Dialect       string         `json:"dialect,omitempty"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	Error         *string        `json:"error"`
}

// Failed reports whether the call returned an error or an error result.
func (e LogEntry) Failed() bool { return e.Level == LevelError }

// Logger encodes entries to a writer. It is safe for concurrent use, and a
// nil *Logger discards everything.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
}

// NewLogger appends to the file at path, creating it and its parent
// directories. An empty path yields a nil (disabled) Logger.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{out: f, closer: f}, nil
}

// New logs to w. Close leaves w open.
func New(w io.Writer) *Logger {
	return &Logger{out: w}
}

// Write encodes entry as a single line. Each line is written with one call
// so concurrent writers never interleave.
func (l *Logger) Write(entry LogEntry) error {
	if l == nil {
		return nil
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("mcplog: encode entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return errors.New("mcplog: logger closed")
	}
	_, err = l.out.Write(line)
	return err
}

// Close closes the log file if NewLogger opened one. Later writes fail.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = nil
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// ReadEntries decodes a JSON-lines log.
func ReadEntries(r io.Reader) ([]LogEntry, error) {
	dec := json.NewDecoder(r)
	var entries []LogEntry
	for {
		var e LogEntry
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, fmt.Errorf("mcplog: entry %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
}

// Entry describes a finished call that started at start. The file comes
// from the "file" argument, or "filename" for inline sources.
func Entry(tool string, args map[string]any, start time.Time, result *mcp.CallToolResult, err error) LogEntry {
	e := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Level:         LevelInfo,
		Tool:          tool,
		Params:        SanitizeParams(args),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
	}
	e.File, _ = args["file"].(string)
	if e.File == "" {
		e.File, _ = args["filename"].(string)
	}
	e.Dialect, _ = args["dialect"].(string)

	var msg string
	switch {
	case err != nil:
		msg = err.Error()
	case result != nil && result.IsError:
		msg = firstText(result)
	default:
		return e
	}
	e.Level = LevelError
	e.Error = &msg
	return e
}

func firstText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// SanitizeParams copies args for logging without their payloads: a long
// string (inline module source) becomes "<key>_len", a long list (component
// names) becomes "<key>_count".
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		switch v := v.(type) {
		case string:
			if len(v) > maxLoggedString {
				out[k+"_len"] = len(v)
				continue
			}
		case []any:
			if len(v) > maxLoggedItems {
				out[k+"_count"] = len(v)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// ResponseBytes is the encoded size of the result content, 0 for nil.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is the clock; tests replace it.
var Now = time.Now
