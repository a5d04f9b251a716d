package apilog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger captures every API request as an NDJSON line for debugging.
// Only the request shape is recorded, never headers or bodies, so the
// session credential and the deployment-provider token stay out of logs.
type Logger struct {
	file     *os.File
	mu       sync.Mutex
	eventSeq int
}

// Event is one logged request
type Event struct {
	Timestamp  string `json:"timestamp"`
	EventSeq   int    `json:"event_seq"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"` // 0 when the request never reached the server
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// New creates a request logger under ~/.sanos/logs with a timestamped
// file name, one file per run.
func New() (*Logger, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	logDir := filepath.Join(homeDir, ".sanos", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	timestamp := time.Now().Format("20060102-150405")
	return NewAt(filepath.Join(logDir, fmt.Sprintf("requests-%s.ndjson", timestamp)))
}

// NewAt creates a request logger writing to path
func NewAt(path string) (*Logger, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create request log file: %w", err)
	}

	// Metadata header as the first line for easier debugging
	header := map[string]interface{}{
		"type":      "session_metadata",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"log_path":  path,
	}
	if data, err := json.Marshal(header); err == nil {
		file.Write(append(data, '\n'))
		file.Sync()
	}

	return &Logger{file: file}, nil
}

// Request logs one completed request. status is 0 for transport failures
// that never produced a response. Safe on a nil logger.
func (l *Logger) Request(method, path string, status int, d time.Duration, reqErr error) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.eventSeq++

	event := Event{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		EventSeq:   l.eventSeq,
		Method:     method,
		Path:       path,
		Status:     status,
		DurationMS: d.Milliseconds(),
	}
	if reqErr != nil {
		event.Error = reqErr.Error()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return // Silently skip if marshal fails
	}

	l.file.Write(append(data, '\n'))
	l.file.Sync() // Flush immediately for debugging
}

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}
