// Package usagelog appends LLM usage accounting records to a shared log file.
//
// The record format is consumed by downstream cost reporting and must stay
// byte-stable. Every record is written with a single Write call so concurrent
// invocations appending to the same file do not interleave.
package usagelog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Usage describes a single completed LLM call.
type Usage struct {
	Model            string
	Purpose          string
	PromptTokens     int
	CompletionTokens int
	TotalCost        float64
}

// Log is an append-only usage log. The zero value is not usable; obtain one
// through Open or New.
type Log struct {
	mu  sync.Mutex
	out io.Writer
	c   io.Closer

	now func() time.Time
}

// Open opens (creating if needed) the usage log at path in append mode.
func Open(path string) (*Log, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("usage log path is not configured")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open usage log %q: %w", path, err)
	}

	l := New(f)
	l.c = f
	return l, nil
}

// New wraps an existing writer. Used by tests and by callers that already
// hold an open sink.
func New(w io.Writer) *Log {
	return &Log{out: w, now: time.Now}
}

// Record appends one LLM_USAGE line for a successful call.
func (l *Log) Record(u Usage) error {
	line := fmt.Sprintf(
		"LLM_USAGE | timestamp=%s | model=%s | type=%s | prompt_tokens=%d | completion_tokens=%d | total_cost=$%.6f\n",
		l.now().Format(time.RFC3339),
		u.Model, u.Purpose, u.PromptTokens, u.CompletionTokens, u.TotalCost,
	)
	return l.write(line)
}

// RecordError appends one error line for a failed call. Failures count as
// usage records so that every attempted call leaves exactly one line.
func (l *Log) RecordError(model, purpose string, callErr error) error {
	msg := "unknown error"
	if callErr != nil {
		msg = strings.ReplaceAll(callErr.Error(), "\n", " ")
	}
	line := fmt.Sprintf(
		"LLM_USAGE_ERROR | timestamp=%s | model=%s | type=%s | error=%s\n",
		l.now().Format(time.RFC3339),
		model, purpose, msg,
	)
	return l.write(line)
}

func (l *Log) write(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return fmt.Errorf("usage log is not open")
	}

	_, err := io.WriteString(l.out, line)
	return err
}

// Close releases the underlying file, if any.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.c == nil {
		return nil
	}
	err := l.c.Close()
	l.c = nil
	l.out = nil
	return err
}
