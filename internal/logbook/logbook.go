package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logbook persists client activity to a logfmt text file. A TUI owns the
// terminal, so this file is the only place diagnostics go; Tail feeds the
// on-screen log panel.
type Logbook struct {
	path string

	mu     sync.Mutex
	file   *os.File
	logger log.Logger
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open %s: %w", path, err)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(file))
	logger = log.With(logger, "ts", log.TimestampFormat(func() time.Time { return time.Now().UTC() }, time.RFC3339))
	return &Logbook{path: path, file: file, logger: logger}, nil
}

// Close releases the backing file.
func (l *Logbook) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	l.logger = nil
	return err
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Info appends an informational entry. Extra keyvals follow go-kit pairs.
func (l *Logbook) Info(msg string, keyvals ...interface{}) {
	l.append(level.Info, msg, keyvals...)
}

// Warn appends a warning entry.
func (l *Logbook) Warn(msg string, keyvals ...interface{}) {
	l.append(level.Warn, msg, keyvals...)
}

// Error appends an error entry.
func (l *Logbook) Error(msg string, keyvals ...interface{}) {
	l.append(level.Error, msg, keyvals...)
}

func (l *Logbook) append(lvl func(log.Logger) log.Logger, msg string, keyvals ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	kv := append([]interface{}{"msg", strings.TrimSpace(msg)}, keyvals...)
	_ = lvl(l.logger).Log(kv...)
}

// Tail returns up to maxLines of the most recent log entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) == 0 {
		return nil
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}
