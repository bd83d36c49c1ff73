// Package logging provides file-based logging for hnthread.
// It outputs logs to a global log file (<dir>/hnthread.log) and, for lines
// tied to a thread, to that thread's log file (<dir>/thread-N.log).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/runoshun/hnthread/internal/domain"
)

// DefaultMaxThreadFiles is how many thread log files stay open at once.
const DefaultMaxThreadFiles = 16

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes formatted lines to log files and optionally mirrors them
// to a slog.Logger.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock       domain.Clock
	mirror      *slog.Logger
	globalFile  *os.File
	threadFiles *lru.Cache[domain.ID, *os.File]
	closeErr    error
	dir         string
	maxThreads  int
	mu          sync.Mutex
	level       slog.Level
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock sets the clock used for timestamps.
func WithClock(c domain.Clock) Option {
	return func(l *Logger) { l.clock = c }
}

// WithMirror also sends every accepted line to m.
func WithMirror(m *slog.Logger) Option {
	return func(l *Logger) { l.mirror = m }
}

// WithMaxThreadFiles caps the open thread log files. The least recently
// written file is closed first and reopened for appending when needed again.
func WithMaxThreadFiles(n int) Option {
	return func(l *Logger) { l.maxThreads = n }
}

// SetMirror replaces the mirror logger. A nil m disables mirroring.
func (l *Logger) SetMirror(m *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = m
}

// New creates a Logger writing under dir.
// If dir is empty, file output is disabled.
func New(dir string, level slog.Level, opts ...Option) *Logger {
	l := &Logger{
		dir:        dir,
		level:      level,
		clock:      domain.RealClock{},
		maxThreads: DefaultMaxThreadFiles,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.maxThreads <= 0 {
		l.maxThreads = DefaultMaxThreadFiles
	}
	// Size is positive, so construction cannot fail.
	l.threadFiles, _ = lru.NewWithEvict(l.maxThreads, l.closeThreadFile)
	return l
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New("", slog.LevelError+1)
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openFile opens path for appending, creating the log directory first.
func (l *Logger) openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// write appends entry to the global log and, if threadID > 0, to the thread log.
func (l *Logger) write(threadID domain.ID, entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile == nil {
		f, err := l.openFile(domain.GlobalLogPath(l.dir))
		if err != nil {
			return
		}
		l.globalFile = f
	}
	_, _ = io.WriteString(l.globalFile, entry)

	if threadID <= 0 {
		return
	}
	tf, ok := l.threadFiles.Get(threadID)
	if !ok {
		f, err := l.openFile(domain.ThreadLogPath(l.dir, threadID))
		if err != nil {
			return
		}
		l.threadFiles.Add(threadID, f)
		tf = f
	}
	_, _ = io.WriteString(tf, entry)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	l.closeErr = nil
	l.threadFiles.Purge()
	if l.closeErr != nil {
		lastErr = l.closeErr
	}
	return lastErr
}

// closeThreadFile is the eviction callback of threadFiles. It runs with mu held.
func (l *Logger) closeThreadFile(_ domain.ID, f *os.File) {
	if err := f.Close(); err != nil {
		l.closeErr = err
	}
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [thread-8863] [fetch] message
func formatLog(t time.Time, level slog.Level, threadID domain.ID, category, msg string) string {
	scope := "global"
	if threadID > 0 {
		scope = fmt.Sprintf("%s%d", domain.ThreadLogPrefix, threadID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		level.String(),
		scope,
		category,
		msg,
	)
}

func (l *Logger) log(level slog.Level, threadID domain.ID, category, msg string) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	mirror := l.mirror
	l.mu.Unlock()
	if mirror != nil {
		attrs := []slog.Attr{slog.String("category", category)}
		if threadID > 0 {
			attrs = append(attrs, slog.Int64("thread", int64(threadID)))
		}
		mirror.LogAttrs(context.Background(), level, msg, attrs...)
	}

	if l.dir == "" {
		return
	}
	l.write(threadID, formatLog(l.clock.Now(), level, threadID, category, msg))
}

// Info logs an info message.
func (l *Logger) Info(threadID domain.ID, category, msg string) {
	l.log(slog.LevelInfo, threadID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(threadID domain.ID, category, msg string) {
	l.log(slog.LevelDebug, threadID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(threadID domain.ID, category, msg string) {
	l.log(slog.LevelWarn, threadID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(threadID domain.ID, category, msg string) {
	l.log(slog.LevelError, threadID, category, msg)
}
