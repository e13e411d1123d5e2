package notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/rathix/command-center/internal/proberesult"
)

// Log is the reference Notifier: it appends rendered notifications to a
// local file. It watches the file's parent directory so that an external
// rename or removal of the file (e.g. by logrotate) makes it reopen the
// handle instead of continuing to write to an unlinked inode.
type Log struct {
	name       string
	path       string
	format     Format
	timeFormat string
	logger     *slog.Logger

	mu   sync.Mutex
	file *os.File
}

var _ Notifier = (*Log)(nil)

// NewLog opens path for appending (creating it if necessary) and returns
// a ready-to-use Log notifier.
func NewLog(name, path string, format Format, timeFormat string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("notifier %s: open %s: %w", name, path, err)
	}
	return &Log{name: name, path: path, format: format, timeFormat: timeFormat, logger: logger, file: f}, nil
}

func (l *Log) Kind() string { return "log" }
func (l *Log) Name() string { return l.name }

// Notify appends the rendered result to the log file.
func (l *Log) Notify(ctx context.Context, result proberesult.Result) error {
	title, body := RenderFor(l.format)(result, l.timeFormat)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintf(l.file, "Notification: %s\n%s\n", title, body); err != nil {
		return fmt.Errorf("notifier %s: write: %w", l.name, err)
	}
	return l.file.Sync()
}

// Watch watches the log file's parent directory for rename/remove events
// against this file and reopens the handle when they occur, so that
// external log rotation does not silently strand writes on an unlinked
// file descriptor. It blocks until ctx is cancelled.
func (l *Log) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("notifier %s: watcher: %w", l.name, err)
	}
	defer fsw.Close()

	dir := filepath.Dir(l.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("notifier %s: watch %s: %w", l.name, dir, err)
	}

	target := filepath.Base(l.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if err := l.reopen(); err != nil {
				l.logger.Warn("notifier log reopen failed", "name", l.name, "error", err)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("notifier log watch error", "name", l.name, "error", err)
		}
	}
}

func (l *Log) reopen() error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	l.mu.Lock()
	old := l.file
	l.file = f
	l.mu.Unlock()
	return old.Close()
}

// Close flushes and releases the underlying file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
