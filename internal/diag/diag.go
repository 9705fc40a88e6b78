// Package diag is the analysis core's diagnostic sink: a toggle-able,
// category-scoped debug log mirroring the teacher's internal/debug package.
// It is a no-op until a sink is configured, so the core never pays for
// string formatting on the hot path (tree decode, path walk) unless a
// caller opted in.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	output io.Writer
	file   *os.File
)

// SetOutput sets the writer diagnostics are written to. Pass nil to
// disable output entirely (the default).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// EnableFile opens a timestamped log file under dir and routes diagnostics
// there, returning the path for the caller to report. Call CloseFile when
// done.
func EnableFile(dir string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create diag log dir: %w", err)
	}
	name := fmt.Sprintf("apisan-%s.log", time.Now().Format("20060102T150405"))
	path := dir + string(os.PathSeparator) + name
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("open diag log file: %w", err)
	}
	file = f
	output = f
	return path, nil
}

// CloseFile closes the file opened by EnableFile, if any.
func CloseFile() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = nil
	return err
}

func logf(category, format string, args ...interface{}) {
	mu.Lock()
	w := output
	mu.Unlock()
	if w == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(w, "[%s] %s\n", category, msg)
}

// LogTrace logs a diagnostic from the trace file reader (framing, size
// skips).
func LogTrace(format string, args ...interface{}) { logf("trace", format, args...) }

// LogParse logs a diagnostic from the tree decoder or expression parser.
func LogParse(format string, args ...interface{}) { logf("parse", format, args...) }

// LogCheck logs a diagnostic from a checker (e.g. a recovered panic on one
// path).
func LogCheck(format string, args ...interface{}) { logf("check", format, args...) }

// LogExplore logs a diagnostic from the explorer/driver.
func LogExplore(format string, args ...interface{}) { logf("explore", format, args...) }
