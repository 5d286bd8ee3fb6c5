package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to stdout and, when path is set, appending to
// the file at path. The returned closer releases the file.
func New(path, level string) (*log.Logger, func() error, error) {
	var w io.Writer = os.Stdout
	closer := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f.Close
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
	})
	return logger, closer, nil
}

// Discard is a logger for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
