package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	return gap.NewScope(gap.User, "essaycoach").DataPath("essaycoach.log")
}

// setupLog sends log output to a file when ESSAYCOACH_DEBUG is set and
// discards it otherwise. The returned func closes the file.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)
	if os.Getenv("ESSAYCOACH_DEBUG") == "" {
		return func() error { return nil }, nil
	}

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
