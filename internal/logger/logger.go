// Package logger provides opt-in debug logging to a file. Logging is off
// by default so library consumers see no output unless they ask for it.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	debugLogger *log.Logger

	DebugEnabled = false

	logFile *os.File
)

// Init sets up file logging. With debug disabled or an empty path, all
// logging calls are no-ops.
func Init(debug bool, logPath string) error {
	DebugEnabled = debug

	if !DebugEnabled || logPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	debugLogger = log.New(f, "", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// Close closes the log file if open.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func Infof(format string, v ...any) {
	if DebugEnabled && debugLogger != nil {
		debugLogger.Printf("[INFO] "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	if DebugEnabled && debugLogger != nil {
		debugLogger.Printf("[ERROR] "+format, v...)
	}
}

func Debugf(format string, v ...any) {
	if DebugEnabled && debugLogger != nil {
		debugLogger.Printf("[DEBUG] "+format, v...)
	}
}

func Warnf(format string, v ...any) {
	if DebugEnabled && debugLogger != nil {
		debugLogger.Printf("[WARNING] "+format, v...)
	}
}
