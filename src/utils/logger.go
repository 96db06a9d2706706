package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes application logs to files under logDir and mirrors them to
// stdout/stderr.
type Logger struct {
	accessLog *log.Logger
	serverLog *log.Logger
	errorLog  *log.Logger
	logDir    string
}

// NewLogger creates a logger writing access.log, server.log and error.log
// under logDir. The directory is created if missing.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	accessFile, err := openLogFile(logDir, "access.log")
	if err != nil {
		return nil, err
	}

	serverFile, err := openLogFile(logDir, "server.log")
	if err != nil {
		accessFile.Close()
		return nil, err
	}

	errorFile, err := openLogFile(logDir, "error.log")
	if err != nil {
		accessFile.Close()
		serverFile.Close()
		return nil, err
	}

	return &Logger{
		accessLog: log.New(io.MultiWriter(accessFile, os.Stdout), "", 0),
		serverLog: log.New(io.MultiWriter(serverFile, os.Stdout), "", 0),
		errorLog:  log.New(io.MultiWriter(errorFile, os.Stderr), "", 0),
		logDir:    logDir,
	}, nil
}

func openLogFile(logDir, name string) (*os.File, error) {
	f, err := os.OpenFile(
		filepath.Join(logDir, name),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.serverLog.Printf("[%s] [INFO] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLog.Printf("[%s] [ERROR] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
}

// Fatal logs a fatal error and exits.
func (l *Logger) Fatal(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLog.Printf("[%s] [FATAL] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
	os.Exit(1)
}

// Server logs a server lifecycle event.
func (l *Logger) Server(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.serverLog.Printf("[%s] [SERVER] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
}

// Access logs one request in Apache combined log format.
func (l *Logger) Access(ip, user, method, path, protocol string, status int, size int64, referer, userAgent string) {
	timestamp := time.Now().Format("02/Jan/2006:15:04:05 -0700")
	if user == "" {
		user = "-"
	}
	if referer == "" {
		referer = "-"
	}
	if userAgent == "" {
		userAgent = "-"
	}

	entry := fmt.Sprintf(
		`%s - %s [%s] "%s %s %s" %d %d "%s" "%s"`,
		ip, user, timestamp, method, path, protocol, status, size, referer, userAgent,
	)
	l.accessLog.Println(entry)
}
