// Package logger provides the leveled logging facade used throughout solarsink.
// It keeps a small printf-style API and delegates formatting and output to logrus.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

// LogLevel is a type representing the logging level.
type LogLevel int

const (
	// LevelDebug is the log level used for detailed debugging information.
	LevelDebug LogLevel = iota
	// LevelInfo is the log level used for general informational messages.
	LevelInfo
	// LevelWarn is the log level used for potential issues or warning messages.
	LevelWarn
	// LevelError is the log level used for error messages.
	LevelError
	// LevelFatal is the log level used for fatal error messages that cause application termination.
	LevelFatal
)

const (
	defaultTimestampFormat = "2006-01-02 15:04:05.000"
	defaultMaxAgeDays      = 7
)

// levelLabels is indexed by logrus.Level (Panic=0 ... Trace=6).
var levelLabels = []string{"PANIC", "FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

var (
	mu  sync.Mutex
	std = newStandardLogger()
)

func newStandardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&LineFormatter{TimestampFormat: defaultTimestampFormat})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// LineFormatter renders entries as "<timestamp> [LEVEL] <message>".
type LineFormatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = defaultTimestampFormat
	}
	label := "INFO"
	if int(entry.Level) < len(levelLabels) {
		label = levelLabels[entry.Level]
	}
	msg := strings.TrimRight(entry.Message, "\n")
	return []byte(fmt.Sprintf("%s [%s] %s\n", entry.Time.Format(layout), label, msg)), nil
}

// SetLogLevel sets the global log level.
// Valid values are "DEBUG", "INFO", "WARN", "ERROR", "FATAL" (case-insensitive).
// Unknown values fall back to INFO.
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		std.SetLevel(logrus.DebugLevel)
	case "INFO":
		std.SetLevel(logrus.InfoLevel)
	case "WARN", "WARNING":
		std.SetLevel(logrus.WarnLevel)
	case "ERROR":
		std.SetLevel(logrus.ErrorLevel)
	case "FATAL":
		std.SetLevel(logrus.FatalLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
		std.Warnf("Unknown log level '%s' specified. Defaulting to INFO level.", level)
	}
}

// CurrentLevel returns the active log level.
func CurrentLevel() LogLevel {
	switch std.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	case logrus.InfoLevel:
		return LevelInfo
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.ErrorLevel:
		return LevelError
	default:
		return LevelFatal
	}
}

// SetOutput replaces the log destination. Mainly used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// EnableFileOutput additionally writes logs to hourly rotated files in dir.
// Files older than maxAgeDays are purged. The returned closer releases the current file handle.
func EnableFileOutput(dir string, maxAgeDays int) (io.Closer, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = defaultMaxAgeDays
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", dir, err)
	}
	rl, err := rotatelogs.New(
		filepath.Join(dir, "solarsink-%Y%m%d%H.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, "solarsink.log")),
		rotatelogs.WithRotationTime(time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAgeDays)*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open rotating log file in '%s': %w", dir, err)
	}

	mu.Lock()
	std.SetOutput(io.MultiWriter(os.Stderr, rl))
	mu.Unlock()
	return rl, nil
}

// Debugf formats and outputs a DEBUG level log message.
func Debugf(format string, v ...interface{}) {
	std.Debugf(format, v...)
}

// Infof formats and outputs an INFO level log message.
func Infof(format string, v ...interface{}) {
	std.Infof(format, v...)
}

// Warnf formats and outputs a WARN level log message.
func Warnf(format string, v ...interface{}) {
	std.Warnf(format, v...)
}

// Errorf formats and outputs an ERROR level log message.
func Errorf(format string, v ...interface{}) {
	std.Errorf(format, v...)
}

// Fatalf formats and outputs a FATAL level log message,
// then terminates the program by calling os.Exit(1).
func Fatalf(format string, v ...interface{}) {
	std.Fatalf(format, v...)
}
