package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultLogDir   = "logs"
	fileBufferBytes = 32 << 10
)

// NewLogger builds the process logger for component. Entries go to
// <LOG_DIR>/<component>.log through an AsyncFileWriter and are echoed on
// stdout. LOG_LEVEL and LOG_FORMAT (json or text) are read from the
// environment. The returned func flushes the file.
func NewLogger(component string) (*logrus.Logger, func(), error) {
	if component == "" || strings.ContainsAny(component, `/\`) || strings.Contains(component, "..") {
		return nil, nil, fmt.Errorf("invalid log component name %q", component)
	}
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = defaultLogDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	file, err := NewAsyncFileWriter(filepath.Join(dir, component+".log"), fileBufferBytes)
	if err != nil {
		return nil, nil, err
	}

	level := levelFromEnv()
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(formatterFromEnv())
	l.SetOutput(file)
	l.AddHook(NewConsoleHook(os.Stdout, level))
	return l, file.Close, nil
}

func levelFromEnv() logrus.Level {
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		return level
	}
	return logrus.InfoLevel
}

func formatterFromEnv() logrus.Formatter {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap:        logrus.FieldMap{logrus.FieldKeyTime: "time", logrus.FieldKeyMsg: "msg"},
	}
}
