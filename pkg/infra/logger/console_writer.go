package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ConsoleHook copies entries at or above minLevel to out using the
// logger's own formatter.
type ConsoleHook struct {
	out    io.Writer
	levels []logrus.Level
}

func NewConsoleHook(out io.Writer, minLevel logrus.Level) *ConsoleHook {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= minLevel {
			levels = append(levels, l)
		}
	}
	return &ConsoleHook{out: out, levels: levels}
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return h.levels
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	b, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(b)
	return err
}
