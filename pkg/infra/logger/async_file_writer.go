package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const (
	queueDepth    = 1024
	flushInterval = 2 * time.Second
)

// AsyncFileWriter hands log lines to a background goroutine that owns the
// file. Write never blocks: when the queue is full the line is counted in
// Dropped and discarded.
type AsyncFileWriter struct {
	file    *os.File
	buf     *bufio.Writer
	queue   chan []byte
	quit    chan struct{}
	exited  chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func NewAsyncFileWriter(path string, bufferSize int) (*AsyncFileWriter, error) {
	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	w := &AsyncFileWriter{
		file:   f,
		buf:    bufio.NewWriterSize(f, bufferSize),
		queue:  make(chan []byte, queueDepth),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	// logrus reuses p after Write returns
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.queue <- line:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

func (w *AsyncFileWriter) Dropped() int64 {
	return w.dropped.Load()
}

func (w *AsyncFileWriter) write(line []byte) {
	if _, err := w.buf.Write(line); err != nil {
		fmt.Fprintf(os.Stderr, "log writer: %v\n", err)
	}
}

func (w *AsyncFileWriter) loop() {
	defer close(w.exited)
	tick := time.NewTicker(flushInterval)
	defer tick.Stop()

	for {
		select {
		case line := <-w.queue:
			w.write(line)
		case <-tick.C:
			_ = w.buf.Flush()
		case <-w.quit:
			for len(w.queue) > 0 {
				w.write(<-w.queue)
			}
			_ = w.buf.Flush()
			return
		}
	}
}

// Close writes out whatever is queued and closes the file. Safe to call
// more than once.
func (w *AsyncFileWriter) Close() {
	w.once.Do(func() {
		close(w.quit)
		<-w.exited
		_ = w.file.Close()
	})
}
