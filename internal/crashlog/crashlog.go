// Package crashlog writes last-words lines from places where the regular
// logger must not be used, such as a signal handler that is about to drain
// it. A Writer shares no state with pkg/log: it owns a preallocated buffer
// and issues exactly one write per line.
package crashlog

import (
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	prefix  = "[CRASH] "
	bufSize = 512
)

type Writer struct {
	mu  sync.Mutex
	f   *os.File
	buf [bufSize]byte
}

// New wraps an already open file. A nil f writes to os.Stderr.
func New(f *os.File) *Writer {
	if f == nil {
		f = os.Stderr
	}
	return &Writer{f: f}
}

// Write emits "[CRASH] <unix seconds> <msg>\n". Messages longer than the
// buffer are truncated.
func (w *Writer) Write(msg string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b := append(w.buf[:0], prefix...)
	b = strconv.AppendInt(b, time.Now().Unix(), 10)
	b = append(b, ' ')

	room := bufSize - len(b) - 1
	if len(msg) > room {
		msg = msg[:room]
	}
	b = append(b, msg...)
	b = append(b, '\n')

	_, err := w.f.Write(b)
	return err
}
