package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mocondi/logger/internal/helpers/nopanic"
	"github.com/mocondi/logger/internal/queue"
)

type ILogger interface {
	GetLevel() Level
	SetLevel(level Level) error

	State() State
	Start() error
	Stop()
	Shutdown(ctx context.Context) error

	Log(msg *LogMessage) error
	Fatal(msg *LogMessage)

	GetName() string
	SetName(name string)

	GetFilename() string
	SetFilename(filename string)

	GetMaxFileSize() int64
	SetMaxFileSize(size int64)

	GetMaxBackups() int
	SetMaxBackups(n int)

	GetFormat() string
	SetFormat(format string)

	IsConsole() bool
	SetConsole(enable bool)

	IsVerbose() bool
	SetVerbose(verbose bool)

	GetStdout() io.Writer
	SetStdout(w io.Writer)

	GetStderr() io.Writer
	SetStderr(w io.Writer)

	Stats() Stats
}

var _ ILogger = (*Logger)(nil)

// State is the lifecycle position of a Logger.
type State uint8

const (
	StateUnstarted State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time copy of the logger counters.
type Stats struct {
	Enqueued         uint64 // records accepted by the queue
	Filtered         uint64 // records below the minimum level
	Dropped          uint64 // records refused or evicted by the overflow policy
	Rejected         uint64 // records logged after Stop
	Written          uint64 // records appended to the file
	WriteFailures    uint64 // open, write and flush failures
	Rotations        uint64
	RotationFailures uint64
	Pending          int // records waiting for the writer
}

// record is a fully rendered line waiting in the queue.
type record struct {
	timestamp time.Time
	level     Level
	line      []byte
}

// Logger serializes records from any number of goroutines into one ordered
// stream that a single writer goroutine appends to a rotating file and,
// optionally, to the console.
//
// A Logger starts on the first Log (or Start) and runs until Stop, which
// drains every pending record. A stopped Logger cannot be restarted; Log then
// returns ErrLoggerStopped.
type Logger struct {
	mu sync.RWMutex // guards the settings and state; never held during I/O

	name        string
	level       Level
	filename    string
	console     bool
	verbose     bool
	maxFileSize int64
	maxBackups  int
	format      string
	utc         bool

	stdout  io.Writer
	stderr  io.Writer
	onError func(error)

	state State
	done  chan struct{} // closed when the writer has exited

	queue *queue.Queue[record]
	sink  sink // writer goroutine only

	exit func(code int)

	enqueued         atomic.Uint64
	filtered         atomic.Uint64
	rejected         atomic.Uint64
	written          atomic.Uint64
	writeFailures    atomic.Uint64
	rotations        atomic.Uint64
	rotationFailures atomic.Uint64
}

// New creates an unstarted Logger. The queue size and overflow policy are
// fixed here; every other option can be changed later.
func New(opts Options) *Logger {
	opts.normalize()
	l := &Logger{
		state: StateUnstarted,
		done:  make(chan struct{}),
		queue: queue.New[record](opts.QueueSize, opts.Overflow),
		exit:  os.Exit,
	}
	l.apply(opts)
	return l
}

// Configure replaces every runtime setting at once. QueueSize and Overflow
// are ignored.
func (l *Logger) Configure(opts Options) {
	opts.normalize()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apply(opts)
}

// Ensure that the caller holds the lock or owns l exclusively
func (l *Logger) apply(opts Options) {
	l.name = opts.Name
	l.level = opts.Level
	l.filename = opts.Filename
	l.console = opts.Console
	l.verbose = opts.Verbose
	l.maxFileSize = opts.MaxFileSize
	l.maxBackups = opts.MaxBackups
	l.format = opts.Format
	l.utc = opts.UTC
	l.stdout = opts.Stdout
	l.stderr = opts.Stderr
	l.onError = opts.OnError
}

// Start launches the writer goroutine. It is called implicitly by the first
// Log and returns ErrLoggerStopped once the logger was stopped.
func (l *Logger) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateRunning:
		return nil
	case StateStopping, StateStopped:
		return ErrLoggerStopped
	}

	l.state = StateRunning
	go l.run()
	return nil
}

func (l *Logger) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Stop stops accepting records, waits for the writer to drain the queue and
// closes the file. Calling it again, from any goroutine, is a no-op that
// waits for the same drain.
func (l *Logger) Stop() {
	_ = l.Shutdown(context.Background())
}

// Shutdown is Stop with a bound on the wait. When ctx ends first the writer
// keeps draining in the background and ctx.Err() is returned.
func (l *Logger) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateUnstarted:
		l.state = StateStopped
		l.queue.Close()
		close(l.done)
	case StateRunning:
		l.state = StateStopping
		l.queue.Close()
	}
	done := l.done
	l.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the logger reached StateStopped.
func (l *Logger) Done() <-chan struct{} {
	return l.done
}

// Log filters msg by level, renders it on the calling goroutine and hands it
// to the writer. It never waits on file I/O; with OverflowBlock it may wait
// for room in the queue.
//
// Records below the minimum level are dropped and nil is returned. The only
// errors are ErrInvalidLevel, ErrQueueFull (OverflowDropNewest) and
// ErrLoggerStopped.
func (l *Logger) Log(msg *LogMessage) error {
	if msg == nil {
		return nil
	}
	if !msg.Level.loggable() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(msg.Level))
	}

	l.mu.RLock()
	if msg.Level < l.level {
		l.mu.RUnlock()
		l.filtered.Add(1)
		return nil
	}
	state := l.state
	f := Formatter{Template: l.format, Verbose: l.verbose, UTC: l.utc}
	l.mu.RUnlock()

	if state == StateUnstarted {
		if err := l.Start(); err != nil {
			l.rejected.Add(1)
			return err
		}
	}

	rec := record{
		timestamp: msg.Timestamp,
		level:     msg.Level,
		line:      []byte(f.Format(msg) + "\n"),
	}

	switch err := l.queue.Push(rec); {
	case err == nil:
		l.enqueued.Add(1)
		return nil
	case errors.Is(err, queue.ErrClosed):
		l.rejected.Add(1)
		return ErrLoggerStopped
	default:
		return err
	}
}

// Fatal logs msg at CRITICAL, drains the logger and exits with status 1.
func (l *Logger) Fatal(msg *LogMessage) {
	if msg == nil {
		msg = NewLogMessage(CRITICAL, "")
	}
	msg.Level = CRITICAL
	_ = l.Log(msg)
	l.Stop()
	l.exit(1)
}

// writerConfig is everything the writer reads from the settings for one
// record, taken in a single critical section.
type writerConfig struct {
	sink    sinkConfig
	name    string
	stderr  io.Writer
	onError func(error)
	utc     bool
}

func (l *Logger) snapshot() writerConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return writerConfig{
		sink: sinkConfig{
			filename: l.filename,
			console:  l.console,
			rotator:  Rotator{MaxSize: l.maxFileSize, MaxBackups: l.maxBackups},
			stdout:   l.stdout,
		},
		name:    l.name,
		stderr:  l.stderr,
		onError: l.onError,
		utc:     l.utc,
	}
}

// run is the writer goroutine.
func (l *Logger) run() {
	for {
		rec, ok := l.queue.Pop()
		if !ok {
			break
		}

		if err := nopanic.Run("log writer", func() { l.write(rec) }); err != nil {
			l.report(l.snapshot(), &Failure{Kind: KindInternal, Err: err})
		}
	}

	if err := l.sink.close(); err != nil {
		l.report(l.snapshot(), &Failure{Kind: KindWrite, Err: fmt.Errorf("close: %w", err)})
	}

	l.mu.Lock()
	l.state = StateStopped
	l.mu.Unlock()
	close(l.done)
}

func (l *Logger) write(rec record) {
	cfg := l.snapshot()
	res := l.sink.write(cfg.sink, rec.line)

	if res.written {
		l.written.Add(1)
	}
	if res.rotated {
		l.rotations.Add(1)
	}
	for _, err := range res.failures {
		if IsKind(err, KindRotation) {
			l.rotationFailures.Add(1)
		} else {
			l.writeFailures.Add(1)
		}
		l.report(cfg, err)
	}
}

// report writes a failure to the stderr writer, bypassing the queue.
func (l *Logger) report(cfg writerConfig, err error) {
	if cfg.stderr != nil {
		ts := time.Now()
		if cfg.utc {
			ts = ts.UTC()
		}
		fmt.Fprintf(cfg.stderr, "%s [%s] %s: %v\n", ts.Format(TimestampLayout), ERROR, cfg.name, err)
	}
	if cfg.onError != nil {
		cfg.onError(err)
	}
}

func (l *Logger) Stats() Stats {
	return Stats{
		Enqueued:         l.enqueued.Load(),
		Filtered:         l.filtered.Load(),
		Dropped:          l.queue.Dropped(),
		Rejected:         l.rejected.Load(),
		Written:          l.written.Load(),
		WriteFailures:    l.writeFailures.Load(),
		Rotations:        l.rotations.Load(),
		RotationFailures: l.rotationFailures.Load(),
		Pending:          l.queue.Len(),
	}
}

// output builds a record for the convenience methods. depth is the number
// of frames between output's caller and the user's call site.
func (l *Logger) output(depth int, lvl Level, msg string) {
	lm := NewLogMessage(lvl, msg)
	if l.IsVerbose() {
		lm.withCaller(depth + 1)
	}
	_ = l.Log(lm)
}

func (l *Logger) Trace(v ...any)    { l.output(1, TRACE, fmt.Sprint(v...)) }
func (l *Logger) Debug(v ...any)    { l.output(1, DEBUG, fmt.Sprint(v...)) }
func (l *Logger) Info(v ...any)     { l.output(1, INFO, fmt.Sprint(v...)) }
func (l *Logger) Warn(v ...any)     { l.output(1, WARNING, fmt.Sprint(v...)) }
func (l *Logger) Error(v ...any)    { l.output(1, ERROR, fmt.Sprint(v...)) }
func (l *Logger) Critical(v ...any) { l.output(1, CRITICAL, fmt.Sprint(v...)) }

func (l *Logger) Tracef(format string, v ...any) { l.output(1, TRACE, fmt.Sprintf(format, v...)) }
func (l *Logger) Debugf(format string, v ...any) { l.output(1, DEBUG, fmt.Sprintf(format, v...)) }
func (l *Logger) Infof(format string, v ...any)  { l.output(1, INFO, fmt.Sprintf(format, v...)) }
func (l *Logger) Warnf(format string, v ...any)  { l.output(1, WARNING, fmt.Sprintf(format, v...)) }
func (l *Logger) Errorf(format string, v ...any) { l.output(1, ERROR, fmt.Sprintf(format, v...)) }
func (l *Logger) Criticalf(format string, v ...any) {
	l.output(1, CRITICAL, fmt.Sprintf(format, v...))
}

func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) SetLevel(level Level) error {
	if !level.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	return nil
}

func (l *Logger) GetName() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.name
}

func (l *Logger) SetName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = name
}

func (l *Logger) GetFilename() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filename
}

// SetFilename switches the target file for the next record. An empty name
// disables file output.
func (l *Logger) SetFilename(filename string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filename = filename
}

func (l *Logger) GetMaxFileSize() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxFileSize
}

func (l *Logger) SetMaxFileSize(size int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxFileSize = size
}

func (l *Logger) GetMaxBackups() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxBackups
}

func (l *Logger) SetMaxBackups(n int) {
	if n < 0 {
		n = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxBackups = n
}

func (l *Logger) GetFormat() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.format
}

func (l *Logger) SetFormat(format string) {
	if format == "" {
		format = DefaultFormat
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

func (l *Logger) IsConsole() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.console
}

func (l *Logger) SetConsole(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = enable
}

func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

func (l *Logger) GetStdout() io.Writer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stdout
}

func (l *Logger) SetStdout(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = w
}

func (l *Logger) GetStderr() io.Writer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stderr
}

func (l *Logger) SetStderr(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stderr = w
}
