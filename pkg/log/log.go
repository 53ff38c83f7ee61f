package log

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	stdOnce sync.Once
	std     atomic.Pointer[Logger]
)

// Default returns the process-wide logger, creating it on first access. It
// echoes INFO and above to stdout and writes no file until Init or
// SetFilename is called. Call Stop before the process exits so pending
// records are written.
func Default() *Logger {
	stdOnce.Do(func() {
		opts := DefaultOptions()
		opts.Console = true
		std.CompareAndSwap(nil, New(opts))
	})
	return std.Load()
}

// SetDefault replaces the process-wide logger and returns the previous one,
// which is left running.
func SetDefault(l *Logger) *Logger {
	prev := Default()
	std.Store(l)
	return prev
}

// Init points the default logger at filePath with minimum level lvl.
func Init(filePath string, lvl Level) error {
	l := Default()
	if err := l.SetLevel(lvl); err != nil {
		return err
	}
	l.SetFilename(filePath)
	return l.Start()
}

func SetLevel(l Level) error {
	return Default().SetLevel(l)
}

func GetLevel() Level {
	return Default().GetLevel()
}

// Stop drains and stops the default logger.
func Stop() {
	Default().Stop()
}

func Shutdown(ctx context.Context) error {
	return Default().Shutdown(ctx)
}

func Log(msg *LogMessage) error {
	return Default().Log(msg)
}

func Trace(v ...any)    { Default().output(1, TRACE, fmt.Sprint(v...)) }
func Debug(v ...any)    { Default().output(1, DEBUG, fmt.Sprint(v...)) }
func Info(v ...any)     { Default().output(1, INFO, fmt.Sprint(v...)) }
func Warn(v ...any)     { Default().output(1, WARNING, fmt.Sprint(v...)) }
func Error(v ...any)    { Default().output(1, ERROR, fmt.Sprint(v...)) }
func Critical(v ...any) { Default().output(1, CRITICAL, fmt.Sprint(v...)) }
func Fatal(v ...any)    { Default().Fatal(NewLogMessage(CRITICAL, fmt.Sprint(v...)).withCaller(1)) }

func Tracef(format string, v ...any)    { Default().output(1, TRACE, fmt.Sprintf(format, v...)) }
func Debugf(format string, v ...any)    { Default().output(1, DEBUG, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)     { Default().output(1, INFO, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)     { Default().output(1, WARNING, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any)    { Default().output(1, ERROR, fmt.Sprintf(format, v...)) }
func Criticalf(format string, v ...any) { Default().output(1, CRITICAL, fmt.Sprintf(format, v...)) }
func Fatalf(format string, v ...any) {
	Default().Fatal(NewLogMessage(CRITICAL, fmt.Sprintf(format, v...)).withCaller(1))
}
