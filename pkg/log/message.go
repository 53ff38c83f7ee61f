package log

import (
	"fmt"
	"time"

	"github.com/mocondi/logger/internal/helpers/debughelper"
)

type LogMessage struct {
	Timestamp time.Time         // captured at creation, not at write
	Level     Level             // log level
	Msg       string            // log message
	Meta      map[string]string // log metadata

	File     string // call-site file (optional)
	Function string // call-site function (optional)
}

// NewLogMessage
//
// Creates a new LogMessage stamped with the current time
func NewLogMessage(level Level, msg string) *LogMessage {
	return &LogMessage{
		Timestamp: time.Now(),
		Level:     level,
		Msg:       msg,
	}
}

// NewLogMessagef is NewLogMessage with fmt.Sprintf formatting.
func NewLogMessagef(level Level, format string, v ...any) *LogMessage {
	return NewLogMessage(level, fmt.Sprintf(format, v...))
}

func (lm *LogMessage) WithMeta(key string, value any) *LogMessage {
	if lm.Meta == nil {
		lm.Meta = make(map[string]string)
	}
	lm.Meta[key] = fmt.Sprintf("%v", value)
	return lm
}

func (lm *LogMessage) WithMetaf(key, format string, v ...any) *LogMessage {
	return lm.WithMeta(key, fmt.Sprintf(format, v...))
}

// WithCallSite sets the call-site explicitly. Both values are shown only when
// the logger is verbose.
func (lm *LogMessage) WithCallSite(file, function string) *LogMessage {
	lm.File = file
	lm.Function = function
	return lm
}

// WithCaller records the file and function that called WithCaller.
func (lm *LogMessage) WithCaller() *LogMessage {
	return lm.withCaller(1)
}

func (lm *LogMessage) withCaller(skip int) *LogMessage {
	lm.File, lm.Function = debughelper.CallSite(skip + 1)
	return lm
}

func (lm *LogMessage) String() string {
	return Formatter{Template: DefaultFormat, Verbose: true}.Format(lm)
}
