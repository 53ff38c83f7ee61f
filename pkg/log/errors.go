package log

import (
	"errors"
	"fmt"

	"github.com/mocondi/logger/internal/queue"
)

var (
	ErrLoggerStopped = errors.New("logger stopped")
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrQueueFull     = queue.ErrFull
)

// FailureKind classifies sink failures.
type FailureKind uint8

const (
	// KindConfiguration is a failure to open the log file before it was ever
	// opened successfully: bad path or permissions.
	KindConfiguration FailureKind = iota + 1
	// KindWrite is a failure to open, write or flush a previously usable file.
	KindWrite
	// KindRotation is a failure to shift the file into the backup chain.
	KindRotation
	// KindInternal is a panic contained in the writer goroutine.
	KindInternal
)

func (k FailureKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindWrite:
		return "write failure"
	case KindRotation:
		return "rotation failure"
	case KindInternal:
		return "internal error"
	default:
		return "unknown failure"
	}
}

// Failure is reported to the stderr writer and the OnError hook. It never
// escapes Log.
type Failure struct {
	Kind FailureKind
	Path string
	Err  error
}

func (f *Failure) Error() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s: %v", f.Kind, f.Path, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// IsKind reports whether err is a *Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}
