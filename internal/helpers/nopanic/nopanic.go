package nopanic

import (
	"fmt"

	"github.com/lattesec/log"
	"github.com/mocondi/logger/internal/helpers/debughelper"
)

// PanicError carries a recovered panic value and the stack it was raised on.
type PanicError struct {
	Name  string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Value)
}

// Run calls fn and converts a panic into a *PanicError instead of letting it
// unwind the calling goroutine.
func Run(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Name: name, Value: r, Stack: debughelper.TraceStack()}
		}
	}()

	fn()
	return nil
}

// RunErr is Run for functions that report their own error.
func RunErr(name string, fn func() error) error {
	var fnErr error
	if err := Run(name, func() { fnErr = fn() }); err != nil {
		return err
	}
	return fnErr
}

// RunLogged is Run with the panic reported through the process log instead
// of being returned.
func RunLogged(name string, fn func()) {
	if err := Run(name, fn); err != nil {
		log.Error().
			WithMeta("scope", "nopanic").
			Msgf("%v", err).Send()
	}
}
