// Package mirror holds the reflection helpers the config loader uses to
// decode into a scratch value of the caller's struct type.
package mirror

import (
	"errors"
	"reflect"
)

var (
	ErrNotPointer         = errors.New("not a pointer")
	ErrNilPointer         = errors.New("nil pointer")
	ErrInvalidPointerKind = errors.New("invalid pointer")
)

// IsStructPointer reports whether v is a non-nil pointer to a struct.
func IsStructPointer(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return ErrNotPointer
	}
	if rv.IsNil() {
		return ErrNilPointer
	}
	if rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidPointerKind
	}
	return nil
}

// NewLike returns a pointer to a new zeroed value of the struct v points to.
// v must pass IsStructPointer.
func NewLike(v any) any {
	return reflect.New(reflect.TypeOf(v).Elem()).Interface()
}

// Fresh returns a new zeroed T. For pointer types the pointee is allocated,
// so Fresh[*Cfg]() returns a usable *Cfg.
func Fresh[T any]() T {
	var zero T
	typ := reflect.TypeOf(&zero).Elem()
	if typ.Kind() == reflect.Pointer {
		return reflect.New(typ.Elem()).Interface().(T)
	}
	return zero
}
