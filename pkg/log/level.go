package log

import (
	"fmt"
	"strings"
)

// Log Level
type Level int

// Log Levels
//
// Arranged from most to least verbose. QUIET is only meaningful as a minimum
// level and silences every record.
const (
	TRACE Level = iota
	DEBUG
	INFO
	WARNING
	ERROR
	CRITICAL
	QUIET
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL", "QUIET"}

func (l Level) String() string {
	if l.valid() {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// valid reports whether l may be used as a minimum level.
func (l Level) valid() bool {
	return l >= TRACE && l <= QUIET
}

// loggable reports whether a record may carry level l.
func (l Level) loggable() bool {
	return l >= TRACE && l <= CRITICAL
}

// ParseLevel maps a level name to its Level. Matching is case-insensitive
// and WARN is accepted for WARNING.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARN" {
		return WARNING, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return INFO, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	lvl, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}
