package log

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

const (
	// TimestampLayout renders "%Y-%m-%d %H:%M:%S".
	TimestampLayout = "2006-01-02 15:04:05"

	// DefaultFormat produces "<ts> [<LEVEL>] [<file>::<function>] <message>",
	// the call-site segment only when verbose.
	DefaultFormat = "{TIMESTAMP} [{LEVEL}] {CALLSITE}{MESSAGE}{FIELDS}"
)

// Template placeholders. Anything else in braces is copied verbatim.
const (
	PlaceholderTimestamp = "{TIMESTAMP}"
	PlaceholderLevel     = "{LEVEL}"
	PlaceholderMessage   = "{MESSAGE}"
	PlaceholderFile      = "{FILE}"
	PlaceholderFunction  = "{FUNCTION}"
	PlaceholderCallSite  = "{CALLSITE}"
	PlaceholderFields    = "{FIELDS}"
)

var ErrUnparsableLine = errors.New("line does not match the default format")

// Formatter renders a LogMessage into a single line. It holds no state beyond
// its read-only settings and is safe to copy.
type Formatter struct {
	Template string
	Verbose  bool // include call-site info
	UTC      bool
}

func (f Formatter) Format(lm *LogMessage) string {
	tmpl := f.Template
	if tmpl == "" {
		tmpl = DefaultFormat
	}

	ts := lm.Timestamp
	if f.UTC {
		ts = ts.UTC()
	}

	var file, function, callSite string
	if f.Verbose {
		file, function = lm.File, lm.Function
		callSite = formatCallSite(file, function)
	}

	r := strings.NewReplacer(
		PlaceholderTimestamp, ts.Format(TimestampLayout),
		PlaceholderLevel, lm.Level.String(),
		PlaceholderMessage, lm.Msg,
		PlaceholderFile, file,
		PlaceholderFunction, function,
		PlaceholderCallSite, callSite,
		PlaceholderFields, formatFields(lm.Meta),
	)
	return r.Replace(tmpl)
}

func formatCallSite(file, function string) string {
	if file == "" {
		return ""
	}
	if function == "" {
		return "[" + file + "] "
	}
	return "[" + file + "::" + function + "] "
}

func formatFields(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(meta[k])
	}
	return b.String()
}

// Entry is a line of the default format taken apart again.
type Entry struct {
	Timestamp time.Time
	Level     Level
	File      string
	Function  string
	Message   string
}

// Parse splits a line written with DefaultFormat. A leading "[...] " segment
// after the level is read as the call-site only when the formatter is
// verbose, since a non-verbose line may carry a message starting with "[".
// Fields are not separated from the message. Timestamps are read in UTC when
// the formatter is UTC, in local time otherwise.
func (f Formatter) Parse(line string) (Entry, error) {
	line = strings.TrimSuffix(line, "\n")

	var e Entry
	if len(line) < len(TimestampLayout)+2 || line[len(TimestampLayout)] != ' ' {
		return e, ErrUnparsableLine
	}

	loc := time.Local
	if f.UTC {
		loc = time.UTC
	}
	ts, err := time.ParseInLocation(TimestampLayout, line[:len(TimestampLayout)], loc)
	if err != nil {
		return e, fmt.Errorf("%w: %v", ErrUnparsableLine, err)
	}
	e.Timestamp = ts

	rest := line[len(TimestampLayout)+1:]
	if !strings.HasPrefix(rest, "[") {
		return e, ErrUnparsableLine
	}
	end := strings.Index(rest, "] ")
	if end < 0 {
		// a record with an empty message ends right after the level
		if !strings.HasSuffix(rest, "]") {
			return e, ErrUnparsableLine
		}
		end = len(rest) - 1
		rest += " "
	}
	lvl, err := ParseLevel(rest[1:end])
	if err != nil {
		return e, fmt.Errorf("%w: %v", ErrUnparsableLine, err)
	}
	e.Level = lvl
	rest = rest[end+2:]

	if f.Verbose && strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "] "); end > 0 {
			site := rest[1:end]
			e.File, e.Function, _ = strings.Cut(site, "::")
			rest = rest[end+2:]
		}
	}

	e.Message = rest
	return e, nil
}
