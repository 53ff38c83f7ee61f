package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mocondi/logger/internal/queue"
)

// OverflowPolicy decides what Log does when a bounded queue is full.
type OverflowPolicy = queue.Policy

const (
	// OverflowBlock makes the caller wait for the writer (backpressure).
	OverflowBlock = queue.Block
	// OverflowDropNewest refuses the record with ErrQueueFull.
	OverflowDropNewest = queue.DropNewest
	// OverflowDropOldest evicts the oldest pending record.
	OverflowDropOldest = queue.DropOldest
)

const (
	DefaultName        = "sielog"
	DefaultMaxFileSize = 5 << 20 // 5MB
	DefaultMaxBackups  = 5
	DefaultQueueSize   = 1024
)

var ErrInvalidOverflow = errors.New("invalid overflow policy")

// Options configures a Logger.
type Options struct {
	Name        string // the name of the logger, used in failure reports
	Filename    string // the file to write logs to. leave empty to disable file writes.
	Level       Level  // minimum level
	Console     bool   // echo every record to Stdout
	Verbose     bool   // include call-site info
	MaxFileSize int64  // exceeding this triggers a rotation. 0 disables rotation.
	MaxBackups  int    // backups kept by rotation. 0 deletes the rotated file.
	Format      string // line template, see DefaultFormat
	UTC         bool   // render timestamps in UTC

	QueueSize int            // fixed at New. <= 0 is unbounded.
	Overflow  OverflowPolicy // fixed at New.

	Stdout  io.Writer   // defaults to os.Stdout.
	Stderr  io.Writer   // defaults to os.Stderr.
	OnError func(error) // called on the writer goroutine for every sink failure; must not log through the same Logger
}

// DefaultOptions returns console-less INFO logging to nowhere; set Filename
// or Console to get output.
func DefaultOptions() Options {
	return Options{
		Name:        DefaultName,
		Level:       INFO,
		MaxFileSize: DefaultMaxFileSize,
		MaxBackups:  DefaultMaxBackups,
		Format:      DefaultFormat,
		QueueSize:   DefaultQueueSize,
		Overflow:    OverflowBlock,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

func (o *Options) normalize() {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if !o.Level.valid() {
		o.Level = INFO
	}
	if o.MaxBackups < 0 {
		o.MaxBackups = 0
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// ParseOverflow maps "block", "drop_newest" or "drop_oldest" to a policy.
func ParseOverflow(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return OverflowBlock, nil
	case "drop_newest", "drop":
		return OverflowDropNewest, nil
	case "drop_oldest":
		return OverflowDropOldest, nil
	}
	return OverflowBlock, fmt.Errorf("%w: %q", ErrInvalidOverflow, s)
}

// Config is the file representation of Options. Unset fields keep the value
// from DefaultOptions.
type Config struct {
	Name        string `yaml:"name"`
	Filename    string `yaml:"filename"`
	Level       string `yaml:"level"`
	Console     *bool  `yaml:"console"`
	Verbose     *bool  `yaml:"verbose"`
	MaxFileSize *int64 `yaml:"max_file_size"`
	MaxBackups  *int   `yaml:"max_backups"`
	Format      string `yaml:"format"`
	UTC         *bool  `yaml:"utc"`
	QueueSize   *int   `yaml:"queue_size"`
	Overflow    string `yaml:"overflow"`
}

func (c *Config) Validate() error {
	var errs []error
	if c.Level != "" {
		if _, err := ParseLevel(c.Level); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := ParseOverflow(c.Overflow); err != nil {
		errs = append(errs, err)
	}
	if c.MaxFileSize != nil && *c.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("max_file_size must not be negative: %d", *c.MaxFileSize))
	}
	if c.MaxBackups != nil && *c.MaxBackups < 0 {
		errs = append(errs, fmt.Errorf("max_backups must not be negative: %d", *c.MaxBackups))
	}
	return errors.Join(errs...)
}

// Options overlays the set fields of c on DefaultOptions.
func (c *Config) Options() (Options, error) {
	opts := DefaultOptions()
	if err := c.Validate(); err != nil {
		return opts, err
	}

	if c.Name != "" {
		opts.Name = c.Name
	}
	opts.Filename = c.Filename
	if c.Level != "" {
		opts.Level, _ = ParseLevel(c.Level)
	}
	if c.Console != nil {
		opts.Console = *c.Console
	}
	if c.Verbose != nil {
		opts.Verbose = *c.Verbose
	}
	if c.MaxFileSize != nil {
		opts.MaxFileSize = *c.MaxFileSize
	}
	if c.MaxBackups != nil {
		opts.MaxBackups = *c.MaxBackups
	}
	if c.Format != "" {
		opts.Format = c.Format
	}
	if c.UTC != nil {
		opts.UTC = *c.UTC
	}
	if c.QueueSize != nil {
		opts.QueueSize = *c.QueueSize
	}
	opts.Overflow, _ = ParseOverflow(c.Overflow)
	return opts, nil
}
