package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParseOverflow(t *testing.T) {
	tests := []struct {
		in   string
		want OverflowPolicy
	}{
		{"", OverflowBlock},
		{"block", OverflowBlock},
		{" Drop_Newest ", OverflowDropNewest},
		{"drop", OverflowDropNewest},
		{"drop_oldest", OverflowDropOldest},
	}
	for _, tt := range tests {
		got, err := ParseOverflow(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOverflow("spill")
	assert.ErrorIs(t, err, ErrInvalidOverflow)
}

func TestConfig_OptionsOverlaysDefaults(t *testing.T) {
	c := Config{
		Filename:   "/var/log/app.log",
		Level:      "debug",
		Console:    ptr(true),
		MaxBackups: ptr(0),
		Overflow:   "drop_oldest",
	}

	opts, err := c.Options()
	require.NoError(t, err)

	assert.Equal(t, DefaultName, opts.Name)
	assert.Equal(t, "/var/log/app.log", opts.Filename)
	assert.Equal(t, DEBUG, opts.Level)
	assert.True(t, opts.Console)
	assert.False(t, opts.Verbose)
	assert.Equal(t, 0, opts.MaxBackups, "explicit zero must survive")
	assert.Equal(t, int64(DefaultMaxFileSize), opts.MaxFileSize)
	assert.Equal(t, DefaultFormat, opts.Format)
	assert.Equal(t, DefaultQueueSize, opts.QueueSize)
	assert.Equal(t, OverflowDropOldest, opts.Overflow)
}

func TestConfig_ValidateCollectsEveryError(t *testing.T) {
	c := Config{
		Level:       "loud",
		Overflow:    "spill",
		MaxFileSize: ptr(int64(-1)),
		MaxBackups:  ptr(-2),
	}

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLevel)
	assert.ErrorIs(t, err, ErrInvalidOverflow)
	assert.Contains(t, err.Error(), "max_file_size")
	assert.Contains(t, err.Error(), "max_backups")

	_, err = c.Options()
	assert.Error(t, err)
}

func TestOptions_Normalize(t *testing.T) {
	opts := Options{Level: Level(-5), MaxBackups: -1}
	opts.normalize()

	assert.Equal(t, DefaultName, opts.Name)
	assert.Equal(t, DefaultFormat, opts.Format)
	assert.Equal(t, INFO, opts.Level)
	assert.Equal(t, 0, opts.MaxBackups)
	assert.NotNil(t, opts.Stdout)
	assert.NotNil(t, opts.Stderr)
}
