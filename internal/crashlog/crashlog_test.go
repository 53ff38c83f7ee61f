package crashlog

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*os.File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crash.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f, path
}

func TestWrite_Line(t *testing.T) {
	f, path := openTemp(t)
	w := New(f)

	before := time.Now().Unix()
	require.NoError(t, w.Write("received interrupt"))
	require.NoError(t, w.Write("second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	fields := strings.SplitN(lines[0], " ", 3)
	require.Len(t, fields, 3)
	assert.Equal(t, "[CRASH]", fields[0])
	ts, err := strconv.ParseInt(fields[1], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ts, before)
	assert.Equal(t, "received interrupt", fields[2])
	assert.True(t, strings.HasSuffix(lines[1], " second"))
}

func TestWrite_TruncatesLongMessages(t *testing.T) {
	f, path := openTemp(t)
	w := New(f)

	require.NoError(t, w.Write(strings.Repeat("x", 4*bufSize)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, bufSize)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestWrite_ClosedFile(t *testing.T) {
	f, _ := openTemp(t)
	require.NoError(t, f.Close())

	assert.Error(t, New(f).Write("lost"))
}

func TestNew_DefaultsToStderr(t *testing.T) {
	assert.Equal(t, os.Stderr, New(nil).f)
}
