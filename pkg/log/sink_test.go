package log

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line returns a 10 byte line "line-NNNN\n".
func line(n int) []byte {
	return []byte(fmt.Sprintf("line-%04d\n", n))
}

func TestSink_AppendsAndFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeFile(t, path, "existing\n")

	var s sink
	defer s.close()
	cfg := sinkConfig{filename: path}

	res := s.write(cfg, line(1))
	assert.True(t, res.written)
	assert.Empty(t, res.failures)

	// visible without closing the handle
	assert.Equal(t, "existing\nline-0001\n", readFile(t, path))
	assert.Equal(t, int64(19), s.size)
}

func TestSink_RotatesOncePerCrossing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var s sink
	defer s.close()
	cfg := sinkConfig{filename: path, rotator: Rotator{MaxSize: 25, MaxBackups: 3}}

	// 10, 20, 30 bytes: the third write crosses the threshold
	for i := 1; i <= 3; i++ {
		res := s.write(cfg, line(i))
		assert.False(t, res.rotated, "write %d", i)
	}
	assert.NoFileExists(t, BackupName(path, 1))

	res := s.write(cfg, line(4))
	assert.True(t, res.rotated)
	assert.Equal(t, "line-0001\nline-0002\nline-0003\n", readFile(t, BackupName(path, 1)))
	assert.Equal(t, "line-0004\n", readFile(t, path))

	res = s.write(cfg, line(5))
	assert.False(t, res.rotated, "a fresh file must not rotate again")
}

func TestSink_MaxBackupsScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var s sink
	defer s.close()
	cfg := sinkConfig{filename: path, rotator: Rotator{MaxSize: 100, MaxBackups: 2}}

	rotations := 0
	for i := 0; rotations < 3; i++ {
		require.Less(t, i, 1000)
		if s.write(cfg, line(i)).rotated {
			rotations++
		}
	}

	assert.FileExists(t, path)
	assert.FileExists(t, BackupName(path, 1))
	assert.FileExists(t, BackupName(path, 2))
	assert.NoFileExists(t, BackupName(path, 3))
}

func TestSink_ZeroBackupsStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var s sink
	defer s.close()
	cfg := sinkConfig{filename: path, rotator: Rotator{MaxSize: 15, MaxBackups: 0}}

	s.write(cfg, line(1))
	s.write(cfg, line(2))
	res := s.write(cfg, line(3))

	assert.True(t, res.rotated)
	assert.Equal(t, "line-0003\n", readFile(t, path))
	assert.NoFileExists(t, BackupName(path, 1))
}

func TestSink_RotationFailureKeepsAppending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.MkdirAll(filepath.Join(BackupName(path, 1), "x"), 0755))

	var s sink
	defer s.close()
	cfg := sinkConfig{filename: path, rotator: Rotator{MaxSize: 5, MaxBackups: 1}}

	s.write(cfg, line(1))
	res := s.write(cfg, line(2))

	require.Len(t, res.failures, 1)
	assert.True(t, IsKind(res.failures[0], KindRotation))
	assert.True(t, res.written)
	assert.False(t, res.rotated)
	assert.Equal(t, "line-0001\nline-0002\n", readFile(t, path))
}

func TestSink_OpenFailureThenRecovery(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	path := filepath.Join(dir, "app.log")

	var s sink
	defer s.close()
	cfg := sinkConfig{filename: path}

	res := s.write(cfg, line(1))
	assert.False(t, res.written)
	require.Len(t, res.failures, 1)
	assert.True(t, IsKind(res.failures[0], KindConfiguration))

	require.NoError(t, os.Mkdir(dir, 0755))

	res = s.write(cfg, line(2))
	assert.True(t, res.written)
	assert.Empty(t, res.failures)
	assert.Equal(t, "line-0002\n", readFile(t, path))
}

func TestSink_LaterOpenFailureIsWriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "app.log")

	var s sink
	defer s.close()
	// rotation closes the handle and reopens, which fails once dir is gone
	cfg := sinkConfig{filename: path, rotator: Rotator{MaxSize: 5, MaxBackups: 0}}

	require.True(t, s.write(cfg, line(1)).written)
	require.NoError(t, os.RemoveAll(dir))

	res := s.write(cfg, line(2))
	assert.False(t, res.written)
	require.NotEmpty(t, res.failures)
	assert.True(t, IsKind(res.failures[len(res.failures)-1], KindWrite))
}

func TestSink_ConsoleEchoIndependentOfFile(t *testing.T) {
	var console bytes.Buffer
	var s sink
	defer s.close()

	cfg := sinkConfig{
		filename: filepath.Join(t.TempDir(), "missing", "app.log"),
		console:  true,
		stdout:   &console,
	}

	res := s.write(cfg, line(1))
	assert.NotEmpty(t, res.failures)
	assert.Equal(t, "line-0001\n", console.String())
}

func TestSink_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	var s sink

	res := s.write(sinkConfig{console: true, stdout: &console}, line(7))
	assert.False(t, res.written)
	assert.Empty(t, res.failures)
	assert.Equal(t, "line-0007\n", console.String())
	assert.Nil(t, s.file)
}

func TestSink_SwitchesFile(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")

	var s sink
	defer s.close()
	s.write(sinkConfig{filename: a}, line(1))
	s.write(sinkConfig{filename: b}, line(2))

	assert.Equal(t, "line-0001\n", readFile(t, a))
	assert.Equal(t, "line-0002\n", readFile(t, b))
	assert.True(t, strings.HasSuffix(s.path, "b.log"))
}
