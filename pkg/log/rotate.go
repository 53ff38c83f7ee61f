package log

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

// Rotator decides when the active log file is full and shifts it into the
// numbered backup chain: path.1 is always the most recently rotated file and
// at most MaxBackups backups are kept.
//
// With MaxBackups == 0 rotation deletes the active file so that a fresh one
// is started and no generation is retained.
type Rotator struct {
	MaxSize    int64 // bytes; <= 0 disables rotation
	MaxBackups int
}

// ShouldRotate is checked before every write with the active file's size.
func (r Rotator) ShouldRotate(size int64) bool {
	return r.MaxSize > 0 && size >= r.MaxSize
}

// BackupName returns the name of the n-th backup of path.
func BackupName(path string, n int) string {
	return path + "." + strconv.Itoa(n)
}

// Rotate moves path into the backup chain. The file must not be held open
// by the caller. On error path is left in place when possible, so the caller
// can keep appending to it.
func (r Rotator) Rotate(path string) error {
	if r.MaxBackups <= 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &Failure{Kind: KindRotation, Path: path, Err: err}
		}
		return r.prune(path, 1)
	}

	// shift from the oldest down so no retained backup is overwritten; the
	// rename onto path.MaxBackups evicts the oldest one
	for n := r.MaxBackups; n >= 2; n-- {
		src := BackupName(path, n-1)
		if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.Rename(src, BackupName(path, n)); err != nil {
			return &Failure{Kind: KindRotation, Path: src, Err: err}
		}
	}

	if err := os.Rename(path, BackupName(path, 1)); err != nil {
		return &Failure{Kind: KindRotation, Path: path, Err: err}
	}

	return r.prune(path, r.MaxBackups+1)
}

// prune removes backups numbered from first upwards, left over from a larger
// MaxBackups setting.
func (r Rotator) prune(path string, first int) error {
	for n := first; ; n++ {
		name := BackupName(path, n)
		if _, err := os.Lstat(name); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err := os.Remove(name); err != nil {
			return &Failure{Kind: KindRotation, Path: name, Err: fmt.Errorf("prune backup: %w", err)}
		}
	}
}
