package log

import (
	"fmt"
	"io"
	"os"
)

// sinkConfig is the snapshot of settings the writer takes under the config
// lock for one record.
type sinkConfig struct {
	filename string
	console  bool
	rotator  Rotator
	stdout   io.Writer
}

// sinkResult tells the logger what happened to one record.
type sinkResult struct {
	written  bool
	rotated  bool
	failures []error
}

// sink owns the log file handle. It is only ever touched by the writer
// goroutine, so it needs no lock of its own.
type sink struct {
	file *os.File
	path string
	size int64

	// target is the configured filename; opened is set once it was opened
	// successfully. Open failures before that are configuration errors.
	target string
	opened bool
}

// write appends line to the file, rotating first when the file is full, and
// echoes it to the console. A file failure drops the record for the file but
// never the console echo.
func (s *sink) write(cfg sinkConfig, line []byte) (res sinkResult) {
	defer func() {
		if cfg.console && cfg.stdout != nil {
			_, _ = cfg.stdout.Write(line)
		}
	}()

	if cfg.filename == "" {
		s.close()
		s.target, s.opened = "", false
		return res
	}

	if s.target != cfg.filename {
		s.close()
		s.target, s.opened = cfg.filename, false
	}

	if s.file == nil {
		if err := s.open(cfg.filename); err != nil {
			res.failures = append(res.failures, err)
			return res
		}
	}

	if cfg.rotator.ShouldRotate(s.size) {
		s.close()
		if err := cfg.rotator.Rotate(cfg.filename); err != nil {
			// keep appending to the oversized file
			res.failures = append(res.failures, err)
		} else {
			res.rotated = true
		}
		if err := s.open(cfg.filename); err != nil {
			res.failures = append(res.failures, err)
			return res
		}
	}

	n, err := s.file.Write(line)
	s.size += int64(n)
	if err == nil && n != len(line) {
		err = fmt.Errorf("wrote %d bytes out of %d bytes", n, len(line))
	}
	if err == nil {
		err = s.file.Sync()
	}
	if err != nil {
		res.failures = append(res.failures, &Failure{Kind: KindWrite, Path: s.path, Err: err})
		s.close()
		return res
	}

	res.written = true
	return res
}

func (s *sink) open(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		var fi os.FileInfo
		fi, err = f.Stat()
		if err != nil {
			f.Close()
		} else {
			s.file, s.path, s.size, s.opened = f, path, fi.Size(), true
			return nil
		}
	}

	kind := KindWrite
	if !s.opened {
		kind = KindConfiguration
	}
	return &Failure{Kind: kind, Path: path, Err: err}
}

func (s *sink) close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.path = ""
	s.size = 0
	return err
}
