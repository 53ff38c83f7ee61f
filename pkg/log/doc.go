// Package log is an asynchronous logger that writes one ordered stream of
// records to a size-rotated file and, optionally, the console.
//
// Callers on any goroutine format their record synchronously and hand it to
// a queue; a single writer goroutine owns the file, rotates it into the
// backup chain (path, path.1, path.2, ...) and flushes every line.
//
// Usage:
//
//	opts := log.DefaultOptions()
//	opts.Filename = "app.log"
//	opts.Level = log.WARNING
//	l := log.New(opts)
//	defer l.Stop()
//
//	l.Errorf("disk %s is full", dev)
//	l.Log(log.NewLogMessage(log.INFO, "ready").WithMeta("port", 8080))
//
// Records are written in the order the queue admitted them. Stop drains
// everything queued before it returns; a stopped logger rejects new records
// with ErrLoggerStopped and cannot be restarted.
package log
