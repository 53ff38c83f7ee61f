// Command sielog-demo logs from several goroutines at once and leaves the
// result in a rotating log file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lattesec/log"
	"github.com/mocondi/logger/internal/env"
	"github.com/mocondi/logger/internal/helpers/cleanup"
	sielog "github.com/mocondi/logger/pkg/log"
)

const defaultLogFile = "logTest.log"

type flags struct {
	config  string
	file    string
	threads int
}

func parseFlags(args []string, output io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("sielog-demo", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.config, "config", "", "explicit YAML config file, applied after the search paths")
	fs.StringVar(&f.file, "file", "", "log file, overrides the config")
	fs.IntVar(&f.threads, "threads", 5, "number of logging goroutines")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.threads < 1 {
		return f, fmt.Errorf("threads must be positive: %d", f.threads)
	}
	return f, nil
}

// loadOptions layers the config search paths, the explicit file and the
// flags, in that order.
func loadOptions(f flags, loader *env.Loader) (sielog.Options, error) {
	var cfg sielog.Config
	if _, err := loader.Load(sielog.DefaultName, &cfg); err != nil {
		return sielog.Options{}, err
	}

	if f.config != "" {
		load, err := env.FromYAML[*sielog.Config](f.config)
		if err != nil {
			return sielog.Options{}, err
		}
		if err := load(&cfg); err != nil {
			return sielog.Options{}, err
		}
	}

	if cfg.Console == nil {
		console := true
		cfg.Console = &console
	}

	opts, err := cfg.Options()
	if err != nil {
		return opts, err
	}
	if f.file != "" {
		opts.Filename = f.file
	}
	if opts.Filename == "" {
		opts.Filename = defaultLogFile
	}
	return opts, nil
}

func worker(l *sielog.Logger, id int) {
	l.SetVerbose(true)

	l.Infof("Thread %d started.", id)
	l.Debugf("Thread %d is running.", id)
	l.Warnf("Thread %d encountered a minor issue.", id)
	l.Errorf("Thread %d encountered an error.", id)
	l.Infof("Thread %d finished.", id)
}

func runThreads(l *sielog.Logger, n int) {
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(l, id)
		}(i)
	}
	wg.Wait()
}

func run(f flags, opts sielog.Options) error {
	l := sielog.New(opts)
	id := cleanup.Register(func() error {
		l.Stop()
		return nil
	})
	defer cleanup.Unregister(id)

	if err := l.Start(); err != nil {
		return err
	}

	log.Info().
		WithMeta("scope", "demo").
		WithMetaf("threads", "%d", f.threads).
		Msg("starting thread test").Send()
	runThreads(l, f.threads)

	l.SetVerbose(false)
	l.Info("This log will not include file or function info")

	l.Stop()

	st := l.Stats()
	log.Info().
		WithMeta("scope", "demo").
		WithMetaf("written", "%d", st.Written).
		WithMetaf("filtered", "%d", st.Filtered).
		WithMetaf("rotations", "%d", st.Rotations).
		Msgf("finished, check the log file: %s", opts.Filename).Send()

	if st.WriteFailures > 0 || st.RotationFailures > 0 {
		return fmt.Errorf("%d write and %d rotation failures", st.WriteFailures, st.RotationFailures)
	}
	return nil
}

func main() {
	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	opts, err := loadOptions(f, env.NewLoader())
	if err != nil {
		log.Error().
			WithMeta("scope", "demo").
			Msgf("failed to load config: %v", err).Send()
		os.Exit(1)
	}

	go cleanup.Listen()

	if err := run(f, opts); err != nil {
		log.Error().
			WithMeta("scope", "demo").
			Msgf("%v", err).Send()
		os.Exit(1)
	}
}
