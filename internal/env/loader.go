package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/lattesec/log"
	"github.com/mocondi/logger/internal/helpers/mirror"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfigFilename = errors.New("invalid config filename")
	validConfigExtensions    = []string{".yaml", ".yml"}
)

// mergeOpts lets a later file override single fields. Pointer fields are
// copied as pointers, so an explicit `false` or `0` wins over an earlier
// value.
var mergeOpts = []func(*mergo.Config){mergo.WithOverride, mergo.WithoutDereference}

type Loader struct {
	paths []string
}

func NewLoader() *Loader {
	return NewLoaderWithPaths(resolvePaths()...)
}

// NewLoaderWithPaths searches only the given directories, lowest priority
// first.
func NewLoaderWithPaths(paths ...string) *Loader {
	log.Debug().
		WithMeta("scope", "env").
		Msgf("using config paths: %s", strings.Join(paths, ", ")).Send()

	return &Loader{paths}
}

func (l *Loader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// Load merges every <filename>.yaml and <filename>.yml found in the search
// paths into out (struct pointer). Fields absent from all files keep the
// value out already had. It returns the files that were merged.
//
// Usage:
//
//	l := NewLoader()
//	l.Load("sielog", &config)
func (l *Loader) Load(filename string, out any) ([]string, error) {
	if err := mirror.IsStructPointer(out); err != nil {
		return nil, err
	}

	filename = filepath.Base(filename)
	for _, ext := range validConfigExtensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	if filename == "." || filename == "" || filename == string(filepath.Separator) {
		return nil, ErrInvalidConfigFilename
	}

	var loaded []string
	for _, dir := range l.paths {
		for _, ext := range validConfigExtensions {
			cfgPath := filepath.Join(dir, filename+ext)

			data, err := os.ReadFile(cfgPath)
			if err != nil {
				if os.IsNotExist(err) {
					log.Debug().
						WithMeta("scope", "env").
						WithMeta("path", cfgPath).
						Msg("not found").Send()
					continue
				}

				log.Error().
					WithMeta("scope", "env").
					WithMeta("path", cfgPath).
					Msgf("failed to read config file: %v", err).Send()

				return loaded, err
			}

			tmp := mirror.NewLike(out)
			if err := yaml.Unmarshal(data, tmp); err != nil {
				log.Warn().
					WithMeta("scope", "env").
					WithMeta("path", cfgPath).
					Msgf("failed to parse: %v", err).Send()

				return loaded, fmt.Errorf("failed to parse config from %s: %w", cfgPath, err)
			}

			if err := mergo.Merge(out, tmp, mergeOpts...); err != nil {
				log.Warn().
					WithMeta("scope", "env").
					WithMeta("path", cfgPath).
					Msgf("failed to merge config: %v", err).Send()

				return loaded, fmt.Errorf("failed to merge config from %s: %w", cfgPath, err)
			}

			loaded = append(loaded, cfgPath)
			log.Info().
				WithMeta("scope", "env").
				WithMeta("path", cfgPath).
				Msgf("loaded config from %s", cfgPath).Send()
		}
	}

	log.Debug().WithMeta("scope", "env").Msgf("config loaded: %#v", out).Send()
	return loaded, nil
}
