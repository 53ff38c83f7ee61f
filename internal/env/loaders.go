package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/lattesec/log"
	"github.com/mocondi/logger/internal/helpers/mirror"
)

// Configurable is a config struct pointer that can check itself once every
// file was merged.
type Configurable interface {
	Validate() error
}

func MustFn[T any](fn func(T) error, err error) func(T) error {
	if err != nil {
		panic(err)
	}
	return fn
}

// FromYAML returns a loader for one explicit file. pth may name the .yml or
// .yaml file or leave the extension off, in which case both are tried. A
// missing file is not an error.
func FromYAML[T Configurable](pth string) (func(T) error, error) {
	base, err := trimConfigExt(pth)
	if err != nil {
		return nil, err
	}

	return func(cfg T) error {
		if err := mergeYAML(cfg, base); err != nil {
			return err
		}
		return cfg.Validate()
	}, nil
}

// FromYAMLConfigs is FromYAML for filename in every config directory.
func FromYAMLConfigs[T Configurable](filename string) (func(T) error, error) {
	base, err := trimConfigExt(filepath.Base(filename))
	if err != nil {
		return nil, err
	}

	return func(cfg T) error {
		for _, dir := range resolvePaths() {
			if err := mergeYAML(cfg, filepath.Join(dir, base)); err != nil {
				return err
			}
		}
		return cfg.Validate()
	}, nil
}

func trimConfigExt(pth string) (string, error) {
	pth = filepath.Clean(pth)
	if pth == "." {
		return "", ErrInvalidConfigFilename
	}

	if ext := filepath.Ext(pth); ext != "" {
		if ext != ".yaml" && ext != ".yml" {
			log.Warn().
				WithMeta("scope", "env").
				WithMeta("path", pth).
				Msg("invalid config extension").Send()
			return "", ErrInvalidConfigFilename
		}
		pth = strings.TrimSuffix(pth, ext)
	}
	return pth, nil
}

func mergeYAML[T any](cfg T, base string) error {
	for _, ext := range [2]string{".yml", ".yaml"} {
		cfgPath := base + ext

		data, err := os.ReadFile(cfgPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Error().
				WithMeta("scope", "env").
				WithMeta("path", cfgPath).
				Msgf("failed to read config file: %v", err).Send()
			return err
		}

		tmp := mirror.Fresh[T]()
		if err := yaml.Unmarshal(data, tmp); err != nil {
			log.Warn().
				WithMeta("scope", "env").
				WithMeta("path", cfgPath).
				Msgf("failed to parse: %v", err).Send()

			log.Debug().
				WithMeta("scope", "env").
				WithMeta("path", cfgPath).
				WithMeta("data", string(data)).
				Msgf("failed to parse: %v", err).Send()

			return fmt.Errorf("failed to parse config from %s: %w", cfgPath, err)
		}

		if err := mergo.Merge(cfg, tmp, mergeOpts...); err != nil {
			return fmt.Errorf("failed to merge config from %s: %w", cfgPath, err)
		}

		log.Info().
			WithMeta("scope", "env").
			WithMeta("path", cfgPath).
			Msgf("loaded config from %s", cfgPath).Send()
	}
	return nil
}
