package env

import (
	"os"
	"path/filepath"
)

const (
	SIELOG_CONFIG_DIR_NAME = "sielog"

	SIELOG_CONFIG_DIR_ENV = "SIELOG_CONFIG_DIR"
	SIELOG_CWD_CONFIG_DIR = ".sielog"
)

// In increasing priority order
//
// Check in these locations:
// /etc/sielog/
// $XDG_CONFIG_HOME/sielog/ OR $HOME/.config/sielog/
// ./.sielog/
// $SIELOG_CONFIG_DIR/
func resolvePaths() []string {
	paths := []string{filepath.Join("/etc/", SIELOG_CONFIG_DIR_NAME)}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(cfgDir, SIELOG_CONFIG_DIR_NAME))
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, SIELOG_CWD_CONFIG_DIR))
	}

	if p := os.Getenv(SIELOG_CONFIG_DIR_ENV); p != "" {
		paths = append(paths, p)
	}

	return paths
}
