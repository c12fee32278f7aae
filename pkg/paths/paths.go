package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/mitchellh/go-homedir"
)

// Environment variable names
const (
	EnvConfigDir = "SKELETOR_CONFIG_DIR"
	EnvStateDir  = "SKELETOR_STATE_DIR"
)

// Default directories and files
const (
	AppDirName     = "skeletor"
	ConfigFileName = "config.toml"
	LogFileName    = "skeletor.log"

	// DefaultConfigFile is the declarative file apply reads when none is
	// given.
	DefaultConfigFile = ".skeletorrc"
)

// ExpandHome expands a leading "~" to the home directory. Paths it cannot
// expand are returned unchanged.
func ExpandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Resolve expands "~" and returns an absolute, clean path.
func Resolve(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", path).
			WithDetail("path", path)
	}
	return abs, nil
}

// ValidatePath rejects paths that cannot name anything.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes").
			WithDetail("path", path)
	}
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}
	return nil
}

// ContainsPath reports whether child is parent or lies below it.
func ContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ConfigDir returns the directory holding the settings file.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFile returns the path of the user settings file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns the directory holding logs.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return ExpandHome(dir)
	}
	xdg.Reload()
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}
