package config

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/arthur-debert/skeletor/pkg/binary"
	"github.com/arthur-debert/skeletor/pkg/errors"
)

// Config is the full set of tool settings.
type Config struct {
	Apply    Apply    `koanf:"apply" toml:"apply"`
	Snapshot Snapshot `koanf:"snapshot" toml:"snapshot"`
	Output   Output   `koanf:"output" toml:"output"`
}

// Apply settings.
type Apply struct {
	DefaultConfig string `koanf:"default_config" toml:"default_config"`
	ProgressEvery int    `koanf:"progress_every" toml:"progress_every"`
	DirMode       Mode   `koanf:"dir_mode" toml:"dir_mode"`
	FileMode      Mode   `koanf:"file_mode" toml:"file_mode"`
}

// Snapshot settings.
type Snapshot struct {
	IncludeContents bool     `koanf:"include_contents" toml:"include_contents"`
	SniffBytes      int      `koanf:"sniff_bytes" toml:"sniff_bytes"`
	BinaryRatio     float64  `koanf:"binary_ratio" toml:"binary_ratio"`
	DefaultIgnore   []string `koanf:"default_ignore" toml:"default_ignore"`
	FollowSymlinks  bool     `koanf:"follow_symlinks" toml:"follow_symlinks"`
	IncludeHidden   bool     `koanf:"include_hidden" toml:"include_hidden"`
}

// Output settings.
type Output struct {
	Format       string `koanf:"format" toml:"format"`
	PreviewLimit int    `koanf:"preview_limit" toml:"preview_limit"`
}

// Classifier returns the binary classifier the snapshot settings describe.
func (s Snapshot) Classifier() binary.Classifier {
	return binary.Classifier{SniffLen: s.SniffBytes, MaxSuspiciousRatio: s.BinaryRatio}
}

// Mode is a permission value written in octal, such as "0755".
type Mode fs.FileMode

// ParseMode reads an octal permission string.
func ParseMode(s string) (Mode, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	return Mode(v), nil
}

// Perm returns the permission bits.
func (m Mode) Perm() fs.FileMode {
	return fs.FileMode(m).Perm()
}

func (m Mode) String() string {
	return fmt.Sprintf("%04o", uint32(m.Perm()))
}

// MarshalText writes the mode in octal.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

var validFormats = map[string]bool{
	"auto": true, "term": true, "terminal": true, "text": true, "plain": true, "json": true,
}

// Validate checks values the loaders cannot type-check.
func (c *Config) Validate() error {
	switch {
	case c.Apply.DefaultConfig == "":
		return invalid("apply.default_config", "must not be empty")
	case c.Apply.ProgressEvery <= 0:
		return invalid("apply.progress_every", "must be positive")
	case c.Apply.DirMode == 0 || c.Apply.FileMode == 0:
		return invalid("apply.dir_mode", "modes must be non-zero")
	case c.Snapshot.SniffBytes <= 0:
		return invalid("snapshot.sniff_bytes", "must be positive")
	case c.Snapshot.BinaryRatio <= 0 || c.Snapshot.BinaryRatio > 1:
		return invalid("snapshot.binary_ratio", "must be in (0, 1]")
	case !validFormats[strings.ToLower(c.Output.Format)]:
		return invalid("output.format", fmt.Sprintf("unknown format %q", c.Output.Format))
	case c.Output.PreviewLimit <= 0:
		return invalid("output.preview_limit", "must be positive")
	}
	return nil
}

func invalid(key, msg string) error {
	return errors.Newf(errors.ErrConfigValid, "setting %s %s", key, msg).WithDetail("key", key)
}
