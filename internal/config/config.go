package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bamsammich/fspro/internal/filter"
)

// Config represents the optional fspro configuration file.
type Config struct {
	Pack     PackConfig     `toml:"pack"`
	Transfer TransferConfig `toml:"transfer"`
}

// PackConfig holds defaults for the pack and unpack commands.
type PackConfig struct {
	Level    *int     `toml:"level"`
	BWLimit  *string  `toml:"bwlimit"`
	Includes []string `toml:"includes"`
	Excludes []string `toml:"excludes"`
}

// TransferConfig holds defaults for the transfer command.
type TransferConfig struct {
	Includes []string `toml:"includes"`
	Excludes []string `toml:"excludes"`
}

// Filter returns the configured names as filter options.
func (c PackConfig) Filter() filter.Options {
	return filter.Options{Includes: c.Includes, Excludes: c.Excludes}
}

// Filter returns the configured names as filter options.
func (c TransferConfig) Filter() filter.Options {
	return filter.Options{Includes: c.Includes, Excludes: c.Excludes}
}

// BWLimitBytes parses BWLimit. It returns 0 when unset.
func (c PackConfig) BWLimitBytes() (int64, error) {
	if c.BWLimit == nil {
		return 0, nil
	}
	n, err := filter.ParseSize(*c.BWLimit)
	if err != nil {
		return 0, fmt.Errorf("pack.bwlimit: %w", err)
	}
	return n, nil
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "fspro", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. A missing file yields a zero
// Config; unknown keys are rejected so typos do not go unnoticed.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
