// Package config handles intcode.toml run configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config describes a single run of the machine.
type Config struct {
	Program string `toml:"program"` // Comma separated image file.
	Source  string `toml:"source"`  // Assembly source file.
	Input   string `toml:"input"`   // Tape input, '-' for stdin.
	Output  string `toml:"output"`  // Tape output, '-' for stdout.
	Verbose bool   `toml:"verbose"` // Verbose tracing.
	Strict  bool   `toml:"strict"`  // Reject immediate mode write destinations.

	// Dir is the directory containing the configuration file (set at load time).
	Dir string `toml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input:  "-",
		Output: "-",
	}
}

// Load parses a configuration file. Relative file names in the
// configuration are resolved against the directory of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("unknown key %v in %s", undecoded[0], path)
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.Program = c.resolve(c.Program)
	c.Source = c.resolve(c.Source)
	c.Input = c.resolve(c.Input)
	c.Output = c.resolve(c.Output)

	return c, nil
}

// resolve a file name relative to the configuration directory.
func (c *Config) resolve(name string) string {
	if name == "" || name == "-" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// Merge overrides the configuration with every non-zero field of other.
func (c *Config) Merge(other *Config) {
	if other.Program != "" {
		c.Program = other.Program
	}
	if other.Source != "" {
		c.Source = other.Source
	}
	if other.Input != "" {
		c.Input = other.Input
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	c.Verbose = c.Verbose || other.Verbose
	c.Strict = c.Strict || other.Strict
}

// Validate checks that exactly one program source is configured.
func (c *Config) Validate() error {
	switch {
	case c.Program == "" && c.Source == "":
		return fmt.Errorf("no program or source configured")
	case c.Program != "" && c.Source != "":
		return fmt.Errorf("both program %s and source %s configured", c.Program, c.Source)
	}
	return nil
}
