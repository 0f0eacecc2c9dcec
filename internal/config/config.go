// Package config handles mathc.toml driver configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = "mathc.toml"

// Config represents a mathc.toml file.
type Config struct {
	Emit      Emit      `toml:"emit"`
	Toolchain Toolchain `toml:"toolchain"`
	Log       Log       `toml:"log"`
}

// Emit selects what the compiler driver produces.
type Emit struct {
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// Toolchain names the external tools used to build objects and binaries.
type Toolchain struct {
	LLC    string   `toml:"llc"`
	CC     string   `toml:"cc"`
	CFlags []string `toml:"cflags"`
}

type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()

	return c
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	return Parse(path, data)
}

func Parse(path string, data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.applyDefaults()

	return &c, nil
}

// FindAndLoad walks up from startDir looking for mathc.toml. Without one it
// returns Default.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Emit.Mode == "" {
		c.Emit.Mode = "binary"
	}

	if c.Emit.Output == "" {
		c.Emit.Output = "a.out"
	}

	if c.Toolchain.LLC == "" {
		c.Toolchain.LLC = "llc"
	}

	if c.Toolchain.CC == "" {
		c.Toolchain.CC = "cc"
	}
}
