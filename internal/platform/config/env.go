// Package config loads process configuration from TOML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// ParseEnvFrom loads configuration from environ. Callers pass the process
// environment explicitly when they want it.
func ParseEnvFrom(target any, environ map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadFile decodes the TOML file at path into target. Keys that do not map to
// a field are rejected.
func LoadFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	md, err := toml.Decode(string(data), target)
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}
