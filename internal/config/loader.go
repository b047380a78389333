// Package config loads the jsonpatch command configuration from struct
// defaults, an optional YAML file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Loader layers configuration sources into one koanf tree. Each Load call
// overrides the keys set by earlier ones, so callers load in increasing
// precedence: defaults, file, environment, flags.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
}

// NewLoader returns a Loader reading variables named envPrefix + "__" + key,
// with "__" separating nested keys: JSONPATCH__LOG__LEVEL sets log.level.
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		k:         koanf.New("."),
		envPrefix: envPrefix + "__",
	}
}

// LoadDefaults loads the koanf-tagged fields of defaults.
func (l *Loader) LoadDefaults(defaults any) error {
	if err := l.k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	return nil
}

// LoadFile loads a YAML configuration file. An empty path is skipped; a
// path that does not exist is an error.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file not found: %s", path)
	}
	if err := l.k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads the variables carrying the loader's prefix.
func (l *Loader) LoadEnv() error {
	provider := env.Provider(l.envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, l.envPrefix)), "__", ".")
	})
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// LoadFlags applies the flags the user set explicitly. mappings goes from
// flag name to configuration key; a key starting with "!" takes the negation
// of a boolean flag, so "no-color" can map to "!output.color".
func (l *Loader) LoadFlags(flags *pflag.FlagSet, mappings map[string]string) error {
	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := mappings[f.Name]
		if !ok {
			return
		}
		var value any = f.Value.String()
		if negated, found := strings.CutPrefix(key, "!"); found {
			b, err := strconv.ParseBool(f.Value.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
				return
			}
			key, value = negated, !b
		}
		if err := l.k.Set(key, value); err != nil {
			errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Unmarshal decodes the merged configuration under path into out.
func (l *Loader) Unmarshal(path string, out any) error {
	return l.k.Unmarshal(path, out)
}
