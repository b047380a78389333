package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "JSONPATCH"

// Config is the jsonpatch command configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Diff   DiffConfig   `koanf:"diff"`
	Output OutputConfig `koanf:"output"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `koanf:"level"`
	// Format is the log output format (json, text).
	Format    string `koanf:"format"`
	AddSource bool   `koanf:"add_source"`
}

// DiffConfig controls how documents are compared.
type DiffConfig struct {
	// Arrays is "index" or "lcs".
	Arrays string `koanf:"arrays"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	// Format is json, yaml or text. text is only meaningful for diff.
	Format string `koanf:"format"`
	Color  bool   `koanf:"color"`
	// Indent is the number of spaces used to indent JSON output; 0 prints
	// compact JSON.
	Indent int `koanf:"indent"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Log:    LogConfig{Level: "warn", Format: "text"},
		Diff:   DiffConfig{Arrays: "index"},
		Output: OutputConfig{Format: "json", Color: true, Indent: 2},
	}
}

// FlagMappings maps command-line flag names to configuration keys.
var FlagMappings = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"arrays":     "diff.arrays",
	"output":     "output.format",
	"indent":     "output.indent",
	"no-color":   "!output.color",
}

// Load builds the configuration from defaults, the optional YAML file at
// configPath, JSONPATCH__* environment variables and the flags set in flags,
// each overriding the one before.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	loader := NewLoader(EnvPrefix)
	if err := loader.LoadDefaults(Defaults()); err != nil {
		return nil, err
	}
	if err := loader.LoadFile(configPath); err != nil {
		return nil, err
	}
	if err := loader.LoadEnv(); err != nil {
		return nil, err
	}
	if flags != nil {
		if err := loader.LoadFlags(flags, FlagMappings); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := loader.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return &cfg, nil
}

// Validate checks every enumerated setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	errs.mustBeOneOf("log.level", strings.ToLower(c.Log.Level), "debug", "info", "warn", "error")
	errs.mustBeOneOf("log.format", c.Log.Format, "json", "text")
	errs.mustBeOneOf("diff.arrays", c.Diff.Arrays, "index", "lcs")
	errs.mustBeOneOf("output.format", c.Output.Format, "json", "yaml", "text")
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		errs = append(errs, &FieldError{Field: "output.indent", Message: "must be between 0 and 8"})
	}
	return errs.OrNil()
}

// FieldError is a validation error for one configuration key.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []*FieldError

func (ve ValidationErrors) Error() string {
	var b strings.Builder
	for i, e := range ve {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// OrNil returns nil if there are no errors.
func (ve ValidationErrors) OrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

func (ve *ValidationErrors) mustBeOneOf(field, value string, allowed ...string) {
	if slices.Contains(allowed, value) {
		return
	}
	*ve = append(*ve, &FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of [%s], got %q", strings.Join(allowed, ", "), value),
	})
}
