// Package config loads the YAML file describing how the CLI reads a buffer.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/flatvec/internal/layout"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrDuplicateName = errors.New("duplicate field name")
)

// Config is the on-disk configuration.
//
//	unsafe_strings: false
//	log_level: warn
//	fields:
//	  - {name: scores, id: 0, kind: uint32}
//	  - {name: points, id: 2, kind: struct, size: 8}
type Config struct {
	UnsafeStrings bool           `yaml:"unsafe_strings"`
	LogLevel      string         `yaml:"log_level"`
	Fields        []layout.Field `yaml:"fields"`
}

// DefaultKind is used for fields referenced by id without a declaration.
const DefaultKind = "ubyte"

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{LogLevel: "warn"}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a configuration. Unknown keys are rejected. An empty
// document yields Default.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log level and every field.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if f.Name == "" {
			continue
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateName, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Level parses LogLevel; an empty level means warn.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Resolve finds a field by name or by decimal id. An id with no declaration
// resolves to a byte vector.
func (c Config) Resolve(ref string) (layout.Field, error) {
	for _, f := range c.Fields {
		if f.Name == ref {
			return f, nil
		}
	}
	id, err := strconv.Atoi(ref)
	if err != nil || id < 0 {
		return layout.Field{}, fmt.Errorf("%w %q", ErrUnknownField, ref)
	}
	for _, f := range c.Fields {
		if f.ID == id {
			return f, nil
		}
	}
	return layout.Field{Name: ref, ID: id, Kind: DefaultKind}, nil
}
