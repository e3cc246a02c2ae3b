package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/dictgen/pkg/dictgen/dict"
	"github.com/cognicore/dictgen/pkg/dictgen/internalerr"
	"github.com/cognicore/dictgen/pkg/dictgen/source"
)

// Config holds every tunable of a dictionary run.
// Example file:
//
//	min_f: 150
//	locale: ru
//	description: набоковский словарь
//	html: true
//	nfc: false
//	export: model.db
//	log_level: info
type Config struct {
	MinF        int    `yaml:"min_f"`
	Locale      string `yaml:"locale"`
	Description string `yaml:"description"`
	HTML        bool   `yaml:"html"`
	NFC         bool   `yaml:"nfc"`
	Export      string `yaml:"export"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		MinF:     dict.DefaultMinF,
		Locale:   dict.DefaultLocale,
		HTML:     true,
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of the defaults.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if err := c.DictOptions().Validate(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return lvl, nil
}

// DictOptions returns the rendering options
func (c Config) DictOptions() dict.Options {
	return dict.Options{
		MinF:        c.MinF,
		Locale:      c.Locale,
		Description: c.Description,
	}
}

// SourceOptions returns the input handling options
func (c Config) SourceOptions() source.Options {
	return source.Options{
		HTML: c.HTML,
		NFC:  c.NFC,
	}
}
