// Package am holds faked's tool configuration: output layout, expansion
// defaults, pipeline and watch settings, and logging.
package am

import (
	shellquote "github.com/kballard/go-shellquote"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/faked/options"
)

// Config represents the faked configuration
type Config struct {
	Output   OutputConfig   `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Defaults DefaultsConfig `mapstructure:"defaults" toml:"defaults" json:"defaults" yaml:"defaults"`
	Pipeline PipelineConfig `mapstructure:"pipeline" toml:"pipeline" json:"pipeline" yaml:"pipeline"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// OutputConfig configures where and how generated files are written
type OutputConfig struct {
	// Dir receives generated files; empty writes to stdout.
	Dir    string `mapstructure:"dir" toml:"dir" json:"dir" yaml:"dir"`
	// Suffix is appended to the manifest base name.
	Suffix string `mapstructure:"suffix" toml:"suffix" json:"suffix" yaml:"suffix"`
	// Indent is spaces per nesting level, 1..8.
	Indent int    `mapstructure:"indent" toml:"indent" json:"indent" yaml:"indent"`
	Header bool   `mapstructure:"header" toml:"header" json:"header" yaml:"header"`
}

// DefaultsConfig supplies values for @Faked arguments a declaration omits.
// An explicit argument always wins.
type DefaultsConfig struct {
	CreateNull bool     `mapstructure:"create_null" toml:"create_null" json:"create_null" yaml:"create_null"`
	AnyObject  bool     `mapstructure:"any_object" toml:"any_object" json:"any_object" yaml:"any_object"`
	Inherit    []string `mapstructure:"inherit" toml:"inherit" json:"inherit" yaml:"inherit"`
}

// PipelineConfig configures the expansion pipeline
type PipelineConfig struct {
	Concurrency int `mapstructure:"concurrency" toml:"concurrency" json:"concurrency" yaml:"concurrency"`
}

// WatchConfig configures `faked watch`
type WatchConfig struct {
	DebounceMS int    `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
	// Exec is a shell command run after each regeneration.
	Exec       string `mapstructure:"exec" toml:"exec" json:"exec" yaml:"exec"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"`
}

// ExpansionDefaults converts the defaults section for the engine.
func (c *Config) ExpansionDefaults() options.Defaults {
	return options.Defaults{
		CreateNull: c.Defaults.CreateNull,
		AnyObject:  c.Defaults.AnyObject,
		Inherit:    append([]string(nil), c.Defaults.Inherit...),
	}
}

// Command splits watch.exec into program and arguments. It returns nil
// when no command is configured.
func (w WatchConfig) Command() ([]string, error) {
	if w.Exec == "" {
		return nil, nil
	}
	args, err := shellquote.Split(w.Exec)
	if err != nil {
		return nil, errors.Wrapf(err, "watch.exec %q", w.Exec)
	}
	return args, nil
}
