package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/teranos/faked/gencheck"
	"github.com/teranos/faked/host"
	"github.com/teranos/faked/syntax"
)

// EnvPrefix prefixes every environment override: FAKED_OUTPUT_DIR, ...
const EnvPrefix = "FAKED"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output defaults
	v.SetDefault("output.dir", "")
	v.SetDefault("output.suffix", gencheck.DefaultSuffix)
	v.SetDefault("output.indent", syntax.DefaultIndent)
	v.SetDefault("output.header", true)

	// Expansion defaults, used when @Faked omits an argument
	v.SetDefault("defaults.create_null", true)
	v.SetDefault("defaults.any_object", false)
	v.SetDefault("defaults.inherit", []string{})

	v.SetDefault("pipeline.concurrency", host.DefaultConcurrency)

	v.SetDefault("watch.debounce_ms", 300)
	v.SetDefault("watch.exec", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
}

// String returns a short representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Output: {Dir: %q, Suffix: %q, Indent: %d}, Pipeline: {Concurrency: %d}, Watch: {DebounceMS: %d}}",
		c.Output.Dir, c.Output.Suffix, c.Output.Indent, c.Pipeline.Concurrency, c.Watch.DebounceMS)
}
