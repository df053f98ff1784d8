package am

import (
	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Indent < 1 || c.Output.Indent > 8 {
		return errors.Newf("output.indent must be between 1 and 8, got %d", c.Output.Indent)
	}
	if c.Output.Suffix == "" {
		return errors.New("output.suffix cannot be empty")
	}

	if c.Pipeline.Concurrency < 1 {
		return errors.Newf("pipeline.concurrency must be >= 1, got %d", c.Pipeline.Concurrency)
	}

	// 0 = regenerate on every event
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if _, err := c.Watch.Command(); err != nil {
		return err
	}

	for _, name := range c.Defaults.Inherit {
		if name == "" {
			return errors.New("defaults.inherit cannot contain empty names")
		}
	}

	if c.Log.Theme != "" && !logger.HasTheme(c.Log.Theme) {
		return errors.WithHint(
			errors.Newf("log.theme %q is not a known theme", c.Log.Theme),
			"use everforest or gruvbox")
	}
	return nil
}
