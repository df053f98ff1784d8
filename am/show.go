package am

import (
	"bytes"
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/faked/errors"
)

// Encode renders v as toml, json or yaml.
func Encode(v interface{}, format string) ([]byte, error) {
	switch format {
	case "toml", "":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, errors.Wrap(err, "failed to encode toml")
		}
		return buf.Bytes(), nil
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode json")
		}
		return append(out, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, errors.Wrap(err, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode yaml")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.WithHint(
		errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format),
		"use toml, json or yaml")
}
