package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.config/faked/faked.toml
	SourceProject     ConfigSource = "project"     // faked.toml found upward
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // FAKED_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo describes one effective setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key" toml:"key"`
	Value      interface{}  `json:"value" yaml:"value" toml:"value"`
	Source     ConfigSource `json:"source" yaml:"source" toml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// Settings returns every effective setting with its source, sorted by key.
func (l *Loaded) Settings() []SettingInfo {
	all := l.viper.AllSettings()
	var out []SettingInfo
	for _, key := range flattenKeys(all, "") {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := l.sources[key]; ok {
			info = si
		}
		if env := EnvVar(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}
		out = append(out, SettingInfo{
			Key:        key,
			Value:      l.viper.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return out
}

// EnvVar returns the environment variable overriding key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// flattenKeys lists the dotted leaf keys of a nested settings map, sorted.
func flattenKeys(settings map[string]interface{}, prefix string) []string {
	var keys []string
	for k, v := range settings {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(nested, full)...)
			continue
		}
		keys = append(keys, full)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the effective value of a dotted key.
func (l *Loaded) Get(key string) (interface{}, bool) {
	if !l.viper.IsSet(key) {
		return nil, false
	}
	return l.viper.Get(key), true
}
