package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/faked/errors"
)

// ProjectFileName is searched for upward from the working directory.
const ProjectFileName = "faked.toml"

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	// ConfigFile, when set, replaces the user and project search.
	ConfigFile string
	// WorkDir starts the project search; empty means the current directory.
	WorkDir string
	// UserDir holds the user config; empty means os.UserConfigDir()/faked.
	UserDir string
}

// Loaded is a decoded configuration plus where each setting came from.
type Loaded struct {
	*Config
	// Files are the config files merged, lowest precedence first.
	Files   []string
	sources map[string]SourceInfo
	viper   *viper.Viper
}

// Load reads the faked configuration using Viper.
// Precedence (lowest to highest): defaults < user < project < env vars.
func Load(opts LoadOptions) (*Loaded, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	l := &Loaded{sources: make(map[string]SourceInfo), viper: v}

	if opts.ConfigFile != "" {
		if err := l.merge(opts.ConfigFile, SourceExplicit); err != nil {
			return nil, err
		}
	} else {
		if user := userConfigPath(opts.UserDir); user != "" {
			if err := l.mergeIfExists(user, SourceUser); err != nil {
				return nil, err
			}
		}
		if project := findProjectConfig(opts.WorkDir); project != "" {
			if err := l.merge(project, SourceProject); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	l.Config = &cfg
	return l, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	return &config, nil
}

func (l *Loaded) mergeIfExists(path string, source ConfigSource) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return l.merge(path, source)
}

// merge reads one file into a scratch instance and merges it below the
// environment layer, recording the source of every key it sets.
func (l *Loaded) merge(path string, source ConfigSource) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	settings := tmp.AllSettings()
	if err := l.viper.MergeConfigMap(settings); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	for _, key := range flattenKeys(settings, "") {
		l.sources[key] = SourceInfo{Source: source, Path: path}
	}
	l.Files = append(l.Files, path)
	return nil
}

// userConfigPath returns the user config file location, or "".
func userConfigPath(dir string) string {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(base, "faked")
	}
	return filepath.Join(dir, ProjectFileName)
}

// findProjectConfig searches for faked.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig(start string) string {
	dir := start
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}

	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
