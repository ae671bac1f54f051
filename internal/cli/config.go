package cli

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the CLI's optional YAML configuration file (spec.md's
// SPEC_FULL §AMBIENT STACK "Configuration"): a log level/timestamp format
// and whether color output is forced on/off regardless of TTY detection.
// Flags passed to a cmd/valet subcommand override whatever a config file
// sets. SearchDir is decoded from search_dir, but import resolution does
// not read it, so it does not change where `<-` imports are looked up.
type Config struct {
	SearchDir  string `yaml:"search_dir"`
	LogLevel   string `yaml:"log_level"`
	TimeFormat string `yaml:"time_format"`
	Color      *bool  `yaml:"color"`
}

// LoadConfig reads a YAML config file. A missing file is not an error —
// callers fall back to defaults and flags.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LevelFromString maps a config/flag log level name to a Level, defaulting
// to LevelInfo for an empty or unrecognized string.
func LevelFromString(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
