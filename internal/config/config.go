// Package config loads the CLI driver's tool-level configuration: which
// file to compile, how diagnostics escalate, and where logs go. The parser
// core never imports this package.
package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

// LoggingConfig mirrors the rotation policy handed to the logger package.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"filename"`
	MaxSize    int    `yaml:"maxsize"`
	MaxAge     int    `yaml:"maxage"`
	MaxBackups int    `yaml:"maxbackups"`
	Compress   bool   `yaml:"compress"`
}

// Config is the gta3scfront CLI's full configuration.
type Config struct {
	// Input is the .sc source path to compile. Empty means "run the
	// built-in sample program", matching the teacher CLI's fallback.
	Input string `yaml:"input"`

	// WarningsAsErrors escalates every Warning diagnostic to Error for the
	// purposes of the process exit code.
	WarningsAsErrors bool `yaml:"warningsaserrors"`

	// MaxDiagnostics aborts the batch once this many diagnostics have been
	// reported across the run. Zero means unlimited.
	MaxDiagnostics int `yaml:"maxdiagnostics"`

	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the built-in configuration the CLI runs with when no
// config file is found.
func Default() *Config {
	return &Config{
		Input:            "",
		WarningsAsErrors: false,
		MaxDiagnostics:   200,
		Logging: LoggingConfig{
			Level:      "INFO",
			FileName:   "./logs/gta3scfront.log",
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 5,
			Compress:   true,
		},
	}
}

// LoadConfig reads a YAML config file plus environment overrides into a
// Config. path may be empty, in which case viper searches the working
// directory and ./config/ for "gta3scfront.yaml"; a missing file is not an
// error, and the built-in defaults are returned instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GTA3SC")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gta3scfront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config/")
	}

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
