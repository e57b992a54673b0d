// Package config loads the runner configuration from the environment and an
// optional forge.toml. The flag names mirror the classic make variables: DEPS,
// VIRTUALENV, DISTRIBUTIONS and TEST_FLAGS.
package config

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config describes all configuration options
type Config struct {
	Deps          bool     `default:"true" usage:"Install declared dependencies during the build"`
	Virtualenv    bool     `default:"true" usage:"Bootstrap an isolated environment before building"`
	Distributions []string `default:"sdist,bdist_egg" usage:"Distribution formats produced by the package task"`
	TestFlags     string   `usage:"Extra arguments passed to the test action"`
	Log           struct {
		Level string `default:"info"`
		JSON  bool   `default:"false" usage:"Output JSONND instead of pretty console messages"`
	}
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object
func Loader() (*Config, *aconfig.Loader) {
	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		Files:     []string{"forge.toml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	cfg, loader := Loader()
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	if len(cfg.Distributions) == 0 {
		return eris.New(`Invalid value for distributions: at least one format is required`)
	}

	for _, dist := range cfg.Distributions {
		if dist == "" {
			return eris.New(`Invalid value for distributions: empty format name`)
		}
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
