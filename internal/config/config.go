package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Service string     `yaml:"service"`
	Env     string     `yaml:"env"`
	Log     LogConfig  `yaml:"log"`
	HTTP    HTTPConfig `yaml:"http"`

	// WaitForKey blocks before exit until a line is read from stdin.
	WaitForKey bool `yaml:"wait_for_key"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
	File   string `yaml:"file"`
}

// HTTPConfig enables the read-only ops endpoints and /metrics when Addr is set.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

func Default() *Config {
	return &Config{
		Service:    "minishop",
		Env:        "dev",
		Log:        LogConfig{Level: "info", Output: "stderr"},
		WaitForKey: true,
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty) and then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		// An empty file has no document and leaves the defaults in place.
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Service, "SERVICE_NAME")
	set(&c.Env, "ENV")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Output, "LOG_OUTPUT")
	set(&c.Log.File, "LOG_FILE")
	set(&c.HTTP.Addr, "HTTP_ADDR")
}
