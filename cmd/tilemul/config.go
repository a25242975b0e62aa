package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the tilemul configuration file
// (~/.config/tilemul/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	N       *int64 `yaml:"n"`
	Tile    *int64 `yaml:"tile"`
	Device  string `yaml:"device"`
	Lanes   *int64 `yaml:"lanes"`
	Workers *int64 `yaml:"workers"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tilemul", "config.yaml")
}

// applyDeviceConfig applies config file defaults to the common device flags
// when the corresponding CLI flag was not explicitly set.
func applyDeviceConfig(c *cli.Command, cfg Config) {
	if cfg.N != nil && !c.IsSet("n") && !c.IsSet("size") {
		order = *cfg.N
	}
	if cfg.Tile != nil && !c.IsSet("tile") && !c.IsSet("t") {
		tile = *cfg.Tile
	}
	if cfg.Device != "" && !c.IsSet("device") {
		deviceName = cfg.Device
	}
	if cfg.Lanes != nil && !c.IsSet("lanes") {
		lanes = *cfg.Lanes
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyDeviceConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
