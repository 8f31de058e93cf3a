// Package config loads the YAML configuration of the discid tool.
// Every value has an explicit default; there is no process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Server locates the MusicBrainz web service.
type Server struct {
	Scheme string `yaml:"scheme"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"` // 0 = scheme default
}

// App identifies the client to the web service.
type App struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Contact string `yaml:"contact"`
}

// Config is the complete tool configuration.
type Config struct {
	// Device is a device node such as /dev/sr0, "usb" for the first known
	// USB drive, or usb:VID:PID. Empty selects the platform default.
	Device   string   `yaml:"device"`
	Features []string `yaml:"features"` // mcn, isrc, cdtext, all
	Server   Server   `yaml:"server"`
	App      App      `yaml:"app"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Scheme: "https",
			Host:   "musicbrainz.org",
		},
		App: App{
			Name:    "crostini-discid",
			Version: "dev",
			Contact: "https://github.com/binaryphile/crostini-discid",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the server settings.
func (c Config) Validate() error {
	switch c.Server.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("server scheme %q: want http or https", c.Server.Scheme)
	}
	if c.Server.Host == "" {
		return errors.New("server host is empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "discid.yaml"
	}
	return filepath.Join(dir, "discid", "config.yaml")
}
