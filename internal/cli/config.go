package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFileName is the config file looked up in the working directory and
// the XDG config directory.
const configFileName = "bioguard.toml"

// Config holds defaults read from bioguard.toml. Every value can be
// overridden by the matching command-line flag; the file only spares the
// researcher from retyping data paths on every run.
type Config struct {
	// Data defaults shared by export and dashboard.
	AirportsPath string   `toml:"airports"`
	FlightGlob   string   `toml:"flight_glob"`
	FlightPaths  []string `toml:"flights"`
	FocusCountry string   `toml:"focus_country"`

	// Backend connection strings.
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`

	Dashboard DashboardConfig `toml:"dashboard"`
}

// DashboardConfig holds dashboard display defaults.
type DashboardConfig struct {
	Title      string `toml:"title"`
	MinFlights int    `toml:"min_flights"`
	Scale      string `toml:"scale"`
	TopRoutes  int    `toml:"top_routes"`
	Addr       string `toml:"addr"`
}

// LoadConfig reads the config file at path. An empty path searches the
// working directory and then the XDG config directory; a missing file is
// not an error and yields an empty config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		found, ok := findConfig()
		if !ok {
			return &Config{}, nil
		}
		path = found
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// findConfig looks for bioguard.toml in the working directory, then under
// the XDG config directory.
func findConfig() (string, bool) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, true
	}
	dir, err := configDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// configDir returns the config directory using XDG standard (~/.config/bioguard/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
