package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// DefaultServer is the patch service used by fetch when nothing else is configured.
const DefaultServer = "http://localhost:5000"

// Config holds defaults read from the YAML config file. Flags override it.
//
//	server: https://randomizer.example.org
//	strict: true
//	output_dir: ~/roms/patched
type Config struct {
	Server    string `yaml:"server"`
	Strict    bool   `yaml:"strict"`
	OutputDir string `yaml:"output_dir"`
}

const defaultConfigName = ".ipsctl.yaml"

// loadConfig reads path, or ~/.ipsctl.yaml when path is empty. A missing
// default file is not an error; a missing explicit file is.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{Server: DefaultServer}, nil
		}
		path = filepath.Join(home, defaultConfigName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Config{Server: DefaultServer}, nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if c.Server == "" {
		c.Server = DefaultServer
	}
	c.OutputDir = expandHome(c.OutputDir)
	return c, nil
}

func expandHome(p string) string {
	if p == "~" || (len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
