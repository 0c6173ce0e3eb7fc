// Package config loads the optional krayt configuration file.
//
// The file lives at $KRAYT_CONFIG, or config.yaml under the config root
// ($XDG_CONFIG_HOME/krayt, falling back to ~/.config/krayt). A missing
// file is not an error; built-in defaults apply.
//
// Example:
//
//	image: alpine:3.20
//	additional_packages:
//	  - vim
//	  - uv:copier
//	device_aliases:
//	  gpu-device:
//	    path: /dev/nvidia0
//	    type: CharDevice
//	cache_volumes:
//	  - model-cache
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ginbear/krayt/internal/volume"
	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config is the user configuration
type Config struct {
	// Image replaces the default inspector image.
	Image string `yaml:"image"`

	// AdditionalPackages are installed after the base tools, using the
	// "kind:value" syntax.
	AdditionalPackages []string `yaml:"additional_packages"`

	// DeviceAliases extend the built-in host device rewrites.
	DeviceAliases map[string]DeviceAlias `yaml:"device_aliases"`

	// CacheVolumes are rewritten to memory-backed scratch directories.
	CacheVolumes []string `yaml:"cache_volumes"`
}

// DeviceAlias maps a volume name to a host path
type DeviceAlias struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}

// Dir returns the config root
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "krayt"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "krayt"), nil
}

// InitScriptDir returns the directory holding init scripts under root
func InitScriptDir(root string) string {
	return filepath.Join(root, "init.d")
}

// Path returns the config file location
func Path() (string, error) {
	if p := os.Getenv("KRAYT_CONFIG"); p != "" {
		return p, nil
	}
	root, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "config.yaml"), nil
}

// Load reads the config file at path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a config document, rejecting unknown keys
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for name, alias := range c.DeviceAliases {
		if alias.Path == "" {
			return fmt.Errorf("device alias %q has no path", name)
		}
	}
	return nil
}

// AliasTable returns the built-in volume aliases extended by this config
func (c *Config) AliasTable() *volume.AliasTable {
	devices := make(map[string]volume.DeviceAlias, len(c.DeviceAliases))
	for name, alias := range c.DeviceAliases {
		devices[name] = volume.DeviceAlias{Path: alias.Path, Type: alias.Type}
	}
	return volume.DefaultAliasTable(devices, c.CacheVolumes)
}
