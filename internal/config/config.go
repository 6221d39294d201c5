// Package config persists user preferences for the ixview CLI, such as
// the directory of the last saved viewer file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/finreport/ixview/core/errors"
)

// Config holds the persisted preferences.
type Config struct {
	// ViewerFileDir is the directory offered as the default location
	// when prompting for a viewer save path.
	ViewerFileDir string `yaml:"viewerFileDir,omitempty"`
}

// Path returns the config file location under the user config dir.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user config dir")
	}
	return filepath.Join(base, "ixview", "config.yaml"), nil
}

// Load reads the config from the default location. A missing file
// yields an empty config, not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from path. A missing file yields an empty
// config, not an error.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &errors.ParseError{Format: "config", Path: path, Message: err.Error(), Err: err}
	}
	return &cfg, nil
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating parent directories as
// needed.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIO("create directory", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
