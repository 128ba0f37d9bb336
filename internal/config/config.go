// Package config resolves credentials and the playlist selection from
// configuration.yaml, falling back to command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given
const DefaultFile = "configuration.yaml"

// ErrMissingCredentials is returned when neither the file nor the flags
// provide both a client id and a secret.
var ErrMissingCredentials = errors.New("spotify client id and secret must be provided in the configuration file or as --id and --secret")

type Config struct {
	ClientID  string   `yaml:"client_id"`
	Secret    string   `yaml:"secret"`
	Playlists []string `yaml:"playlists"`
	Exclude   []string `yaml:"exclude"`
}

// HasCredentials reports whether both the client id and secret are set
func (c Config) HasCredentials() bool {
	return c.ClientID != "" && c.Secret != ""
}

// Load reads the YAML file at path. A missing file is not an error and
// yields an empty Config; keys absent from the file stay empty.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the file configuration when it carries credentials and the
// flag configuration otherwise. The two are never merged: when the flags
// win, their playlists and excludes replace those of the file.
func Resolve(file, flags Config) (Config, error) {
	if file.HasCredentials() {
		return file, nil
	}
	if !flags.HasCredentials() {
		return Config{}, ErrMissingCredentials
	}
	return flags, nil
}
