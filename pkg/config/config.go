/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package config is the go-lwl configuration file. The file is yaml unless
// its name ends with .toml.
package config

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"sigs.k8s.io/yaml"
)

type ApiConfig struct {
	Address string `json:"address,omitempty" toml:"address,omitempty"`
	Port    int    `json:"port,omitempty" toml:"port,omitempty"`
}

type Config struct {
	LogLevel string `json:"logLevel,omitempty" toml:"logLevel,omitempty"`
	// ByteOrder assumed before detection: little or big
	ByteOrder string `json:"byteOrder,omitempty" toml:"byteOrder,omitempty"`
	// SourceDirs are scanned by "catalog scan" when no dirs are given
	SourceDirs []string   `json:"sourceDirs,omitempty" toml:"sourceDirs,omitempty"`
	Extensions []string   `json:"extensions,omitempty" toml:"extensions,omitempty"`
	DBPath     string     `json:"dbPath,omitempty" toml:"dbPath,omitempty"`
	Output     string     `json:"output,omitempty" toml:"output,omitempty"`
	Api        *ApiConfig `json:"api,omitempty" toml:"api,omitempty"`
	filepath   string
}

func (c *Config) isToml() bool {
	return strings.HasSuffix(c.filepath, ".toml")
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) marshal() ([]byte, error) {
	if c.isToml() {
		return toml.Marshal(c)
	}
	return yaml.Marshal(c)
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := c.marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the current values. A missing file is
// not an error, the defaults stay.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if c.isToml() {
		return toml.Unmarshal(data, c)
	}
	return yaml.Unmarshal(data, c)
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		ByteOrder: DefaultByteOrder,
		DBPath:    filepath.Join(DefaultConfigDir(), DBFile),
		Output:    DefaultOutput,
		Api: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		filepath: DefaultConfigPath(),
	}
}

// NewConfig is the default config read from path, or from the default
// path when path is empty.
func NewConfig(path string) (*Config, error) {
	c := NewDefaultConfig()
	if path != "" {
		c.filepath = path
	}
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApiEndpoint is host:port of the API server.
func (c *Config) ApiEndpoint() string {
	return net.JoinHostPort(c.Api.Address, strconv.Itoa(c.Api.Port))
}

// SetPath changes the file the config is loaded from and persisted to.
func (c *Config) SetPath(path string) {
	c.filepath = path
}
