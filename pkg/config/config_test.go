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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestPersistLoad(t *testing.T) {
	for _, name := range []string{"config", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", name)
			c := NewDefaultConfig()
			c.SetPath(path)
			c.LogLevel = "debug"
			c.ByteOrder = "big"
			c.SourceDirs = []string{"/src/fw", "/src/lib"}
			c.Extensions = []string{".c", ".h"}
			c.Api.Port = 9000
			if err := c.Persist(false); err != nil {
				t.Fatalf("Persist() error: %s", err)
			}

			loaded, err := NewConfig(path)
			if err != nil {
				t.Fatalf("NewConfig() error: %s", err)
			}
			if !reflect.DeepEqual(loaded, c) {
				t.Errorf("NewConfig() = %+v, want %+v", loaded, c)
			}
			if loaded.ApiEndpoint() != "127.0.0.1:9000" {
				t.Errorf("ApiEndpoint() = %s", loaded.ApiEndpoint())
			}
		})
	}
}

func TestPersistExists(t *testing.T) {
	c := NewDefaultConfig()
	c.SetPath(filepath.Join(t.TempDir(), "config"))
	if err := c.Persist(false); err != nil {
		t.Fatalf("Persist() error: %s", err)
	}
	var exists ErrConfigFileExists
	if err := c.Persist(false); !errors.As(err, &exists) {
		t.Errorf("second Persist() error = %v, want ErrConfigFileExists", err)
	}
	if err := c.Persist(true); err != nil {
		t.Errorf("Persist(overwrite) error: %s", err)
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	c, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig() error: %s", err)
	}
	if c.Path() != path || c.LogLevel != DefaultLogLevel || c.Output != DefaultOutput {
		t.Errorf("NewConfig() = %+v, want defaults", c)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("byteOrder: big\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig() error: %s", err)
	}
	if c.ByteOrder != "big" || c.LogLevel != DefaultLogLevel || c.Api.Port != DefaultApiPort {
		t.Errorf("NewConfig() = %+v", c)
	}
}

func TestLoadBroken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("logLevel = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfig(path); err == nil {
		t.Error("NewConfig() error = nil, want a toml error")
	}
}
