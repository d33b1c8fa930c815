// Copyright 2023 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	logger "github.com/crac/memcheck/pkg/log"
	"github.com/crac/memcheck/pkg/procmaps"
)

// Config is the runtime configuration of procmaps-check.
type Config struct {
	// Maps selects the memory map source.
	Maps MapsConfig `json:"maps"`
	// Logger controls logging.
	Logger LoggerConfig `json:"logger"`
	// Metrics controls the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics"`
}

// MapsConfig selects the memory map source. Pid, when set, overrides Path.
type MapsConfig struct {
	Path string `json:"path,omitempty"`
	Pid  int    `json:"pid,omitempty"`
}

// LoggerConfig is the logging configuration. Empty fields leave the
// corresponding logger settings untouched.
type LoggerConfig struct {
	Level   string   `json:"level,omitempty"`
	Debug   []string `json:"debug,omitempty"`
	Backend string   `json:"backend,omitempty"`
}

// MetricsConfig is the metrics configuration. An empty Address disables the endpoint.
type MetricsConfig struct {
	Address string `json:"address,omitempty"`
}

var log = logger.NewLogger("config")

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Maps: MapsConfig{
			Path: procmaps.DefaultMapsPath,
		},
	}
}

// Load reads a YAML or JSON configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file %q", path)
	}
	return Parse(data)
}

// Parse parses YAML or JSON configuration data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Maps.Pid < 0 {
		return errors.Errorf("invalid maps pid %d", c.Maps.Pid)
	}
	if c.Maps.Pid == 0 && c.Maps.Path == "" {
		return errors.New("no maps path or pid configured")
	}
	if c.Logger.Level != "" {
		if _, err := logger.ParseLevel(c.Logger.Level); err != nil {
			return errors.Wrap(err, "invalid logger configuration")
		}
	}
	return nil
}

// MapsPath returns the path of the configured memory map source.
func (c *Config) MapsPath() string {
	if c.Maps.Pid > 0 {
		return procmaps.PidMapsPath(c.Maps.Pid)
	}
	return c.Maps.Path
}

// ReaderOptions returns the procmaps.MapsReader options for this configuration.
func (c *Config) ReaderOptions() []procmaps.Option {
	return []procmaps.Option{procmaps.WithPath(c.MapsPath())}
}

// Apply activates the logger configuration. Settings given on the command
// line take precedence over the configuration.
func (c *Config) Apply() error {
	cmdline := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		cmdline[f.Name] = true
	})

	if c.Logger.Level != "" && !cmdline[logger.LevelFlag] {
		level, err := logger.ParseLevel(c.Logger.Level)
		if err != nil {
			return errors.Wrap(err, "invalid logger configuration")
		}
		logger.SetLevel(level)
	}
	if c.Logger.Backend != "" && !cmdline[logger.BackendFlag] {
		if err := logger.SetBackend(c.Logger.Backend); err != nil {
			return errors.Wrap(err, "invalid logger configuration")
		}
	}
	if len(c.Logger.Debug) > 0 && !cmdline[logger.DebugFlag] {
		logger.SetDebug(true, c.Logger.Debug...)
	}

	log.Debug("configuration applied:\n%s", c)

	return nil
}

// String returns the configuration in YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "<failed to marshal configuration: " + err.Error() + ">"
	}
	return string(data)
}
