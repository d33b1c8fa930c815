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

package config_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crac/memcheck/pkg/config"
	logger "github.com/crac/memcheck/pkg/log"
	"github.com/crac/memcheck/pkg/procmaps"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, procmaps.DefaultMapsPath, cfg.MapsPath())
	require.Empty(t, cfg.Logger.Level)
	require.Empty(t, cfg.Logger.Backend)
	require.Empty(t, cfg.Metrics.Address)
}

func TestParse(t *testing.T) {
	tcases := []struct {
		name     string
		data     string
		mapsPath string
		level    string
		debug    []string
		address  string
		invalid  string
	}{
		{
			name:     "empty",
			data:     "",
			mapsPath: procmaps.DefaultMapsPath,
		},
		{
			name: "yaml",
			data: `
maps:
  path: /tmp/maps
logger:
  level: debug
  debug: [procmaps]
metrics:
  address: 127.0.0.1:8891
`,
			mapsPath: "/tmp/maps",
			level:    "debug",
			debug:    []string{"procmaps"},
			address:  "127.0.0.1:8891",
		},
		{
			name:     "json with pid",
			data:     `{"maps": {"pid": 4242}}`,
			mapsPath: "/proc/4242/maps",
		},
		{
			name:    "negative pid",
			data:    "maps:\n  pid: -1\n",
			invalid: "invalid maps pid",
		},
		{
			name:    "bad level",
			data:    "logger:\n  level: chatty\n",
			invalid: "invalid logger configuration",
		},
		{
			name:    "unknown field",
			data:    "mapz:\n  path: /tmp/maps\n",
			invalid: "failed to parse configuration",
		},
		{
			name:    "no source",
			data:    "maps:\n  path: \"\"\n",
			invalid: "no maps path or pid",
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tc.data))
			if tc.invalid != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.invalid)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.mapsPath, cfg.MapsPath())
			require.Equal(t, tc.level, cfg.Logger.Level)
			require.Equal(t, tc.debug, cfg.Logger.Debug)
			require.Equal(t, tc.address, cfg.Metrics.Address)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procmaps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maps:\n  path: /tmp/other-maps\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/other-maps", cfg.MapsPath())
	require.Len(t, cfg.ReaderOptions(), 1)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read configuration file")
}

func TestApply(t *testing.T) {
	t.Cleanup(func() { logger.SetLevel(logger.DefaultLevel) })

	cfg := config.Default()
	cfg.Logger.Debug = []string{"config-apply-test"}
	require.NoError(t, cfg.Apply())
	require.Equal(t, "info", flag.Lookup(logger.LevelFlag).Value.String())

	cfg.Logger.Level = "warning"
	require.NoError(t, cfg.Apply())
	require.Equal(t, "warning", flag.Lookup(logger.LevelFlag).Value.String())

	cfg.Logger.Backend = "no-such-backend"
	require.Error(t, cfg.Apply())
}

func TestApplyKeepsCommandLineLevel(t *testing.T) {
	level := flag.Lookup(logger.LevelFlag)
	require.NotNil(t, level)
	require.NoError(t, flag.CommandLine.Set(logger.LevelFlag, "error"))
	t.Cleanup(func() { logger.SetLevel(logger.DefaultLevel) })

	cfg, err := config.Parse([]byte("maps:\n  path: /tmp/maps\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Apply())
	require.Equal(t, "error", level.Value.String())

	cfg, err = config.Parse([]byte("logger:\n  level: debug\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Apply())
	require.Equal(t, "error", level.Value.String())
}
