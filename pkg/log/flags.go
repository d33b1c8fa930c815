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

package log

import (
	"flag"
	"sort"
	"strings"
)

const (
	// DefaultLevel is the default logging severity level.
	DefaultLevel = LevelInfo
	// command-line argument prefix.
	optPrefix = "logger"
	// DebugFlag is the flag for enabling/disabling debug logging for sources.
	DebugFlag = optPrefix + "-debug"
	// LevelFlag is the flag for selecting logging level.
	LevelFlag = optPrefix + "-level"
	// BackendFlag is the flag for selecting logging backend.
	BackendFlag = optPrefix
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warning": LevelWarn,
	"warn":    LevelWarn,
	"error":   LevelError,
	"panic":   LevelPanic,
	"fatal":   LevelFatal,
}

// ParseLevel parses the name of a logging severity level.
func ParseLevel(value string) (Level, error) {
	level, ok := levelNames[strings.ToLower(value)]
	if !ok {
		return LevelInfo, loggerError("invalid logging level %q", value)
	}
	return level, nil
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	case LevelPanic:
		return "panic"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

// levelFlag sets the global severity level from the command line.
type levelFlag struct{}

func (levelFlag) Set(value string) error {
	level, err := ParseLevel(value)
	if err != nil {
		return err
	}
	SetLevel(level)
	return nil
}

func (levelFlag) String() string {
	if log == nil {
		return DefaultLevel.String()
	}
	log.RLock()
	defer log.RUnlock()
	return log.level.String()
}

// backendFlag selects the active backend from the command line.
type backendFlag struct{}

func (backendFlag) Set(value string) error {
	return SetBackend(value)
}

func (backendFlag) String() string {
	return FmtBackendName
}

// srcmap maps log sources to an enabled/disabled state.
type srcmap map[string]bool

// enabled checks the state of a source, falling back to the wildcard entry.
func (m srcmap) enabled(source string) bool {
	if state, ok := m[source]; ok {
		return state
	}
	return m["*"]
}

// parseSources parses a source spec like "on:a,b,off:c" into a srcmap.
func parseSources(value string) (srcmap, error) {
	m := make(srcmap)
	prev := ""
	for _, entry := range strings.Split(value, ",") {
		if entry == "" {
			continue
		}
		state, src := "", ""
		statesrc := strings.Split(entry, ":")
		switch len(statesrc) {
		case 2:
			state, src = statesrc[0], statesrc[1]
		case 1:
			src = statesrc[0]
		default:
			return nil, loggerError("invalid state spec %q in source map", entry)
		}

		if state != "" {
			prev = state
		} else {
			state = prev
			if state == "" {
				state = "on"
			}
		}
		if src == "all" {
			src = "*"
		}

		enabled, err := parseEnabled(state)
		if err != nil {
			return nil, err
		}
		m[src] = enabled
	}
	return m, nil
}

func (m srcmap) String() string {
	on, off := []string{}, []string{}
	for src, state := range m {
		if state {
			on = append(on, src)
		} else {
			off = append(off, src)
		}
	}
	sort.Strings(on)
	sort.Strings(off)

	switch {
	case len(off) == 0:
		return "on:" + strings.Join(on, ",")
	case len(on) == 0:
		return "off:" + strings.Join(off, ",")
	}
	return "on:" + strings.Join(on, ",") + ",off:" + strings.Join(off, ",")
}

func parseEnabled(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "enable", "enabled", "true", "1":
		return true, nil
	case "off", "disable", "disabled", "false", "0":
		return false, nil
	}
	return false, loggerError("invalid enabled state %q", value)
}

// debugFlag controls debugging for sources from the command line.
type debugFlag struct{}

func (debugFlag) Set(value string) error {
	m, err := parseSources(value)
	if err != nil {
		return err
	}

	log.Lock()
	defer log.Unlock()
	for src, state := range m {
		log.debug[src] = state
	}
	log.updateDebug()

	return nil
}

func (debugFlag) String() string {
	if log == nil {
		return ""
	}
	log.RLock()
	defer log.RUnlock()
	return log.debug.String()
}

func init() {
	flag.Var(backendFlag{}, BackendFlag,
		"logger backend to use (fmt, klog)")
	flag.Var(levelFlag{}, LevelFlag,
		"lowest severity level to pass through (debug, info, warning, error)")
	flag.Var(debugFlag{}, DebugFlag,
		"comma-separated list of source names to enable debug messages for.\n"+
			"Specify '*' or 'all' to enable all sources.\n"+
			"Prefix a source or list with 'off:' to disable, which is also the default state.")
}
