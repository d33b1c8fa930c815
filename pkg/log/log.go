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
	"fmt"
	"os"
	"strings"
	"sync"
)

// Level describes the severity of log messages.
type Level int

const (
	// LevelDebug is the severity for debug messages.
	LevelDebug Level = iota
	// LevelInfo is the severity for informational messages.
	LevelInfo
	// LevelWarn is the severity for warnings.
	LevelWarn
	// LevelError is the severity for errors.
	LevelError
	// LevelPanic is the severity for panic messages.
	LevelPanic
	// LevelFatal is the severity for fatal errors.
	LevelFatal
)

// Logger is the interface for producing log messages for/from a particular source.
type Logger interface {
	// Debug formats and emits a debug message.
	Debug(format string, args ...interface{})
	// Info formats and emits an informational message.
	Info(format string, args ...interface{})
	// Warn formats and emits a warning message.
	Warn(format string, args ...interface{})
	// Error formats and emits an error message.
	Error(format string, args ...interface{})
	// Panic formats and emits an error message then panics with the same.
	Panic(format string, args ...interface{})
	// Fatal formats and emits an error message and os.Exit()'s with status 1.
	Fatal(format string, args ...interface{})

	// DebugBlock formats and emits a multiline debug message.
	DebugBlock(prefix string, format string, args ...interface{})
	// InfoBlock formats and emits a multiline information message.
	InfoBlock(prefix string, format string, args ...interface{})
	// WarnBlock formats and emits a multiline warning message.
	WarnBlock(prefix string, format string, args ...interface{})
	// ErrorBlock formats and emits a multiline error message.
	ErrorBlock(prefix string, format string, args ...interface{})

	// EnableDebug enables debug messages for this Logger.
	EnableDebug(bool) bool
	// DebugEnabled checks if debug messages are enabled for this Logger.
	DebugEnabled() bool

	// Source returns the source name of this Logger.
	Source() string
}

// logging is the runtime state of all loggers.
type logging struct {
	sync.RWMutex
	level    Level                // lowest unsuppressed severity
	active   Backend              // active backend
	backends map[string]BackendFn // registered backends
	loggers  map[string]*logger   // loggers by source
	debug    srcmap               // debug state by source, "*" for all
	align    int                  // longest source name seen
}

var log = &logging{
	level:    DefaultLevel,
	active:   newFmtBackend(os.Stderr),
	backends: make(map[string]BackendFn),
	loggers:  make(map[string]*logger),
	debug:    make(srcmap),
}

// logger implements Logger for a single source.
type logger struct {
	source string
	debug  bool
}

// NewLogger creates a logger for the given source, or returns the existing one.
func NewLogger(source string) Logger {
	return log.get(source)
}

// Get is an alias for NewLogger.
func Get(source string) Logger {
	return log.get(source)
}

func (log *logging) get(source string) *logger {
	source = strings.Trim(source, "[] ")

	log.Lock()
	defer log.Unlock()

	if l, ok := log.loggers[source]; ok {
		return l
	}

	l := &logger{
		source: source,
		debug:  log.debug.enabled(source),
	}
	log.loggers[source] = l

	if len(source) > log.align {
		log.align = len(source)
		if log.active != nil {
			log.active.SetSourceAlignment(log.align)
		}
	}

	return l
}

// SetLevel sets the lowest severity level of messages to pass through.
func SetLevel(level Level) {
	log.Lock()
	defer log.Unlock()
	log.level = level
}

// SetDebug enables or disables debugging for the given sources.
func SetDebug(enabled bool, sources ...string) {
	log.Lock()
	defer log.Unlock()

	for _, src := range sources {
		if src == "all" {
			src = "*"
		}
		log.debug[src] = enabled
	}
	log.updateDebug()
}

// updateDebug recalculates per-logger debug state. Called with the lock held.
func (log *logging) updateDebug() {
	for src, l := range log.loggers {
		l.debug = log.debug.enabled(src)
	}
}

func (l *logger) Source() string {
	return l.source
}

func (l *logger) EnableDebug(enable bool) bool {
	log.Lock()
	defer log.Unlock()

	old := l.debug
	l.debug = enable
	log.debug[l.source] = enable

	return old
}

func (l *logger) DebugEnabled() bool {
	log.RLock()
	defer log.RUnlock()
	return l.debug
}

func (l *logger) Debug(format string, args ...interface{}) {
	if b, ok := l.backend(LevelDebug); ok {
		b.Log(LevelDebug, l.source, format, args...)
	}
}

func (l *logger) Info(format string, args ...interface{}) {
	if b, ok := l.backend(LevelInfo); ok {
		b.Log(LevelInfo, l.source, format, args...)
	}
}

func (l *logger) Warn(format string, args ...interface{}) {
	if b, ok := l.backend(LevelWarn); ok {
		b.Log(LevelWarn, l.source, format, args...)
	}
}

func (l *logger) Error(format string, args ...interface{}) {
	if b, ok := l.backend(LevelError); ok {
		b.Log(LevelError, l.source, format, args...)
	}
}

func (l *logger) Fatal(format string, args ...interface{}) {
	b, _ := l.backend(LevelFatal)
	b.Log(LevelFatal, l.source, format, args...)
	os.Exit(1)
}

func (l *logger) Panic(format string, args ...interface{}) {
	b, _ := l.backend(LevelPanic)
	b.Log(LevelPanic, l.source, format, args...)
	panic(fmt.Sprintf(l.source+": "+format, args...))
}

func (l *logger) DebugBlock(prefix string, format string, args ...interface{}) {
	if b, ok := l.backend(LevelDebug); ok {
		b.Block(LevelDebug, l.source, prefix, format, args...)
	}
}

func (l *logger) InfoBlock(prefix string, format string, args ...interface{}) {
	if b, ok := l.backend(LevelInfo); ok {
		b.Block(LevelInfo, l.source, prefix, format, args...)
	}
}

func (l *logger) WarnBlock(prefix string, format string, args ...interface{}) {
	if b, ok := l.backend(LevelWarn); ok {
		b.Block(LevelWarn, l.source, prefix, format, args...)
	}
}

func (l *logger) ErrorBlock(prefix string, format string, args ...interface{}) {
	if b, ok := l.backend(LevelError); ok {
		b.Block(LevelError, l.source, prefix, format, args...)
	}
}

// backend returns the active backend and whether a message of level should be emitted.
func (l *logger) backend(level Level) (Backend, bool) {
	log.RLock()
	defer log.RUnlock()

	if level == LevelDebug {
		return log.active, l.debug
	}
	return log.active, level >= log.level
}
