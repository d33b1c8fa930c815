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
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// BackendFn creates a backend instance.
type BackendFn func() Backend

// Backend is a logger backend, the entity that actually emits messages.
type Backend interface {
	// Name returns the name of this backend.
	Name() string
	// Log emits log messages with the given severity, source, and Printf-like arguments.
	Log(Level, string, string, ...interface{})
	// Block emits a multi-line log messages, with an additional line prefix.
	Block(Level, string, string, string, ...interface{})
	// SetSourceAlignment sets the maximum prefix length for optional alignment.
	SetSourceAlignment(int)
}

const (
	// FmtBackendName is the name of our simple fmt-based logging backend.
	FmtBackendName = "fmt"
)

// RegisterBackend registers a logger backend.
func RegisterBackend(name string, fn BackendFn) {
	log.Lock()
	defer log.Unlock()
	log.backends[name] = fn
}

// SetBackend activates the named logger backend.
func SetBackend(name string) error {
	log.Lock()
	defer log.Unlock()

	if log.active != nil && log.active.Name() == name {
		return nil
	}

	fn, ok := log.backends[name]
	if !ok {
		return loggerError("unknown logger backend %q (available: %s)", name,
			strings.Join(log.backendNames(), ","))
	}

	log.active = fn()
	log.active.SetSourceAlignment(log.align)

	return nil
}

// ActiveBackend returns the name of the active logger backend.
func ActiveBackend() string {
	log.RLock()
	defer log.RUnlock()
	return log.active.Name()
}

func (log *logging) backendNames() []string {
	names := make([]string, 0, len(log.backends))
	for name := range log.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//
// fmt backend, the default
//

var fmtTags = map[Level]string{
	LevelDebug: "D: ",
	LevelInfo:  "I: ",
	LevelWarn:  "W: ",
	LevelError: "E: ",
	LevelFatal: "FATAL ERROR: ",
	LevelPanic: "PANIC: ",
}

type fmtBackend struct {
	sync.Mutex
	w     io.Writer
	align int
}

func newFmtBackend(w io.Writer) *fmtBackend {
	return &fmtBackend{w: w}
}

func (*fmtBackend) Name() string {
	return FmtBackendName
}

func (f *fmtBackend) Log(level Level, source, format string, args ...interface{}) {
	f.emit(level, source, "", fmt.Sprintf(format, args...))
}

func (f *fmtBackend) Block(level Level, source, prefix, format string, args ...interface{}) {
	f.emit(level, source, prefix, fmt.Sprintf(format, args...))
}

func (f *fmtBackend) SetSourceAlignment(align int) {
	f.Lock()
	defer f.Unlock()
	f.align = align
}

func (f *fmtBackend) emit(level Level, source, prefix, msg string) {
	f.Lock()
	defer f.Unlock()

	suflen := (f.align - len(source)) / 2
	prelen := f.align - (len(source) + suflen)
	if suflen < 0 || prelen < 0 {
		suflen, prelen = 0, 0
	}
	src := "[" + fmt.Sprintf("%*s", prelen, "") + source + fmt.Sprintf("%*s", suflen, "") + "] "

	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintln(f.w, fmtTags[level]+src+prefix+line)
	}
}

func loggerError(format string, args ...interface{}) error {
	return fmt.Errorf("logger: "+format, args...)
}

func init() {
	RegisterBackend(FmtBackendName, func() Backend { return newFmtBackend(os.Stderr) })
}
