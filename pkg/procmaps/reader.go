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

package procmaps

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	logger "github.com/crac/memcheck/pkg/log"
)

const (
	// DefaultMapsPath is the memory map of the calling process.
	DefaultMapsPath = "/proc/self/maps"
	// maxLineLen is the longest maps line we accept, pathnames included.
	maxLineLen = 1024 * 1024
	// malformedLogInterval is the minimum interval between identical warnings.
	malformedLogInterval = time.Minute
)

var (
	log = logger.NewLogger("procmaps")
	// warn is shared by all readers using the package logger.
	warn = logger.RateLimit(log, logger.Interval(malformedLogInterval))
)

// PidMapsPath returns the path of the memory map of the given process.
func PidMapsPath(pid int) string {
	return "/proc/" + strconv.Itoa(pid) + "/maps"
}

// Option configures a MapsReader.
type Option func(*MapsReader)

// WithPath reads the memory map from the given file.
func WithPath(path string) Option {
	return func(r *MapsReader) {
		r.path = path
	}
}

// WithPid reads the memory map of the given process.
func WithPid(pid int) Option {
	return func(r *MapsReader) {
		r.path = PidMapsPath(pid)
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(r *MapsReader) {
		r.log = l
		r.warn = logger.RateLimit(l, logger.Interval(malformedLogInterval))
	}
}

// MapsReader is a snapshot of the memory map of a process.
type MapsReader struct {
	path    string
	log     logger.Logger
	warn    logger.Logger
	ranges  []MemoryRange
	skipped *multierror.Error
}

// NewMapsReader creates a MapsReader. By default it reads DefaultMapsPath.
func NewMapsReader(options ...Option) *MapsReader {
	r := &MapsReader{
		path: DefaultMapsPath,
		log:  log,
		warn: warn,
	}
	for _, o := range options {
		o(r)
	}

	return r
}

// Path returns the path of the maps source.
func (r *MapsReader) Path() string {
	return r.path
}

// Load reads the maps source, replacing any previously loaded ranges, and
// returns the number of ranges loaded. Failing to open the source returns a
// *SourceError. Ranges read before an I/O error are kept.
func (r *MapsReader) Load() (int, error) {
	r.reset()

	f, err := os.Open(r.path)
	if err != nil {
		return 0, &SourceError{Path: r.path, Err: err}
	}
	defer f.Close()

	n, err := r.parse(f)
	if err != nil {
		return n, errors.Wrapf(err, "failed to read %s", r.path)
	}

	r.log.Debug("loaded %d address ranges from %s", n, r.path)

	return n, nil
}

// LoadFrom reads maps lines from rd, replacing any previously loaded ranges.
func (r *MapsReader) LoadFrom(rd io.Reader) (int, error) {
	r.reset()
	return r.parse(rd)
}

func (r *MapsReader) reset() {
	r.ranges = nil
	r.skipped = nil
}

// parse appends a range for every valid line of rd.
func (r *MapsReader) parse(rd io.Reader) (int, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLen)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		// Example of /proc/pid/maps lines:
		// 55d74cf13000-55d74cf14000 rw-p 00003000 fe:03 1194719   /usr/bin/python3.8
		// 7f3bcfe69000-7f3c4fe6a000 rw-p 00000000 00:00 0
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		bounds := strings.Split(fields[0], "-")
		if len(bounds) != 2 {
			r.log.Debug("skipping line %d (%q): no address range", lineNo, line)
			continue
		}

		start, err := strconv.ParseUint(bounds[0], 16, 64)
		if err != nil {
			r.malformed(lineNo, line, errors.Wrapf(ErrMalformedRange,
				"invalid start address %q: %v", bounds[0], err))
			continue
		}
		end, err := strconv.ParseUint(bounds[1], 16, 64)
		if err != nil {
			r.malformed(lineNo, line, errors.Wrapf(ErrMalformedRange,
				"invalid end address %q: %v", bounds[1], err))
			continue
		}

		if len(fields) < 2 {
			r.malformed(lineNo, line, errors.Wrap(ErrMalformedPermissions, "missing permissions"))
			continue
		}
		mr, err := NewMemoryRange(start, end, fields[1])
		if err != nil {
			r.malformed(lineNo, line, err)
			continue
		}

		r.ranges = append(r.ranges, *mr)
	}

	return len(r.ranges), scanner.Err()
}

// malformed records and reports a skipped line.
func (r *MapsReader) malformed(lineNo int, line string, err error) {
	lerr := &MalformedLineError{Line: lineNo, Text: line, Err: err}
	r.skipped = multierror.Append(r.skipped, lerr)
	r.warn.Warn("%s: skipping %v", r.path, lerr)
}

// Skipped returns the lines skipped by the last load as a *multierror.Error
// of *MalformedLineError, or nil if no line was skipped.
func (r *MapsReader) Skipped() error {
	return r.skipped.ErrorOrNil()
}

// Lookup returns the first loaded range containing addr.
func (r *MapsReader) Lookup(addr uint64) (MemoryRange, bool) {
	for i := range r.ranges {
		if r.ranges[i].Contains(addr) {
			return r.ranges[i], true
		}
	}
	return MemoryRange{}, false
}

// IsAddressMapped checks if any loaded range contains addr.
func (r *MapsReader) IsAddressMapped(addr uint64) bool {
	_, ok := r.Lookup(addr)
	return ok
}

// IsAddressReadable checks if the first range containing addr is readable.
func (r *MapsReader) IsAddressReadable(addr uint64) bool {
	mr, ok := r.Lookup(addr)
	return ok && mr.IsReadable()
}

// IsAddressWritable checks if the first range containing addr is writable.
func (r *MapsReader) IsAddressWritable(addr uint64) bool {
	mr, ok := r.Lookup(addr)
	return ok && mr.IsWritable()
}

// IsAddressExecutable checks if the first range containing addr is executable.
func (r *MapsReader) IsAddressExecutable(addr uint64) bool {
	mr, ok := r.Lookup(addr)
	return ok && mr.IsExecutable()
}

// Ranges returns a copy of the loaded ranges in source order.
func (r *MapsReader) Ranges() []MemoryRange {
	ranges := make([]MemoryRange, len(r.ranges))
	copy(ranges, r.ranges)
	return ranges
}

// Len returns the number of loaded ranges.
func (r *MapsReader) Len() int {
	return len(r.ranges)
}

// Dump logs the loaded ranges.
func (r *MapsReader) Dump(prefix string) {
	lines := make([]string, 0, len(r.ranges))
	for i := range r.ranges {
		mr := &r.ranges[i]
		lines = append(lines, mr.String()+" "+mr.Permissions())
	}
	r.log.InfoBlock(prefix, "%s: %d address ranges\n%s", r.path, len(lines),
		strings.Join(lines, "\n"))
}
