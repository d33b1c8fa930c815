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
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrSourceUnavailable is returned by Load when the maps source can't be opened.
	ErrSourceUnavailable = errors.New("memory map source unavailable")
	// ErrMalformedRange is reported for lines with an unparseable address range.
	ErrMalformedRange = errors.New("malformed address range")
	// ErrMalformedPermissions is reported for missing or too short permissions.
	ErrMalformedPermissions = errors.New("malformed permissions")
)

// SourceError is returned by Load when the maps source can't be opened.
// It matches ErrSourceUnavailable and unwraps to the underlying error.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("memory map source %s unavailable: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSourceUnavailable) hold.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// MalformedLineError describes a skipped line of the maps source.
type MalformedLineError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the line itself.
	Text string
	// Err wraps ErrMalformedRange or ErrMalformedPermissions.
	Err error
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *MalformedLineError) Unwrap() error {
	return e.Err
}

func procmapsError(format string, args ...interface{}) error {
	return fmt.Errorf("procmaps: "+format, args...)
}
