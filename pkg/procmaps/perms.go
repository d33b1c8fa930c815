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
	"github.com/pkg/errors"
)

// Perms is the access permissions of a mapping as a bitmask.
type Perms uint8

const (
	// PermRead is set for readable mappings.
	PermRead Perms = 1 << iota
	// PermWrite is set for writable mappings.
	PermWrite
	// PermExec is set for executable mappings.
	PermExec
	// PermPrivate is set for private (copy-on-write) mappings.
	PermPrivate
	// PermShared is set for shared mappings.
	PermShared
)

// minPermsLen is the shortest permission descriptor we accept: "rwx".
const minPermsLen = 3

// ParsePerms parses a permission descriptor like "r-xp". Positions 0-2 are
// read, write and execute. The optional position 3 is 'p' or 's'.
func ParsePerms(s string) (Perms, error) {
	if len(s) < minPermsLen {
		return 0, errors.Wrapf(ErrMalformedPermissions, "%q is shorter than %d characters",
			s, minPermsLen)
	}

	var p Perms
	if s[0] == 'r' {
		p |= PermRead
	}
	if s[1] == 'w' {
		p |= PermWrite
	}
	if s[2] == 'x' {
		p |= PermExec
	}
	if len(s) > minPermsLen {
		switch s[3] {
		case 'p':
			p |= PermPrivate
		case 's':
			p |= PermShared
		}
	}

	return p, nil
}

// Has checks if all bits of q are set in p.
func (p Perms) Has(q Perms) bool {
	return p&q == q
}

// String returns p in the 4-character form used by the kernel.
func (p Perms) String() string {
	b := [4]byte{'-', '-', '-', '-'}
	if p.Has(PermRead) {
		b[0] = 'r'
	}
	if p.Has(PermWrite) {
		b[1] = 'w'
	}
	if p.Has(PermExec) {
		b[2] = 'x'
	}
	switch {
	case p.Has(PermPrivate):
		b[3] = 'p'
	case p.Has(PermShared):
		b[3] = 's'
	}
	return string(b[:])
}
