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
)

// MemoryRange is a half-open interval [start, end) of mapped virtual
// address space with uniform access permissions.
type MemoryRange struct {
	start uint64
	end   uint64
	perms Perms
	desc  string
}

// NewMemoryRange creates a range from its bounds and permission descriptor.
// Descriptors shorter than three characters are rejected. A start above
// end is accepted, such a range contains no address.
func NewMemoryRange(start, end uint64, perms string) (*MemoryRange, error) {
	p, err := ParsePerms(perms)
	if err != nil {
		return nil, err
	}
	return &MemoryRange{start: start, end: end, perms: p, desc: perms}, nil
}

// Start returns the first address of the range.
func (mr *MemoryRange) Start() uint64 {
	return mr.start
}

// End returns the first address past the range.
func (mr *MemoryRange) End() uint64 {
	return mr.end
}

// Size returns the length of the range in bytes.
func (mr *MemoryRange) Size() uint64 {
	if mr.end < mr.start {
		return 0
	}
	return mr.end - mr.start
}

// Permissions returns the permission descriptor as read from the source.
func (mr *MemoryRange) Permissions() string {
	return mr.desc
}

// Perms returns the parsed permissions.
func (mr *MemoryRange) Perms() Perms {
	return mr.perms
}

// Contains checks if addr is in [start, end).
func (mr *MemoryRange) Contains(addr uint64) bool {
	return addr >= mr.start && addr < mr.end
}

// IsReadable checks if the range is mapped readable.
func (mr *MemoryRange) IsReadable() bool {
	return mr.perms.Has(PermRead)
}

// IsWritable checks if the range is mapped writable.
func (mr *MemoryRange) IsWritable() bool {
	return mr.perms.Has(PermWrite)
}

// IsExecutable checks if the range is mapped executable.
func (mr *MemoryRange) IsExecutable() bool {
	return mr.perms.Has(PermExec)
}

// IsPrivate checks if the range is a private copy-on-write mapping.
func (mr *MemoryRange) IsPrivate() bool {
	return mr.perms.Has(PermPrivate)
}

// IsShared checks if the range is a shared mapping.
func (mr *MemoryRange) IsShared() bool {
	return mr.perms.Has(PermShared)
}

// Equals compares two ranges, including their permission descriptors.
func (mr *MemoryRange) Equals(other *MemoryRange) bool {
	if mr == nil || other == nil {
		return mr == other
	}
	return *mr == *other
}

func (mr *MemoryRange) String() string {
	return fmt.Sprintf("[%x - %x]", mr.start, mr.end)
}
