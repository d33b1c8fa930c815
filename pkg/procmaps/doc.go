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

/*
Package procmaps reads the memory map of a process from /proc/<pid>/maps
and answers point queries about it: whether an address is mapped, and
whether the mapping containing it is readable, writable or executable.

It is meant for validating addresses on the restore path of a
checkpoint/restore facility before they are dereferenced or snapshotted.

Usage

	r := procmaps.NewMapsReader()
	if _, err := r.Load(); err != nil {
		// ErrSourceUnavailable, or an I/O error while reading
	}
	if r.IsAddressReadable(addr) {
		...
	}

A MapsReader takes a single snapshot per Load. Every Load replaces the
previous table. Lines with malformed addresses or permissions are skipped
and reported through Skipped, they never fail a Load.

A MapsReader is not safe for concurrent use. Callers must serialize Load
against queries.
*/
package procmaps
