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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/crac/memcheck/pkg/procmaps"
)

// parseAddresses parses hexadecimal addresses, with or without a 0x prefix.
func parseAddresses(args []string) ([]uint64, error) {
	addrs := make([]uint64, 0, len(args))
	for _, arg := range args {
		hex := strings.TrimPrefix(strings.ToLower(arg), "0x")
		addr, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return nil, errors.Errorf("invalid address %q, expected hexadecimal", arg)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// describe reports the mapping status of addr.
func describe(r *procmaps.MapsReader, addr uint64) string {
	mr, ok := r.Lookup(addr)
	if !ok {
		return fmt.Sprintf("%#x mapped=false r=false w=false x=false", addr)
	}
	return fmt.Sprintf("%#x mapped=true r=%v w=%v x=%v %s %s", addr,
		mr.IsReadable(), mr.IsWritable(), mr.IsExecutable(), mr.String(), mr.Permissions())
}
