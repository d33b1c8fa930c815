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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crac/memcheck/pkg/procmaps"
)

func TestParseAddresses(t *testing.T) {
	tcases := []struct {
		name     string
		args     []string
		expected []uint64
		invalid  bool
	}{
		{
			name:     "none",
			expected: []uint64{},
		},
		{
			name:     "plain and prefixed",
			args:     []string{"1000", "0x7F2A1C000000", "0Xff"},
			expected: []uint64{0x1000, 0x7f2a1c000000, 0xff},
		},
		{
			name:    "not hex",
			args:    []string{"1000", "0xzz"},
			invalid: true,
		},
		{
			name:    "negative",
			args:    []string{"-1"},
			invalid: true,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			addrs, err := parseAddresses(tc.args)
			if tc.invalid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, addrs)
		})
	}
}

func TestDescribe(t *testing.T) {
	r := procmaps.NewMapsReader()
	_, err := r.LoadFrom(strings.NewReader("0000-1000 r-xp 0 00:00 0\n2000-3000 rw-p 0 00:00 0\n"))
	require.NoError(t, err)

	require.Equal(t, "0x500 mapped=true r=true w=false x=true [0 - 1000] r-xp", describe(r, 0x500))
	require.Equal(t, "0x1800 mapped=false r=false w=false x=false", describe(r, 0x1800))
	require.Equal(t, "0x2500 mapped=true r=true w=true x=false [2000 - 3000] rw-p", describe(r, 0x2500))
}
