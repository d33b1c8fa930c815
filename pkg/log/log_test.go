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
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// a test Backend that records messages for verification
type testlogger struct {
	sync.Mutex
	recorded []string
}

const testLoggerName = "testlogger"

var testlog = &testlogger{}

func (l *testlogger) Name() string {
	return testLoggerName
}

func (l *testlogger) Log(level Level, source, format string, args ...interface{}) {
	l.record(level, source, fmt.Sprintf(format, args...))
}

func (l *testlogger) Block(level Level, source, prefix, format string, args ...interface{}) {
	for _, line := range strings.Split(fmt.Sprintf(format, args...), "\n") {
		l.record(level, source, prefix+line)
	}
}

func (l *testlogger) SetSourceAlignment(int) {}

func (l *testlogger) record(level Level, source, msg string) {
	l.Lock()
	defer l.Unlock()
	l.recorded = append(l.recorded, level.String()+" ["+source+"] "+msg)
}

func (l *testlogger) messages() []string {
	l.Lock()
	defer l.Unlock()
	return append([]string{}, l.recorded...)
}

func setup(t *testing.T) *testlogger {
	testlog.Lock()
	testlog.recorded = nil
	testlog.Unlock()

	require.NoError(t, SetBackend(testLoggerName))
	t.Cleanup(func() {
		SetLevel(DefaultLevel)
		_ = SetBackend(FmtBackendName)
	})
	return testlog
}

func init() {
	RegisterBackend(testLoggerName, func() Backend { return testlog })
}

func TestLevelFiltering(t *testing.T) {
	tl := setup(t)
	l := NewLogger("level-test")

	SetLevel(LevelWarn)
	l.Info("suppressed %d", 1)
	l.Warn("passed %d", 2)
	l.Error("passed %d", 3)

	require.Equal(t, []string{
		"warning [level-test] passed 2",
		"error [level-test] passed 3",
	}, tl.messages())
}

func TestDebugSources(t *testing.T) {
	tl := setup(t)
	a := NewLogger("debug-a")
	b := NewLogger("debug-b")

	a.Debug("off")
	require.Empty(t, tl.messages())

	SetDebug(true, "debug-a")
	require.True(t, a.DebugEnabled())
	require.False(t, b.DebugEnabled())
	a.Debug("on")
	b.Debug("still off")
	require.Equal(t, []string{"debug [debug-a] on"}, tl.messages())

	require.True(t, a.EnableDebug(false))
	require.False(t, a.DebugEnabled())

	SetDebug(true, "all")
	require.True(t, b.DebugEnabled())
	SetDebug(false, "*", "debug-a")
	require.False(t, b.DebugEnabled())
}

func TestBlock(t *testing.T) {
	tl := setup(t)
	l := NewLogger("block-test")

	l.InfoBlock("  <ranges> ", "first\nsecond")
	require.Equal(t, []string{
		"info [block-test]   <ranges> first",
		"info [block-test]   <ranges> second",
	}, tl.messages())
}

func TestRateLimit(t *testing.T) {
	tl := setup(t)
	rl := RateLimit(NewLogger("ratelimit-test"), Interval(time.Hour))

	for i := 0; i < 5; i++ {
		rl.Warn("malformed line %d", 1)
	}
	rl.Warn("malformed line %d", 2)

	require.Equal(t, []string{
		"warning [ratelimit-test] <rate-limited> malformed line 1",
		"warning [ratelimit-test] <rate-limited> malformed line 2",
	}, tl.messages())
}

func TestRateLimitSuppressedCount(t *testing.T) {
	tl := setup(t)
	rl := RateLimit(NewLogger("suppressed-test"), Interval(100*time.Millisecond))

	for i := 0; i < 3; i++ {
		rl.Warn("bad line")
	}
	time.Sleep(150 * time.Millisecond)
	rl.Warn("bad line")

	require.Equal(t, []string{
		"warning [suppressed-test] <rate-limited> bad line",
		"warning [suppressed-test] <rate-limited> bad line (2 identical messages suppressed)",
	}, tl.messages())
}

func TestDefaultLogger(t *testing.T) {
	tl := setup(t)
	src := Default().Source()

	Info("info %d", 1)
	Debug("hidden")
	Warn("warn %d", 2)
	Error("error %d", 3)

	require.Equal(t, []string{
		"info [" + src + "] info 1",
		"warning [" + src + "] warn 2",
		"error [" + src + "] error 3",
	}, tl.messages())
}

func TestSetBackend(t *testing.T) {
	setup(t)

	require.Error(t, SetBackend("no-such-backend"))
	require.Equal(t, testLoggerName, ActiveBackend())
	require.NoError(t, SetBackend(KlogBackendName))
	require.Equal(t, KlogBackendName, ActiveBackend())
}

func TestParseSources(t *testing.T) {
	tcases := []struct {
		name     string
		input    string
		expected srcmap
		invalid  bool
	}{
		{
			name:     "plain list",
			input:    "procmaps,config",
			expected: srcmap{"procmaps": true, "config": true},
		},
		{
			name:     "all",
			input:    "all",
			expected: srcmap{"*": true},
		},
		{
			name:     "on and off",
			input:    "on:*,off:procmaps,config",
			expected: srcmap{"*": true, "procmaps": false, "config": false},
		},
		{
			name:    "bad state",
			input:   "maybe:procmaps",
			invalid: true,
		},
		{
			name:    "too many colons",
			input:   "on:off:procmaps",
			invalid: true,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := parseSources(tc.input)
			if tc.invalid {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, m)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		level, err := ParseLevel(name)
		require.NoError(t, err)
		require.Equal(t, expected, level)
	}
	_, err := ParseLevel("chatty")
	require.Error(t, err)
}
