// Copyright 2026 The tinyos-go Authors.
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

package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteSizeUnmarshalText(t *testing.T) {
	cases := map[string]ByteSize{
		"512B": 512,
		"4KiB": 4 << 10,
		"1MiB": 1 << 20,
		"64":   64,
	}
	for text, want := range cases {
		var b ByteSize
		require.NoError(t, b.UnmarshalText([]byte(text)))
		assert.Equal(t, want, b)
	}
}

func TestByteSizeUnmarshalTextRejectsGarbage(t *testing.T) {
	var b ByteSize
	assert.Error(t, b.UnmarshalText([]byte("not-a-size")))
}

func TestLogSeverityUnmarshalText(t *testing.T) {
	var s LogSeverity
	require.NoError(t, s.UnmarshalText([]byte("info")))
	assert.Equal(t, LogSeverity("INFO"), s)

	assert.Error(t, s.UnmarshalText([]byte("LOUD")))
}

func TestLogFormatUnmarshalText(t *testing.T) {
	var f LogFormat
	require.NoError(t, f.UnmarshalText([]byte("JSON")))
	assert.Equal(t, LogFormat("json"), f)

	assert.Error(t, f.UnmarshalText([]byte("xml")))
}
