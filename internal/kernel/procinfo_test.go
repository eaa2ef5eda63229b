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

package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInfoRejectsShortBuffer(t *testing.T) {
	k := New(testConfig())
	pid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: pid}

	fid, err := k.OpenInfo(ctx)
	require.NoError(t, err)

	tooSmall := make([]byte, 4)
	_, err = k.Read(ctx, fid, tooSmall)
	assert.ErrorIs(t, err, errShortBuffer)
}

func TestOpenInfoEnumeratesProcesses(t *testing.T) {
	k := New(testConfig())
	pid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: pid}

	_, err = k.Exec(ctx, exitWith(0), []byte("args"))
	require.NoError(t, err)

	fid, err := k.OpenInfo(ctx)
	require.NoError(t, err)

	recSize := procInfoRecordSize(k.cfg.ProcInfoMaxArgsSize)
	buf := make([]byte, recSize)

	seen := 0
	for {
		n, err := k.Read(ctx, fid, buf)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		assert.Equal(t, recSize, n)
		seen++
		if seen > k.cfg.MaxProc {
			t.Fatal("procinfo stream did not terminate")
		}
	}
	assert.GreaterOrEqual(t, seen, 1)
}

func TestEncodeProcInfoLayout(t *testing.T) {
	rec := ProcInfo{Pid: 3, PPid: 1, Alive: true, ThreadCount: 2, Argl: 4, Args: []byte("abcd")}
	buf := encodeProcInfo(rec, 8)
	assert.Equal(t, procInfoRecordSize(8), len(buf))
	assert.Equal(t, byte(1), buf[8])
	assert.Equal(t, []byte("abcd"), buf[25:29])
}
