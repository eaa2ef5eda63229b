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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		MaxProc:             8,
		MaxFileID:           8,
		MaxPort:             64,
		PipeBufferSize:      4096,
		ProcInfoMaxArgsSize: 64,
		MaxSchedulerThreads: 64,
	}
}

// TestPipeSingleShot covers a short write, a close of the write end, then
// a read that returns the bytes followed by end-of-stream.
func TestPipeSingleShot(t *testing.T) {
	k := New(testConfig())
	initPid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: initPid}

	r, w, err := k.Pipe(ctx)
	require.NoError(t, err)

	n, err := k.Write(ctx, w, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, k.Close(ctx, w))

	buf := make([]byte, 10)
	n, err = k.Read(ctx, r, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf[:n]))

	n, err = k.Read(ctx, r, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// TestPipeBackpressure checks that a writer pushing more bytes than the
// buffer holds completes once a reader drains it, and a reader draining in
// smaller chunks sees every byte in order.
func TestPipeBackpressure(t *testing.T) {
	k := New(testConfig())
	initPid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: initPid}

	r, w, err := k.Pipe(ctx)
	require.NoError(t, err)

	const total = 5000
	payload := make([]byte, total)
	for i := range payload {
		payload[i] = byte(i)
	}

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		off := 0
		for off < total {
			end := off + 777
			if end > total {
				end = total
			}
			n, err := k.Write(ctx, w, payload[off:end])
			if err != nil {
				t.Errorf("write: %v", err)
				return
			}
			off += n
		}
		k.Close(ctx, w)
	}()

	var got []byte
	buf := make([]byte, 1000)
	for {
		n, err := k.Read(ctx, r, buf)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}

	select {
	case <-writeDone:
	case <-time.After(2 * time.Second):
		t.Fatal("writer goroutine did not finish")
	}

	assert.Equal(t, payload, got)
}

func TestPipeWriteAfterReaderGone(t *testing.T) {
	k := New(testConfig())
	initPid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: initPid}

	r, w, err := k.Pipe(ctx)
	require.NoError(t, err)
	require.NoError(t, k.Close(ctx, r))

	_, err = k.Write(ctx, w, []byte("x"))
	assert.ErrorIs(t, err, errPeerGone)
}
