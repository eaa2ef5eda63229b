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

func TestFCBPoolAcquireRelease(t *testing.T) {
	pool := newFCBPool(2)
	assert.Equal(t, 2, pool.available())

	a := pool.acquire()
	require.NotNil(t, a)
	assert.Equal(t, 1, pool.available())
	assert.Equal(t, 1, a.refcount)

	b := pool.acquire()
	require.NotNil(t, b)
	assert.Equal(t, 0, pool.available())

	assert.Nil(t, pool.acquire())

	pool.release(a)
	assert.Equal(t, 1, pool.available())
}

func TestReserveIsAllOrNothing(t *testing.T) {
	k := New(Config{MaxProc: 1, MaxFileID: 2, MaxPort: 8, PipeBufferSize: 4})
	proc := &processControlBlock{fids: newFidTable(2)}

	fids, fcbs, err := k.reserve(proc.fids, 3)
	assert.ErrorIs(t, err, errExhausted)
	assert.Nil(t, fids)
	assert.Nil(t, fcbs)

	fids, fcbs, err = k.reserve(proc.fids, 2)
	require.NoError(t, err)
	assert.Len(t, fids, 2)
	assert.Len(t, fcbs, 2)
	assert.Equal(t, 0, k.fcbs.available())
}

func TestCloseFidDecrefsAndClosesStream(t *testing.T) {
	k := New(Config{MaxProc: 1, MaxFileID: 2, MaxPort: 8, PipeBufferSize: 4})
	proc := &processControlBlock{fids: newFidTable(2)}

	fids, fcbs, err := k.reserve(proc.fids, 1)
	require.NoError(t, err)

	closed := false
	fcbs[0].stream = closeRecorder{onClose: func() { closed = true }}

	require.NoError(t, k.closeFid(proc.fids, fids[0]))
	assert.True(t, closed)
	assert.Nil(t, proc.fids.get(fids[0]))

	assert.ErrorIs(t, k.closeFid(proc.fids, fids[0]), errBadArgument)
}

// closeRecorder is a minimal streamOps stub for exercising decref's
// close-on-zero-refcount path without a real pipe or socket.
type closeRecorder struct {
	onClose func()
}

func (closeRecorder) Read([]byte) (int, error)  { return 0, errUnsupported }
func (closeRecorder) Write([]byte) (int, error) { return 0, errUnsupported }
func (c closeRecorder) Close() error {
	if c.onClose != nil {
		c.onClose()
	}
	return nil
}
