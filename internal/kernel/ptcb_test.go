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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestThreadJoinDetachRace checks that detaching a thread before it is
// joined makes the join fail rather than block, and the thread still runs
// to completion.
func TestThreadJoinDetachRace(t *testing.T) {
	k := New(testConfig())
	// Idle takes pid 0; the thread runs in init (pid 1), the parentless
	// process whose teardown has no parent to notify.
	_, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	pid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: pid}

	gate := make(chan struct{})
	var ran sync.WaitGroup
	ran.Add(1)
	tid := k.CreateThread(ctx, func(kk *Kernel, self *ThreadContext, args []byte) int {
		defer ran.Done()
		<-gate
		return 9
	}, nil)

	require.NoError(t, k.ThreadDetach(ctx, tid))
	close(gate)

	var exitval int
	err = k.ThreadJoin(ctx, tid, &exitval)
	assert.ErrorIs(t, err, errDetached)

	ran.Wait() // the detached thread still runs to completion
}

func TestThreadJoinReturnsExitValue(t *testing.T) {
	k := New(testConfig())
	// Idle takes pid 0; the thread runs in init (pid 1).
	_, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	pid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: pid}

	tid := k.CreateThread(ctx, func(kk *Kernel, self *ThreadContext, args []byte) int {
		return 123
	}, nil)

	var exitval int
	require.NoError(t, k.ThreadJoin(ctx, tid, &exitval))
	assert.Equal(t, 123, exitval)
}

func TestJoinSelfFails(t *testing.T) {
	k := New(testConfig())
	pid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	ctx := &ThreadContext{Pid: pid}

	tid := k.CreateThread(ctx, nil, nil)
	selfCtx := &ThreadContext{Pid: pid, Tid: tid}

	var exitval int
	err = k.ThreadJoin(selfCtx, tid, &exitval)
	assert.ErrorIs(t, err, errUnknownThread)
}
