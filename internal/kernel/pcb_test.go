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

func exitWith(code int) Task {
	return func(k *Kernel, self *ThreadContext, args []byte) int {
		return code
	}
}

// TestProcessWait checks that a parent reaps its child's exit status
// exactly once.
func TestProcessWait(t *testing.T) {
	k := New(testConfig())
	// Idle takes pid 0 and the parent is init (pid 1), so the child gets an
	// ordinary pid whose teardown notifies its parent.
	_, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	parentPid, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	parentCtx := &ThreadContext{Pid: parentPid}

	childPid, err := k.Exec(parentCtx, exitWith(42), nil)
	require.NoError(t, err)

	var status int
	waitedPid, err := k.WaitChild(parentCtx, NoProc, &status)
	require.NoError(t, err)
	assert.Equal(t, childPid, waitedPid)
	assert.Equal(t, 42, status)

	_, err = k.WaitChild(parentCtx, NoProc, &status)
	assert.ErrorIs(t, err, errNotChild)
}

// TestReparentToInit checks that when a process with a live child exits,
// the child is reparented to init rather than left dangling, and init can
// eventually reap it.
func TestReparentToInit(t *testing.T) {
	k := New(testConfig())

	// Boot so pid 0 (idle) and pid 1 (init, parentless and quiescent here)
	// exist; the grandparent/parent/child chain is built under init.
	idle, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, IdlePid, idle)
	init, err := k.Exec(nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, InitPid, init)
	initCtx := &ThreadContext{Pid: init}

	grandparentPid, err := k.Exec(initCtx, nil, nil)
	require.NoError(t, err)
	grandparentCtx := &ThreadContext{Pid: grandparentPid}

	childExited := make(chan struct{})
	parentTask := func(kk *Kernel, self *ThreadContext, args []byte) int {
		childTask := func(kk2 *Kernel, childSelf *ThreadContext, args []byte) int {
			<-childExited
			return 7
		}
		_, err := kk.Exec(self, childTask, nil)
		if err != nil {
			return 1
		}
		return 0
	}
	parentPid, err := k.Exec(grandparentCtx, parentTask, nil)
	require.NoError(t, err)

	var status int
	waited, err := k.WaitChild(grandparentCtx, NoProc, &status)
	require.NoError(t, err)
	assert.Equal(t, parentPid, waited)
	assert.Equal(t, 0, status)

	// The child is now reparented to init: init's WaitChild reaps it once
	// it exits, blocking until then.
	close(childExited)

	var childStatus int
	reapedChild, err := k.WaitChild(initCtx, NoProc, &childStatus)
	require.NoError(t, err)
	assert.NotEqual(t, NoProc, reapedChild)
	assert.Equal(t, 7, childStatus)
}
