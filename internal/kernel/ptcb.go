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

	"github.com/tinyos-go/tinyos/internal/logger"
	"github.com/tinyos-go/tinyos/internal/metrics"
)

// threadControlBlock tracks one thread's lifecycle within its process.
// args is aliased, not copied: CreateThread's caller must keep it alive for
// the thread's lifetime.
type threadControlBlock struct {
	task Task
	args []byte

	exited   bool
	detached bool
	exitval  int

	exitCV   *sync.Cond
	refcount int
}

// spawnThreadLocked allocates a PTCB in proc, wires task/args onto it, and
// returns its handle. Caller holds k.mu and is responsible for actually
// running the thread (via k.sched) and bumping proc.threadCount.
func (k *Kernel) spawnThreadLocked(proc *processControlBlock, task Task, args []byte) ThreadID {
	tid, ptcb := proc.allocThread()
	ptcb.task = task
	ptcb.args = args
	ptcb.exitCV = sync.NewCond(&k.mu)
	return tid
}

// runThread is the body of every kernel thread goroutine: run the task,
// then tear down via ThreadExit.
func (k *Kernel) runThread(ctx *ThreadContext, task Task, args []byte) {
	exitval := task(k, ctx, args)
	k.ThreadExit(ctx, exitval)
}

// CreateThread starts a new thread in the calling process running task.
// task == nil allocates a thread handle and counts it as a live thread of
// the process, but runs nothing: such a thread never calls ThreadExit.
func (k *Kernel) CreateThread(ctx *ThreadContext, task Task, args []byte) ThreadID {
	k.mu.Lock()
	proc := k.mustLive(ctx.Pid)
	tid := k.spawnThreadLocked(proc, task, args)
	proc.threadCount++
	k.mu.Unlock()

	if task != nil {
		childCtx := &ThreadContext{Pid: ctx.Pid, Tid: tid}
		k.sched.Spawn(func() {
			k.runThread(childCtx, task, args)
		})
	}
	return tid
}

// ThreadSelf implements sys_ThreadSelf.
func (k *Kernel) ThreadSelf(ctx *ThreadContext) ThreadID { return ctx.Tid }

// ThreadJoin blocks until tid exits or is detached, then reports its exit
// value. Joining the calling thread's own tid always fails.
func (k *Kernel) ThreadJoin(ctx *ThreadContext, tid ThreadID, exitval *int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	ptcb := proc.lookupThread(tid)
	if ptcb == nil || tid == ctx.Tid {
		return errUnknownThread
	}

	ptcb.refcount++
	for !ptcb.exited && !ptcb.detached {
		ptcb.exitCV.Wait()
	}
	ptcb.refcount--

	if ptcb.detached {
		return errDetached
	}
	if exitval != nil {
		*exitval = ptcb.exitval
	}
	if ptcb.refcount == 0 {
		proc.freeThread(tid)
	}
	return nil
}

// ThreadDetach marks tid as detached and releases any joiners with
// errDetached. Its slot is freed by process teardown once it has exited.
func (k *Kernel) ThreadDetach(ctx *ThreadContext, tid ThreadID) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	ptcb := proc.lookupThread(tid)
	if ptcb == nil {
		return errUnknownThread
	}
	if ptcb.exited {
		return errWrongState
	}
	ptcb.detached = true
	ptcb.refcount = 0
	ptcb.exitCV.Broadcast()
	return nil
}

// ThreadExit records a thread's exit value and wakes its joiners. When this
// is the last live thread of the process it performs process teardown.
func (k *Kernel) ThreadExit(ctx *ThreadContext, exitval int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	ptcb := proc.lookupThread(ctx.Tid)
	if ptcb != nil {
		ptcb.exited = true
		ptcb.exitval = exitval
		ptcb.exitCV.Broadcast()
	}
	proc.threadCount--

	if proc.threadCount == 0 {
		k.teardownProcess(ctx.Pid, proc)
	}
	metrics.Default().ThreadReaped()
}

// teardownProcess runs once a process's last thread has exited: it reaps
// thread slots, reparents surviving children to init, hands off any
// already-exited children, and releases the process's fids. It frees only
// PTCBs with refcount == 0 && exited: one still referenced by a blocked
// joiner is left for that joiner to free via ThreadJoin, so a join never
// dereferences memory another joiner already reclaimed.
func (k *Kernel) teardownProcess(pid Pid, proc *processControlBlock) {
	for idx, slot := range proc.threads {
		if slot.ptcb != nil && slot.ptcb.exited && slot.ptcb.refcount == 0 {
			proc.freeThread(ThreadID{index: int32(idx), generation: slot.generation})
		}
	}

	if pid != InitPid {
		initProc := k.procs[InitPid]
		for _, child := range proc.children {
			k.procs[child].parent = InitPid
			initProc.children = append(initProc.children, child)
		}
		proc.children = nil

		if len(proc.exited) > 0 {
			initProc.exited = append(initProc.exited, proc.exited...)
			proc.exited = nil
			initProc.childExit.Broadcast()
		}

		parent := k.procs[proc.parent]
		parent.exited = append(parent.exited, pid)
		parent.childExit.Broadcast()
	}

	if len(proc.children) != 0 || len(proc.exited) != 0 {
		panic("kernel: process teardown left dangling children or exited list")
	}

	proc.args = nil
	for fid, fcb := range proc.fids.slots {
		if fcb != nil {
			proc.fids.slots[fid] = nil
			if err := k.decref(fcb); err != nil {
				logger.Warnf("pid %d: closing fid %d during teardown: %v", pid, fid, err)
			}
		}
	}
	proc.mainThread = ThreadID{}
	proc.pstate = pstateZombie
	metrics.Default().ProcessZombified()
}
