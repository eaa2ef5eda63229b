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

	"github.com/tinyos-go/tinyos/internal/metrics"
)

type pstate int

const (
	pstateFree pstate = iota
	pstateAlive
	pstateZombie
)

// processControlBlock holds everything the kernel tracks about one live or
// zombie process. Parent/children/exited are plain Pid slices rather than
// intrusive linked lists, since the process table already gives every
// process a stable index to reference. The free list of process slots lives
// on Kernel itself, not threaded through parent.
type processControlBlock struct {
	pstate pstate

	parent   Pid
	children []Pid
	exited   []Pid

	exitval int

	childExit *sync.Cond

	mainThread ThreadID
	task       Task
	args       []byte

	fids *fidTable

	threads     []threadSlot
	threadFree  []int32
	threadCount int
}

type threadSlot struct {
	ptcb       *threadControlBlock
	generation uint32
}

// allocThread reserves a generational handle for a new thread in proc,
// reusing a freed slot's index with a bumped generation when possible.
func (proc *processControlBlock) allocThread() (ThreadID, *threadControlBlock) {
	var idx int32
	if n := len(proc.threadFree); n > 0 {
		idx = proc.threadFree[n-1]
		proc.threadFree = proc.threadFree[:n-1]
		proc.threads[idx].generation++
	} else {
		idx = int32(len(proc.threads))
		proc.threads = append(proc.threads, threadSlot{generation: 1})
	}
	ptcb := &threadControlBlock{}
	proc.threads[idx].ptcb = ptcb
	return ThreadID{index: idx, generation: proc.threads[idx].generation}, ptcb
}

func (proc *processControlBlock) lookupThread(tid ThreadID) *threadControlBlock {
	if tid.index < 0 || int(tid.index) >= len(proc.threads) {
		return nil
	}
	slot := proc.threads[tid.index]
	if slot.ptcb == nil || slot.generation != tid.generation {
		return nil
	}
	return slot.ptcb
}

func (proc *processControlBlock) freeThread(tid ThreadID) {
	proc.threads[tid.index].ptcb = nil
	proc.threadFree = append(proc.threadFree, tid.index)
}

// ThreadContext identifies the calling process and thread. Go has no
// ambient thread-local to resolve "the current process" implicitly, so
// every syscall entry point that needs it takes one explicitly; Exec and
// CreateThread produce one for the kernel thread they spawn and hand it to
// the Task.
type ThreadContext struct {
	Pid Pid
	Tid ThreadID
}

// Exec creates a new process running call as its main thread's task. ctx is
// the calling process's thread context, or nil for the two parentless
// boot-time execs (pid 0, the idle process, and pid 1, init): call == nil
// in that case creates a quiescent process that never runs a main thread.
// NoProc indicates process table exhaustion.
func (k *Kernel) Exec(ctx *ThreadContext, call Task, args []byte) (Pid, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.freeProcs) == 0 {
		return NoProc, errExhausted
	}
	pid := k.freeProcs[len(k.freeProcs)-1]
	k.freeProcs = k.freeProcs[:len(k.freeProcs)-1]

	proc := k.procs[pid]
	*proc = processControlBlock{
		pstate:    pstateAlive,
		parent:    NoProc,
		childExit: sync.NewCond(&k.mu),
		fids:      newFidTable(k.cfg.MaxFileID),
		task:      call,
	}
	if args != nil {
		proc.args = append([]byte(nil), args...)
	}

	if ctx != nil {
		parent := k.mustLive(ctx.Pid)
		proc.parent = ctx.Pid
		parent.children = append(parent.children, pid)
		for fid, fcb := range parent.fids.slots {
			if fcb != nil {
				proc.fids.slots[fid] = fcb
				incref(fcb)
			}
		}
	}

	metrics.Default().ProcessCreated()

	if call != nil {
		tid := k.spawnThreadLocked(proc, call, proc.args)
		proc.mainThread = tid
		proc.threadCount = 1
		k.sched.Spawn(func() {
			childCtx := &ThreadContext{Pid: pid, Tid: tid}
			k.runThread(childCtx, call, proc.args)
		})
	}

	return pid, nil
}

// GetPid implements sys_GetPid.
func (k *Kernel) GetPid(ctx *ThreadContext) Pid { return ctx.Pid }

// GetPPid implements sys_GetPPid.
func (k *Kernel) GetPPid(ctx *ThreadContext) Pid {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.mustLive(ctx.Pid).parent
}

// Exit records exitval, drains all remaining children first if this is the
// init process, then delegates to ThreadExit for teardown.
func (k *Kernel) Exit(ctx *ThreadContext, exitval int) {
	k.mu.Lock()
	proc := k.mustLive(ctx.Pid)
	proc.exitval = exitval
	if ctx.Pid == InitPid {
		for {
			_, err := k.waitChildLocked(ctx, NoProc, nil)
			if err != nil {
				break
			}
		}
	}
	k.mu.Unlock()
	k.ThreadExit(ctx, exitval)
}

func removePid(s []Pid, pid Pid) []Pid {
	for i, v := range s {
		if v == pid {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (k *Kernel) cleanupZombie(child *processControlBlock, childPid Pid, status *int) {
	if status != nil {
		*status = child.exitval
	}
	parent := k.procs[child.parent]
	parent.children = removePid(parent.children, childPid)
	parent.exited = removePid(parent.exited, childPid)
	k.releaseProc(childPid)
}

func (k *Kernel) releaseProc(pid Pid) {
	k.procs[pid].pstate = pstateFree
	k.freeProcs = append(k.freeProcs, pid)
	metrics.Default().ProcessReleased()
}

// WaitChild blocks until cpid (or, if NoProc, any child) becomes a zombie,
// then reaps it and reports its exit status.
func (k *Kernel) WaitChild(ctx *ThreadContext, cpid Pid, status *int) (Pid, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.waitChildLocked(ctx, cpid, status)
}

func (k *Kernel) waitChildLocked(ctx *ThreadContext, cpid Pid, status *int) (Pid, error) {
	parent := k.mustLive(ctx.Pid)
	if cpid != NoProc {
		if cpid < 0 || int(cpid) >= len(k.procs) {
			return NoProc, errNotChild
		}
		child := k.procs[cpid]
		if child.pstate == pstateFree || child.parent != ctx.Pid {
			return NoProc, errNotChild
		}
		for child.pstate == pstateAlive {
			parent.childExit.Wait()
		}
		k.cleanupZombie(child, cpid, status)
		return cpid, nil
	}

	for len(parent.children) > 0 && len(parent.exited) == 0 {
		parent.childExit.Wait()
	}
	if len(parent.children) == 0 {
		return NoProc, errNotChild
	}
	childPid := parent.exited[0]
	k.cleanupZombie(k.procs[childPid], childPid, status)
	return childPid, nil
}
