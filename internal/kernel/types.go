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

// Package kernel implements the process, thread, stream, pipe and socket
// core of tinyos-go: a cooperative-threading kernel that multiplexes
// user-level tasks onto goroutines bound by a scheduler collaborator.
//
// The whole core is serialized by a single kernel-wide mutex. Every
// suspension point releases that mutex for the duration of the wait and
// re-acquires it before returning, via sync.Cond. Callers must re-validate
// preconditions after any call that may have blocked, because arbitrary
// kernel state may have changed while the mutex was released.
package kernel

import "fmt"

// Pid identifies a process; it is an index into the process table.
type Pid int32

// Fid identifies an open stream within one process's file-id table.
type Fid int32

// Port identifies a listening socket's port number.
type Port int32

const (
	// NoProc is returned by Exec on table exhaustion, by WaitChild when
	// there is nothing to reap, and is a legal cpid value meaning "any
	// child" to WaitChild.
	NoProc Pid = -1

	// NoFile is returned by Socket/Accept/OpenInfo on resource exhaustion
	// or bad arguments.
	NoFile Fid = -1

	// NoPort marks a socket that can never be listened on.
	NoPort Port = 0

	// IdlePid is the pid of the quiescent idle process created at boot.
	IdlePid Pid = 0

	// InitPid is the pid of the parentless init process.
	InitPid Pid = 1
)

// Default resource limits. cfg.Config overrides these through the
// kernel.Config it produces for New.
const (
	DefaultMaxProc              = 1024
	DefaultMaxFileID            = 128
	DefaultMaxPort              = 1024
	DefaultPipeBufferSize       = 4096
	DefaultProcInfoMaxArgsSize  = 64
	DefaultMaxSchedulerThreads  = 4096
)

// ShutdownMode selects which half of a peer socket ShutDown tears down.
type ShutdownMode int

const (
	ShutdownRead ShutdownMode = iota
	ShutdownWrite
	ShutdownBoth
)

func (m ShutdownMode) String() string {
	switch m {
	case ShutdownRead:
		return "read"
	case ShutdownWrite:
		return "write"
	case ShutdownBoth:
		return "both"
	default:
		return fmt.Sprintf("ShutdownMode(%d)", int(m))
	}
}

// ThreadID is a generational handle for a thread within one process: the
// slot index into that process's thread table plus a generation counter
// that increments every time the slot is recycled, so a stale handle from a
// freed thread can be detected instead of aliasing a later thread in the
// same slot.
type ThreadID struct {
	index      int32
	generation uint32
}

// Zero reports whether t is the zero-value ThreadID (never a valid handle,
// since generation 0 is never issued: allocThread starts every new slot at
// generation 1 and only ever increments it).
func (t ThreadID) Zero() bool { return t.index == 0 && t.generation == 0 }

func (t ThreadID) String() string {
	return fmt.Sprintf("tid:%d.%d", t.index, t.generation)
}

// Task is a thread's entry point. A Task receives its own ThreadContext
// directly: there is no ambient thread-local in Go to resolve "the calling
// thread" implicitly, so this is the Task's only handle for making further
// syscalls against k. args is not copied by CreateThread: the caller must
// keep it alive for the lifetime of the thread.
type Task func(k *Kernel, self *ThreadContext, args []byte) int
