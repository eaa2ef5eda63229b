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
	"fmt"
	"sync"
	"time"

	"github.com/tinyos-go/tinyos/internal/kernel/sched"
	"github.com/tinyos-go/tinyos/internal/logger"
)

// Config carries the resource limits and scheduler tuning a Kernel needs at
// construction time. The cfg package produces one of these from flags/YAML
// and it is passed to New.
type Config struct {
	MaxProc               int
	MaxFileID             int
	MaxPort               int
	PipeBufferSize        int
	ProcInfoMaxArgsSize   int
	MaxSchedulerThreads   int64
	ConnectDefaultTimeout time.Duration
}

// DefaultConfig returns the kernel's built-in resource limits.
func DefaultConfig() Config {
	return Config{
		MaxProc:               DefaultMaxProc,
		MaxFileID:             DefaultMaxFileID,
		MaxPort:               DefaultMaxPort,
		PipeBufferSize:        DefaultPipeBufferSize,
		ProcInfoMaxArgsSize:   DefaultProcInfoMaxArgsSize,
		MaxSchedulerThreads:   DefaultMaxSchedulerThreads,
		ConnectDefaultTimeout: 0,
	}
}

// Kernel is the syscall surface: every exported method here is a
// system call a task can make. A single mutex serializes all of it; every
// sync.Cond in the package is bound to that same mutex.
type Kernel struct {
	cfg Config
	mu  sync.Mutex

	sched *sched.Scheduler

	fcbs *fcbPool

	procs     []*processControlBlock
	freeProcs []Pid
	portReg   map[Port]*socketControlBlock
}

// New constructs a Kernel without booting it; Boot must be called once
// before any syscall entry point is used.
func New(cfg Config) *Kernel {
	if cfg.MaxProc <= 0 {
		cfg = DefaultConfig()
	}
	k := &Kernel{
		cfg:     cfg,
		sched:   sched.New(cfg.MaxSchedulerThreads),
		fcbs:    newFCBPool(cfg.MaxProc * cfg.MaxFileID),
		procs:   make([]*processControlBlock, cfg.MaxProc),
		portReg: make(map[Port]*socketControlBlock),
	}
	for i := range k.procs {
		k.procs[i] = &processControlBlock{pstate: pstateFree}
	}
	for i := len(k.procs) - 1; i >= 0; i-- {
		k.freeProcs = append(k.freeProcs, Pid(i))
	}
	return k
}

// Boot execs the idle process (pid 0, always quiescent) and then the init
// process (pid 1, running initTask). Both land parentless: pid 0 and pid 1
// never have a parent. It panics if either does not land on its expected
// pid, since that would mean the process table was not actually empty at
// boot, a fatal invariant break rather than a recoverable error.
func (k *Kernel) Boot(initTask Task, initArgs []byte) Pid {
	idle, err := k.Exec(nil, nil, nil)
	if err != nil || idle != IdlePid {
		panic(fmt.Sprintf("kernel: idle process did not get pid 0 (got %d, %v)", idle, err))
	}
	init, err := k.Exec(nil, initTask, initArgs)
	if err != nil || init != InitPid {
		panic(fmt.Sprintf("kernel: init process did not get pid 1 (got %d, %v)", init, err))
	}
	logger.Infof("kernel booted: idle=%d init=%d maxProc=%d pipeBufferSize=%d", idle, init, k.cfg.MaxProc, k.cfg.PipeBufferSize)
	return init
}

// mustLive returns the PCB for pid, panicking if it is not a live process.
// Callers are internal syscall entry points: the caller's own pid is always
// expected to be alive, so a violation is a fatal invariant break, not a
// normal error.
func (k *Kernel) mustLive(pid Pid) *processControlBlock {
	if pid < 0 || int(pid) >= len(k.procs) || k.procs[pid].pstate != pstateAlive {
		panic(fmt.Sprintf("kernel: pid %d is not ALIVE", pid))
	}
	return k.procs[pid]
}

func (k *Kernel) pcb(pid Pid) *processControlBlock {
	if pid < 0 || int(pid) >= len(k.procs) {
		return nil
	}
	if k.procs[pid].pstate == pstateFree {
		return nil
	}
	return k.procs[pid]
}
