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
	"encoding/binary"
	"reflect"
)

// ProcInfo is one process-table entry as exposed by the process-info
// stream: pid, ppid, liveness, thread count, a stand-in for the main-task
// function pointer, and a possibly-truncated copy of the argument blob.
type ProcInfo struct {
	Pid          Pid
	PPid         Pid
	Alive        bool
	ThreadCount  int32
	MainTaskAddr uint64
	Argl         int32
	Args         []byte // at most ProcInfoMaxArgsSize bytes; zero-padded to that width when encoded
}

func procInfoRecordSize(maxArgs int) int {
	// Pid(4) + PPid(4) + Alive(1) + ThreadCount(4) + MainTaskAddr(8) + Argl(4) + Args(maxArgs)
	return 4 + 4 + 1 + 4 + 8 + 4 + maxArgs
}

func encodeProcInfo(rec ProcInfo, maxArgs int) []byte {
	buf := make([]byte, procInfoRecordSize(maxArgs))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(rec.Pid))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(rec.PPid))
	if rec.Alive {
		buf[8] = 1
	}
	binary.LittleEndian.PutUint32(buf[9:13], uint32(rec.ThreadCount))
	binary.LittleEndian.PutUint64(buf[13:21], rec.MainTaskAddr)
	binary.LittleEndian.PutUint32(buf[21:25], uint32(rec.Argl))
	copy(buf[25:25+maxArgs], rec.Args)
	return buf
}

// taskAddr returns a stable, function-identity-preserving numeric stand-in
// for a Task value, since a procinfo record carries a raw pointer-sized
// field where a C implementation would carry the main task's function
// pointer. A nil task yields 0.
func taskAddr(t Task) uint64 {
	if t == nil {
		return 0
	}
	return uint64(reflect.ValueOf(t).Pointer())
}

// procInfoStream is a read-only, cursor-based iteration over the process
// table, skipping free slots.
type procInfoStream struct {
	k      *Kernel
	cursor Pid
}

func (s *procInfoStream) Write([]byte) (int, error) { return 0, errUnsupported }

func (s *procInfoStream) Close() error { return nil }

// Read returns exactly one record per call, or 0 at end of table. A buffer
// shorter than one record is rejected explicitly rather than silently
// truncated.
func (s *procInfoStream) Read(buf []byte) (int, error) {
	recSize := procInfoRecordSize(s.k.cfg.ProcInfoMaxArgsSize)
	if len(buf) < recSize {
		return 0, errShortBuffer
	}

	procs := s.k.procs
	for int(s.cursor) < len(procs) {
		proc := procs[s.cursor]
		if proc.pstate == pstateFree {
			s.cursor++
			continue
		}

		rec := ProcInfo{
			Pid:          s.cursor,
			PPid:         proc.parent,
			Alive:        proc.pstate == pstateAlive,
			ThreadCount:  int32(proc.threadCount),
			MainTaskAddr: taskAddr(proc.task),
			Argl:         int32(len(proc.args)),
			Args:         truncateArgs(proc.args, s.k.cfg.ProcInfoMaxArgsSize),
		}
		s.cursor++
		n := copy(buf, encodeProcInfo(rec, s.k.cfg.ProcInfoMaxArgsSize))
		return n, nil
	}
	return 0, nil
}

func truncateArgs(args []byte, max int) []byte {
	if len(args) <= max {
		return args
	}
	return args[:max]
}

// OpenInfo returns a fid bound to a fresh process-info stream positioned
// at the start of the process table.
func (k *Kernel) OpenInfo(ctx *ThreadContext) (Fid, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	fids, fcbs, err := k.reserve(proc.fids, 1)
	if err != nil {
		return NoFile, err
	}
	fcbs[0].stream = &procInfoStream{k: k}
	return fids[0], nil
}
