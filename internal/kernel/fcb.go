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

// streamOps is the dispatch table behind an FCB: a capability every
// concrete stream (pipe endpoint, socket, process-info reader) implements.
// There is no separate Open slot; construction happens at the syscall entry
// point that creates the stream. A stream that does not support a direction
// returns errUnsupported rather than dispatching through a null pointer.
type streamOps interface {
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Close() error
}

// fileControlBlock is a refcounted handle to an opaque stream object. It is
// shared by every fid (in possibly several processes) that points to it.
type fileControlBlock struct {
	refcount int
	stream   streamOps

	// freeNext links this FCB into the kernel-wide free pool while unused.
	// Non-nil freeNext (or freeSentinel) means the FCB is on the free list.
	freeNext *fileControlBlock
}

// freeSentinel marks the tail of the FCB free list so a zero-value next
// pointer is never ambiguous with "last element".
var freeSentinel = &fileControlBlock{}

// fcbPool is the kernel-wide pool of file control blocks: a fixed capacity
// with an intrusive free list threaded through freeNext.
type fcbPool struct {
	all  []*fileControlBlock
	free *fileControlBlock
}

func newFCBPool(capacity int) *fcbPool {
	p := &fcbPool{all: make([]*fileControlBlock, 0, capacity)}
	var head *fileControlBlock = freeSentinel
	for i := 0; i < capacity; i++ {
		fcb := &fileControlBlock{freeNext: head}
		head = fcb
		p.all = append(p.all, fcb)
	}
	p.free = head
	return p
}

func (p *fcbPool) available() int {
	n := 0
	for f := p.free; f != freeSentinel; f = f.freeNext {
		n++
	}
	return n
}

func (p *fcbPool) acquire() *fileControlBlock {
	if p.free == freeSentinel {
		return nil
	}
	fcb := p.free
	p.free = fcb.freeNext
	fcb.freeNext = nil
	fcb.refcount = 1
	fcb.stream = nil
	return fcb
}

func (p *fcbPool) release(fcb *fileControlBlock) {
	fcb.stream = nil
	fcb.refcount = 0
	fcb.freeNext = p.free
	p.free = fcb
}

// fidTable is a process-local table of fid slots, each either empty or
// bound to an FCB.
type fidTable struct {
	slots []*fileControlBlock
}

func newFidTable(capacity int) *fidTable {
	return &fidTable{slots: make([]*fileControlBlock, capacity)}
}

func (t *fidTable) get(fid Fid) *fileControlBlock {
	if fid < 0 || int(fid) >= len(t.slots) {
		return nil
	}
	return t.slots[fid]
}

func (t *fidTable) freeSlots() []Fid {
	var free []Fid
	for i, s := range t.slots {
		if s == nil {
			free = append(free, Fid(i))
		}
	}
	return free
}

// reserve atomically allocates n free fid slots from t and n FCBs from
// the kernel-wide pool, linking them pairwise with refcount 1. It is
// all-or-nothing: on any shortage it consumes nothing.
func (k *Kernel) reserve(t *fidTable, n int) ([]Fid, []*fileControlBlock, error) {
	free := t.freeSlots()
	if len(free) < n || k.fcbs.available() < n {
		return nil, nil, errExhausted
	}
	fids := make([]Fid, n)
	fcbs := make([]*fileControlBlock, n)
	for i := 0; i < n; i++ {
		fcb := k.fcbs.acquire()
		fid := free[i]
		t.slots[fid] = fcb
		fids[i] = fid
		fcbs[i] = fcb
	}
	return fids, fcbs, nil
}

func (t *fidTable) getFCB(fid Fid) *fileControlBlock {
	return t.get(fid)
}

func incref(fcb *fileControlBlock) {
	fcb.refcount++
}

// decref drops fcb's reference count; when it reaches zero the stream's
// Close runs exactly once and the FCB returns to the free pool.
func (k *Kernel) decref(fcb *fileControlBlock) error {
	fcb.refcount--
	if fcb.refcount > 0 {
		return nil
	}
	var err error
	if fcb.stream != nil {
		err = fcb.stream.Close()
	}
	k.fcbs.release(fcb)
	return err
}

// closeFid unbinds fid in t and decrefs the FCB it was bound to.
func (k *Kernel) closeFid(t *fidTable, fid Fid) error {
	fcb := t.get(fid)
	if fcb == nil {
		return errBadArgument
	}
	t.slots[fid] = nil
	return k.decref(fcb)
}
