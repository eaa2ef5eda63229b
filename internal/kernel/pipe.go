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

	"github.com/google/uuid"

	"github.com/tinyos-go/tinyos/internal/metrics"
)

// pipeControlBlock is a bounded circular byte buffer with two endpoints.
// hasSpace/hasData are sync.Cond bound to the owning Kernel's single mutex,
// so waiting on either releases that mutex for the duration of the wait.
type pipeControlBlock struct {
	id string // correlation id for logs/metrics

	reader, writer *fileControlBlock

	hasSpace, hasData *sync.Cond

	rpos, wpos, count int
	buffer            []byte
}

func (k *Kernel) newPipeCB() *pipeControlBlock {
	return &pipeControlBlock{
		id:       uuid.NewString(),
		hasSpace: sync.NewCond(&k.mu),
		hasData:  sync.NewCond(&k.mu),
		buffer:   make([]byte, k.cfg.PipeBufferSize),
	}
}

func (p *pipeControlBlock) mask(i int) int { return i & (len(p.buffer) - 1) }

// pipeReadEnd and pipeWriteEnd are the two distinct dispatch tables backing
// a pipe's two fids: an endpoint's wrong-direction operation always fails,
// rather than dispatching through a null function pointer.
type pipeReadEnd struct {
	p *pipeControlBlock
}

type pipeWriteEnd struct {
	p *pipeControlBlock
}

func (e *pipeReadEnd) Write([]byte) (int, error) { return 0, errUnsupported }
func (e *pipeWriteEnd) Read([]byte) (int, error) { return 0, errUnsupported }

func (e *pipeWriteEnd) Write(buf []byte) (int, error) { return writeToPipe(e.p, buf) }
func (e *pipeReadEnd) Read(buf []byte) (int, error)   { return readFromPipe(e.p, buf) }
func (e *pipeWriteEnd) Close() error                  { return closePipeWriter(e.p) }
func (e *pipeReadEnd) Close() error                   { return closePipeReader(e.p) }

// writeToPipe blocks while the buffer is full and the reader is still
// present, then copies as much of buf as fits. It is shared by a pipe's
// write endpoint and a peer socket's write half, since a connected socket
// delegates its Write straight to the underlying pipe's Write. Caller
// holds k.mu.
func writeToPipe(p *pipeControlBlock, buf []byte) (int, error) {
	if p.writer == nil || p.reader == nil {
		return 0, errPeerGone
	}
	if len(buf) == 0 {
		return 0, nil
	}
	for p.count == len(p.buffer) && p.reader != nil {
		p.hasData.Broadcast()
		metrics.Default().PipeBackpressure(p.id)
		p.hasSpace.Wait()
	}
	if p.reader == nil {
		return 0, errPeerGone
	}
	free := len(p.buffer) - p.count
	n := len(buf)
	if n > free {
		n = free
	}
	for i := 0; i < n; i++ {
		p.buffer[p.mask(p.wpos)] = buf[i]
		p.wpos++
		p.count++
	}
	p.hasData.Broadcast()
	metrics.Default().PipeBytesWritten(n)
	return n, nil
}

// readFromPipe blocks while the buffer is empty and the writer is still
// present, then drains as much as fits in buf. Returning 0 with a nil error
// signals end-of-stream once the writer has closed and the buffer is
// drained. Shared with a peer socket's read half. Caller holds k.mu.
func readFromPipe(p *pipeControlBlock, buf []byte) (int, error) {
	if p.reader == nil {
		return 0, errPeerGone
	}
	if len(buf) == 0 {
		return 0, nil
	}
	for p.count == 0 && p.writer != nil {
		p.hasSpace.Broadcast()
		p.hasData.Wait()
	}
	if p.count == 0 {
		return 0, nil // end-of-stream: writer closed, buffer drained
	}
	n := len(buf)
	if n > p.count {
		n = p.count
	}
	for i := 0; i < n; i++ {
		buf[i] = p.buffer[p.mask(p.rpos)]
		p.rpos++
		p.count--
	}
	p.hasSpace.Broadcast()
	metrics.Default().PipeBytesRead(n)
	return n, nil
}

// closePipeWriter and closePipeReader are idempotent on their own endpoint,
// and free the pipe's accounting once both endpoints are gone.
func closePipeWriter(p *pipeControlBlock) error {
	if p.writer == nil {
		return nil
	}
	p.writer = nil
	if p.reader != nil {
		p.hasData.Broadcast()
	} else {
		metrics.Default().PipeClosed()
	}
	return nil
}

func closePipeReader(p *pipeControlBlock) error {
	if p.reader == nil {
		return nil
	}
	p.reader = nil
	if p.writer != nil {
		p.hasSpace.Broadcast()
	} else {
		metrics.Default().PipeClosed()
	}
	return nil
}

// Pipe creates a bounded pipe, atomically reserving both its fids. Returns
// the read and write fids, in that order.
func (k *Kernel) Pipe(ctx *ThreadContext) (readFid, writeFid Fid, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	fids, fcbs, err := k.reserve(proc.fids, 2)
	if err != nil {
		return NoFile, NoFile, err
	}

	p := k.newPipeCB()
	p.reader = fcbs[0]
	p.writer = fcbs[1]
	fcbs[0].stream = &pipeReadEnd{p: p}
	fcbs[1].stream = &pipeWriteEnd{p: p}
	metrics.Default().PipeOpened()

	return fids[0], fids[1], nil
}
