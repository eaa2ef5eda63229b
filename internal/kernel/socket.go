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
	"time"

	"github.com/tinyos-go/tinyos/internal/metrics"
)

// socketState is a tagged variant: exactly one of unboundState, listenerState
// or peerState is live at a time, selected by a type switch instead of a
// union discriminant.
type socketState interface{ isSocketState() }

type unboundState struct{}

func (*unboundState) isSocketState() {}

type listenerState struct {
	queue        []*connectRequest
	reqAvailable *sync.Cond
}

func (*listenerState) isSocketState() {}

type peerState struct {
	peer      *socketControlBlock
	readPipe  *pipeControlBlock
	writePipe *pipeControlBlock
}

func (*peerState) isSocketState() {}

// connectRequest is the handshake record a connector enqueues on a
// listener's wait-queue.
type connectRequest struct {
	sock      *socketControlBlock
	done      *sync.Cond
	completed bool
	timedOut  bool
	err       error
}

// socketControlBlock is the control block backing one socket fid. Lifetime
// is governed by fcb's refcount; a socket has no refcount of its own.
type socketControlBlock struct {
	fcb   *fileControlBlock
	port  Port
	state socketState
}

type socketEndpoint struct {
	k    *Kernel
	sock *socketControlBlock
}

func (e *socketEndpoint) Read(buf []byte) (int, error) {
	peer, ok := e.sock.state.(*peerState)
	if !ok {
		return 0, errWrongState
	}
	return readFromPipe(peer.readPipe, buf)
}

func (e *socketEndpoint) Write(buf []byte) (int, error) {
	peer, ok := e.sock.state.(*peerState)
	if !ok {
		return 0, errWrongState
	}
	return writeToPipe(peer.writePipe, buf)
}

// Close implements socket teardown on refcount-to-zero: a listener is
// unregistered and its pending connectors are failed; a peer has both pipe
// directions fully shut down.
func (e *socketEndpoint) Close() error {
	sock := e.sock
	switch st := sock.state.(type) {
	case *listenerState:
		if sock.port != NoPort {
			delete(e.k.portReg, sock.port)
			metrics.Default().ListenerUnregistered()
		}
		st.reqAvailable.Broadcast()
		for _, req := range st.queue {
			req.completed = true
			req.err = errPeerGone
			req.done.Broadcast()
		}
		st.queue = nil
	case *peerState:
		closePipeReader(st.readPipe)
		closePipeWriter(st.writePipe)
		st.peer = nil
	}
	metrics.Default().SocketClosed()
	return nil
}

// Socket allocates an unbound socket fid, optionally reserving a port for a
// later Listen.
func (k *Kernel) Socket(ctx *ThreadContext, port Port) (Fid, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if port != NoPort && (port < 1 || int(port) > k.cfg.MaxPort) {
		return NoFile, errBadArgument
	}

	proc := k.mustLive(ctx.Pid)
	fids, fcbs, err := k.reserve(proc.fids, 1)
	if err != nil {
		return NoFile, err
	}

	sock := &socketControlBlock{fcb: fcbs[0], port: port, state: &unboundState{}}
	fcbs[0].stream = &socketEndpoint{k: k, sock: sock}
	metrics.Default().SocketOpened()
	return fids[0], nil
}

func (k *Kernel) socketOf(proc *processControlBlock, fid Fid) (*socketControlBlock, error) {
	fcb := proc.fids.getFCB(fid)
	if fcb == nil {
		return nil, errBadArgument
	}
	ep, ok := fcb.stream.(*socketEndpoint)
	if !ok {
		return nil, errWrongState
	}
	return ep.sock, nil
}

// Listen turns an unbound socket with a reserved port into a listener,
// registering it so Connect calls against that port can find it.
func (k *Kernel) Listen(ctx *ThreadContext, fid Fid) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	sock, err := k.socketOf(proc, fid)
	if err != nil {
		return err
	}
	if _, ok := sock.state.(*unboundState); !ok {
		return errWrongState
	}
	if sock.port == NoPort {
		return errBadArgument
	}
	if _, taken := k.portReg[sock.port]; taken {
		return errWrongState
	}

	sock.state = &listenerState{reqAvailable: sync.NewCond(&k.mu)}
	k.portReg[sock.port] = sock
	metrics.Default().ListenerRegistered()
	return nil
}

// Connect enqueues a request on the listener bound to port and blocks until
// an Accept resolves it, the listener closes, or timeout elapses. A timeout
// of 0 or less falls back to the kernel's ConnectDefaultTimeout; when that
// is also 0 the wait has no deadline.
func (k *Kernel) Connect(ctx *ThreadContext, fid Fid, port Port, timeout time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	sock, err := k.socketOf(proc, fid)
	if err != nil {
		return err
	}
	if _, ok := sock.state.(*unboundState); !ok {
		return errWrongState
	}
	if timeout <= 0 {
		timeout = k.cfg.ConnectDefaultTimeout
	}

	// A port with no registered listener still honors a positive timeout:
	// the connector waits out the deadline and gets errTimeout, exactly as
	// it would against a listener that never calls Accept. Only a
	// zero-timeout connect against an absent listener fails immediately,
	// since nothing would ever wake it otherwise.
	listener, ok := k.portReg[port]
	var lstate *listenerState
	if ok {
		lstate = listener.state.(*listenerState)
	} else if timeout <= 0 {
		return errPeerGone
	}

	req := &connectRequest{sock: sock, done: sync.NewCond(&k.mu)}
	if lstate != nil {
		lstate.queue = append(lstate.queue, req)
		lstate.reqAvailable.Broadcast()
	}

	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, func() {
			k.mu.Lock()
			defer k.mu.Unlock()
			if !req.completed {
				req.timedOut = true
				req.done.Broadcast()
			}
		})
	}

	for !req.completed && !req.timedOut {
		req.done.Wait()
	}
	if timer != nil {
		timer.Stop()
	}

	// A request an Accept already completed wins even if the timer fired
	// first: otherwise a connector that loses the race between the timer's
	// broadcast and reacquiring the mutex would abandon a connection its
	// peer believes is live.
	if req.completed {
		return req.err
	}
	if lstate != nil {
		removeRequest(lstate, req)
	}
	metrics.Default().ConnectTimeout()
	return errTimeout
}

func removeRequest(l *listenerState, target *connectRequest) {
	for i, r := range l.queue {
		if r == target {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return
		}
	}
}

// Accept dequeues the next pending connect request on a listener, wiring up
// a pair of pipes between the new peer socket and the connector.
func (k *Kernel) Accept(ctx *ThreadContext, fid Fid) (Fid, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	lsock, err := k.socketOf(proc, fid)
	if err != nil {
		return NoFile, err
	}
	lstate, ok := lsock.state.(*listenerState)
	if !ok {
		return NoFile, errWrongState
	}

	for len(lstate.queue) == 0 {
		if _, registered := k.portReg[lsock.port]; !registered {
			return NoFile, errPeerGone
		}
		lstate.reqAvailable.Wait()
		lstate, ok = lsock.state.(*listenerState)
		if !ok {
			return NoFile, errWrongState
		}
	}
	if _, registered := k.portReg[lsock.port]; !registered {
		return NoFile, errPeerGone
	}

	req := lstate.queue[0]
	lstate.queue = lstate.queue[1:]

	fids, fcbs, err := k.reserve(proc.fids, 1)
	if err != nil {
		req.completed = true
		req.err = errExhausted
		req.done.Broadcast()
		return NoFile, err
	}

	acceptorSock := &socketControlBlock{fcb: fcbs[0], port: lsock.port}
	fcbs[0].stream = &socketEndpoint{k: k, sock: acceptorSock}

	toAcceptor := k.newPipeCB()
	toConnector := k.newPipeCB()
	metrics.Default().PipeOpened()
	metrics.Default().PipeOpened()

	acceptorSock.state = &peerState{peer: req.sock, readPipe: toAcceptor, writePipe: toConnector}
	req.sock.state = &peerState{peer: acceptorSock, readPipe: toConnector, writePipe: toAcceptor}

	// The pipes have no FCB-backed endpoints of their own (peer sockets own
	// them directly); mark both ends present so reads/writes never see a
	// spuriously-closed counterpart.
	toAcceptor.reader = acceptorSock.fcb
	toAcceptor.writer = req.sock.fcb
	toConnector.reader = req.sock.fcb
	toConnector.writer = acceptorSock.fcb

	req.completed = true
	req.done.Broadcast()

	metrics.Default().SocketOpened()
	return fids[0], nil
}

// ShutDown closes one or both directions of a connected peer socket without
// releasing the fid itself.
func (k *Kernel) ShutDown(ctx *ThreadContext, fid Fid, how ShutdownMode) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	sock, err := k.socketOf(proc, fid)
	if err != nil {
		return err
	}
	peer, ok := sock.state.(*peerState)
	if !ok {
		return errWrongState
	}

	switch how {
	case ShutdownRead:
		return closePipeReader(peer.readPipe)
	case ShutdownWrite:
		return closePipeWriter(peer.writePipe)
	case ShutdownBoth:
		closePipeReader(peer.readPipe)
		closePipeWriter(peer.writePipe)
		return nil
	default:
		return errBadArgument
	}
}
