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

package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tinyos-go/tinyos/internal/kernel"
	"github.com/tinyos-go/tinyos/internal/logger"
)

const demoPort kernel.Port = 7

// echoServerTask listens on demoPort, accepts one peer, echoes everything
// it reads back to the same peer, and exits once the peer closes its
// write half (read returns 0).
func echoServerTask(k *kernel.Kernel, self *kernel.ThreadContext, args []byte) int {
	s, err := k.Socket(self, demoPort)
	if err != nil {
		logger.Errorf("demo: server socket: %v", err)
		return 1
	}
	if err := k.Listen(self, s); err != nil {
		logger.Errorf("demo: listen: %v", err)
		return 1
	}
	peer, err := k.Accept(self, s)
	if err != nil {
		logger.Errorf("demo: accept: %v", err)
		return 1
	}
	buf := make([]byte, 64)
	for {
		n, err := k.Read(self, peer, buf)
		if err != nil || n == 0 {
			break
		}
		if _, err := k.Write(self, peer, buf[:n]); err != nil {
			break
		}
	}
	k.Close(self, peer)
	k.Close(self, s)
	return 0
}

// echoClientTask connects to demoPort, sends a message, checks the echo,
// and exits with a non-zero status if anything mismatches.
func echoClientTask(k *kernel.Kernel, self *kernel.ThreadContext, args []byte) int {
	s, err := k.Socket(self, kernel.NoPort)
	if err != nil {
		logger.Errorf("demo: client socket: %v", err)
		return 1
	}
	if err := k.Connect(self, s, demoPort, 2*time.Second); err != nil {
		logger.Errorf("demo: connect: %v", err)
		return 1
	}
	msg := args
	if _, err := k.Write(self, s, msg); err != nil {
		logger.Errorf("demo: write: %v", err)
		return 1
	}
	buf := make([]byte, len(msg))
	n, err := k.Read(self, s, buf)
	if err != nil || !bytes.Equal(buf[:n], msg) {
		logger.Errorf("demo: echo mismatch: got %q, want %q (err=%v)", buf[:n], msg, err)
		k.Close(self, s)
		return 1
	}
	logger.Infof("demo: echo client received %q", buf[:n])
	k.Close(self, s)
	return 0
}

// pipeDemoTask exercises the bounded pipe in isolation: write a short
// message, close the write end, and read the message back with one read.
func pipeDemoTask(k *kernel.Kernel, self *kernel.ThreadContext, args []byte) int {
	r, w, err := k.Pipe(self)
	if err != nil {
		logger.Errorf("demo: pipe: %v", err)
		return 1
	}
	if _, err := k.Write(self, w, []byte("hello")); err != nil {
		logger.Errorf("demo: pipe write: %v", err)
		return 1
	}
	k.Close(self, w)

	buf := make([]byte, 16)
	n, _ := k.Read(self, r, buf)
	logger.Infof("demo: pipe produced %q", buf[:n])
	k.Close(self, r)
	return 0
}

// initTask is the demonstration init program: it runs the echo server and
// pipe demo as child processes, spawns an in-process echo client thread,
// and reaps every child before exiting.
func initTask(k *kernel.Kernel, self *kernel.ThreadContext, args []byte) int {
	server, err := k.Exec(self, echoServerTask, nil)
	if err != nil {
		logger.Errorf("demo: exec server: %v", err)
		return 1
	}
	// Give the server a moment to reach Listen before the client connects: a
	// Connect that finds the listener queues until Accept, but one that finds
	// no listener on the port waits out its timeout and fails.
	time.Sleep(10 * time.Millisecond)

	clientTid := k.CreateThread(self, echoClientTask, []byte("ping"))
	var clientStatus int
	if err := k.ThreadJoin(self, clientTid, &clientStatus); err != nil {
		logger.Errorf("demo: join client: %v", err)
	}

	if _, err := k.Exec(self, pipeDemoTask, nil); err != nil {
		logger.Errorf("demo: exec pipe demo: %v", err)
	}

	for {
		var status int
		_, err := k.WaitChild(self, kernel.NoProc, &status)
		if err != nil {
			break
		}
		logger.Infof("demo: reaped child, status=%d", status)
	}

	logger.Infof("demo: init workload complete, client status=%d", clientStatus)
	fmt.Println("tinyos-go demo workload finished")
	return 0
}
