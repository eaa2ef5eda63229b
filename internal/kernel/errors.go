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

import "errors"

// Internal errors. The syscall-shaped entry points (Exec, Pipe, Socket, ...)
// return one of these as their error result. Calls that return a process or
// file identifier also put the matching sentinel (NoProc, NoFile) in the
// value position on failure; NoProc and NoFile double as legal *input*
// values to some calls (WaitChild(NoProc, ...) means "any child").
var (
	errExhausted       = errors.New("kernel: resource pool exhausted")
	errBadArgument     = errors.New("kernel: bad argument")
	errWrongState      = errors.New("kernel: object in wrong state")
	errPeerGone        = errors.New("kernel: peer endpoint closed")
	errTimeout         = errors.New("kernel: operation timed out")
	errDetached        = errors.New("kernel: thread detached before join")
	errUnsupported     = errors.New("kernel: operation not supported by this stream")
	errShortBuffer     = errors.New("kernel: buffer smaller than one record")
	errNotChild        = errors.New("kernel: not a child of the calling process")
	errUnknownThread   = errors.New("kernel: thread id not owned by this process")
)
