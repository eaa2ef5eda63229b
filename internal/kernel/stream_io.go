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

// Read, Write and Close route every I/O call the same way: translate fid to
// FCB under the kernel mutex, then dispatch to the FCB's stream
// implementation. Pipe endpoints, peer sockets and the process-info stream
// all implement streamOps and are reachable uniformly through these three
// calls.
func (k *Kernel) Read(ctx *ThreadContext, fid Fid, buf []byte) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	fcb := proc.fids.getFCB(fid)
	if fcb == nil || fcb.stream == nil {
		return 0, errBadArgument
	}
	return fcb.stream.Read(buf)
}

func (k *Kernel) Write(ctx *ThreadContext, fid Fid, buf []byte) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	fcb := proc.fids.getFCB(fid)
	if fcb == nil || fcb.stream == nil {
		return 0, errBadArgument
	}
	return fcb.stream.Write(buf)
}

// Close releases fid, decrementing the underlying FCB's reference count.
func (k *Kernel) Close(ctx *ThreadContext, fid Fid) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	proc := k.mustLive(ctx.Pid)
	return k.closeFid(proc.fids, fid)
}
