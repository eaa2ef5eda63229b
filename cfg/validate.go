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

package cfg

import "fmt"

func isPowerOfTwo(n int64) bool { return n > 0 && n&(n-1) == 0 }

// ValidateConfig returns a non-nil error if config cannot be used to boot a
// kernel: limits must be positive, and the pipe buffer size must be a power
// of two since pipeControlBlock.mask relies on that for wraparound.
func ValidateConfig(config *Config) error {
	k := config.Kernel
	if k.MaxProc <= 0 {
		return fmt.Errorf("max-proc must be positive, got %d", k.MaxProc)
	}
	if k.MaxFileID <= 0 {
		return fmt.Errorf("max-file-id must be positive, got %d", k.MaxFileID)
	}
	if k.MaxPort <= 0 {
		return fmt.Errorf("max-port must be positive, got %d", k.MaxPort)
	}
	if !isPowerOfTwo(int64(k.PipeBufferSize)) {
		return fmt.Errorf("pipe-buffer-size must be a power of two, got %d", k.PipeBufferSize)
	}
	if k.ProcInfoMaxArgsSize < 0 {
		return fmt.Errorf("procinfo-max-args-size must not be negative, got %d", k.ProcInfoMaxArgsSize)
	}
	if k.MaxSchedulerThreads < 0 {
		return fmt.Errorf("max-scheduler-threads must not be negative, got %d", k.MaxSchedulerThreads)
	}
	if k.ConnectDefaultTimeout < 0 {
		return fmt.Errorf("connect-default-timeout must not be negative, got %s", k.ConnectDefaultTimeout)
	}
	return nil
}
