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

import "github.com/tinyos-go/tinyos/internal/kernel"

// DefaultConfig returns the configuration used when no flag or YAML key
// overrides a value, mirroring kernel.DefaultConfig's limits.
func DefaultConfig() Config {
	return Config{
		Kernel: KernelConfig{
			MaxProc:               kernel.DefaultMaxProc,
			MaxFileID:             kernel.DefaultMaxFileID,
			MaxPort:               kernel.DefaultMaxPort,
			PipeBufferSize:        ByteSize(kernel.DefaultPipeBufferSize),
			ProcInfoMaxArgsSize:   ByteSize(kernel.DefaultProcInfoMaxArgsSize),
			MaxSchedulerThreads:   kernel.DefaultMaxSchedulerThreads,
			ConnectDefaultTimeout: 0,
		},
		Logging: LoggingConfig{
			Severity: "INFO",
			Format:   "text",
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:9090",
		},
	}
}

// ToKernel converts the loaded configuration into a kernel.Config.
func (c Config) ToKernel() kernel.Config {
	return kernel.Config{
		MaxProc:               c.Kernel.MaxProc,
		MaxFileID:             c.Kernel.MaxFileID,
		MaxPort:               c.Kernel.MaxPort,
		PipeBufferSize:        int(c.Kernel.PipeBufferSize),
		ProcInfoMaxArgsSize:   int(c.Kernel.ProcInfoMaxArgsSize),
		MaxSchedulerThreads:   c.Kernel.MaxSchedulerThreads,
		ConnectDefaultTimeout: c.Kernel.ConnectDefaultTimeout,
	}
}
