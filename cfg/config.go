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

// Package cfg is the typed configuration surface for the tinyos-go kernel
// host: a Config struct bound to Cobra persistent flags and decodable from
// a YAML file via Viper, the same bind-then-unmarshal-then-validate flow
// cmd/root.go drives at startup.
package cfg

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration object. Every field has a flag and a
// YAML key; cmd/root.go unmarshals into one of these with cfg.DecodeHook.
type Config struct {
	Kernel  KernelConfig  `yaml:"kernel" mapstructure:"kernel"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// KernelConfig carries the resource limits kernel.Config needs; ToKernel
// converts it at boot time.
type KernelConfig struct {
	MaxProc               int           `yaml:"max-proc" mapstructure:"max-proc"`
	MaxFileID             int           `yaml:"max-file-id" mapstructure:"max-file-id"`
	MaxPort               int           `yaml:"max-port" mapstructure:"max-port"`
	PipeBufferSize        ByteSize      `yaml:"pipe-buffer-size" mapstructure:"pipe-buffer-size"`
	ProcInfoMaxArgsSize   ByteSize      `yaml:"procinfo-max-args-size" mapstructure:"procinfo-max-args-size"`
	MaxSchedulerThreads   int64         `yaml:"max-scheduler-threads" mapstructure:"max-scheduler-threads"`
	ConnectDefaultTimeout time.Duration `yaml:"connect-default-timeout" mapstructure:"connect-default-timeout"`
}

// LoggingConfig controls internal/logger.
type LoggingConfig struct {
	Severity   LogSeverity `yaml:"severity" mapstructure:"severity"`
	Format     LogFormat   `yaml:"format" mapstructure:"format"`
	FilePrefix string      `yaml:"file-prefix" mapstructure:"file-prefix"`
}

// MetricsConfig controls the /metrics HTTP endpoint cmd/serve.go exposes.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	ListenAddr string `yaml:"listen-addr" mapstructure:"listen-addr"`
}

// BindFlags registers every Config field as a persistent flag on flagSet
// and binds it into Viper under the matching YAML key, mirroring the
// teacher's generated cfg.BindFlags.
func BindFlags(flagSet *pflag.FlagSet) error {
	d := DefaultConfig()

	flagSet.Int("max-proc", d.Kernel.MaxProc, "Maximum number of simultaneously live processes.")
	flagSet.Int("max-file-id", d.Kernel.MaxFileID, "Maximum number of open fids per process.")
	flagSet.Int("max-port", d.Kernel.MaxPort, "Highest valid socket port number.")
	flagSet.String("pipe-buffer-size", "4KiB", "Pipe ring buffer capacity; must be a power of two.")
	flagSet.String("procinfo-max-args-size", "64B", "Bytes of task arguments copied into a process-info record.")
	flagSet.Int64("max-scheduler-threads", d.Kernel.MaxSchedulerThreads, "Maximum number of concurrently running kernel threads.")
	flagSet.Duration("connect-default-timeout", d.Kernel.ConnectDefaultTimeout, "Default Connect timeout when the caller specifies none; 0 disables the timeout.")
	flagSet.String("log-severity", string(d.Logging.Severity), "Log severity: trace, debug, info, warn, or error. Validated only; the logger emits every level from debug up regardless.")
	flagSet.String("log-format", string(d.Logging.Format), "Log encoding: text or json.")
	flagSet.String("log-file-prefix", d.Logging.FilePrefix, "Rotated log file name prefix; empty logs to stderr.")
	flagSet.Bool("metrics-enabled", d.Metrics.Enabled, "Serve Prometheus metrics over HTTP.")
	flagSet.String("metrics-listen-addr", d.Metrics.ListenAddr, "Address the metrics HTTP server listens on.")

	binds := map[string]string{
		"max-proc":                 "kernel.max-proc",
		"max-file-id":              "kernel.max-file-id",
		"max-port":                 "kernel.max-port",
		"pipe-buffer-size":         "kernel.pipe-buffer-size",
		"procinfo-max-args-size":   "kernel.procinfo-max-args-size",
		"max-scheduler-threads":    "kernel.max-scheduler-threads",
		"connect-default-timeout":  "kernel.connect-default-timeout",
		"log-severity":             "logging.severity",
		"log-format":               "logging.format",
		"log-file-prefix":          "logging.file-prefix",
		"metrics-enabled":          "metrics.enabled",
		"metrics-listen-addr":      "metrics.listen-addr",
	}
	for flag, key := range binds {
		if err := viper.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}
