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

// Package logger is a small process-wide structured logger. Call sites
// use the package-level Infof/Warnf/Errorf/Tracef functions directly
// rather than threading a logger value through every call; UpdateDefaultLogger
// swaps the backing handler, e.g. to attach file rotation once a log path
// is known from configuration.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(newLogger(os.Stderr, "text"))
}

func newLogger(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

var rotMu sync.Mutex

// UpdateDefaultLogger reconfigures the process-wide logger to write in the
// given format ("text" or "json") under the given name, rotated via
// lumberjack when name is non-empty; an empty name keeps logging to
// stderr with the new format.
func UpdateDefaultLogger(format, name string) {
	rotMu.Lock()
	defer rotMu.Unlock()

	var w io.Writer = os.Stderr
	if name != "" {
		w = &lumberjack.Logger{
			Filename:   name + ".log",
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	defaultLogger.Store(newLogger(w, format))
}

func get() *slog.Logger { return defaultLogger.Load() }

func Tracef(format string, v ...any) { get().Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { get().Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { get().Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { get().Error(fmt.Sprintf(format, v...)) }
