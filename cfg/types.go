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

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ByteSize is the datatype for params such as pipe-buffer-size that accept
// human-sized quantities ("4KiB", "1MiB") in YAML/flags but are plain byte
// counts everywhere else.
type ByteSize int64

func (b *ByteSize) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "KiB"):
		mult, s = 1<<10, strings.TrimSuffix(s, "KiB")
	case strings.HasSuffix(s, "MiB"):
		mult, s = 1<<20, strings.TrimSuffix(s, "MiB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	*b = ByteSize(v * mult)
	return nil
}

func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(b), 10) + "B"), nil
}

// LogSeverity is the datatype for the logging.severity param.
type LogSeverity string

func (s *LogSeverity) UnmarshalText(text []byte) error {
	v := LogSeverity(strings.ToUpper(string(text)))
	if !slices.Contains([]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}, string(v)) {
		return fmt.Errorf("invalid log severity: %s", text)
	}
	*s = v
	return nil
}

func (s LogSeverity) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// LogFormat is the datatype for the logging.format param.
type LogFormat string

func (f *LogFormat) UnmarshalText(text []byte) error {
	v := LogFormat(strings.ToLower(string(text)))
	if v != "text" && v != "json" {
		return fmt.Errorf("invalid log format: %s", text)
	}
	*f = v
	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f), nil
}
