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

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFunctionsDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Tracef("trace %d", 1)
		Infof("info %s", "x")
		Warnf("warn")
		Errorf("error: %v", assert.AnError)
	})
}

func TestUpdateDefaultLoggerWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "tinyos")

	UpdateDefaultLogger("json", prefix)
	t.Cleanup(func() { UpdateDefaultLogger("text", "") })

	Infof("hello from test")

	_, err := os.Stat(prefix + ".log")
	require.NoError(t, err)
}
