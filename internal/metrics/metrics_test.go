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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorTracksGaugesAndCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ProcessCreated()
	c.ProcessCreated()
	c.ProcessZombified()
	assert.Equal(t, float64(1), testutil.ToFloat64(c.processesAlive))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.processesZombie))

	c.PipeOpened()
	c.PipeBytesWritten(10)
	c.PipeBytesRead(4)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.pipesOpen))
	assert.Equal(t, float64(10), testutil.ToFloat64(c.pipeBytesWritten))
	assert.Equal(t, float64(4), testutil.ToFloat64(c.pipeBytesRead))

	c.PipeClosed()
	assert.Equal(t, float64(0), testutil.ToFloat64(c.pipesOpen))
}

func TestSetRegistrySwapsDefault(t *testing.T) {
	reg := prometheus.NewRegistry()
	SetRegistry(reg)
	require.NotNil(t, Default())

	Default().ThreadReaped()
	assert.Equal(t, float64(1), testutil.ToFloat64(Default().threadsReaped))
}
