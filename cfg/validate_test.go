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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfigDefaultsAreValid(t *testing.T) {
	c := DefaultConfig()
	assert.NoError(t, ValidateConfig(&c))
}

func TestValidateConfigRejectsNonPowerOfTwoPipeBuffer(t *testing.T) {
	c := DefaultConfig()
	c.Kernel.PipeBufferSize = 100
	assert.Error(t, ValidateConfig(&c))
}

func TestValidateConfigRejectsNonPositiveLimits(t *testing.T) {
	cases := map[string]func(*Config){
		"max-proc":    func(c *Config) { c.Kernel.MaxProc = 0 },
		"max-file-id": func(c *Config) { c.Kernel.MaxFileID = 0 },
		"max-port":    func(c *Config) { c.Kernel.MaxPort = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			assert.Error(t, ValidateConfig(&c))
		})
	}
}
