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

// Package sched supplies the one piece of scheduling infrastructure the
// kernel package needs but does not implement itself: the ability to spawn
// a bound kernel thread and run it to completion. Sleeping on a condition
// variable while atomically releasing the kernel lock, and waking on
// broadcast, are supplied directly by sync.Cond bound to the kernel's own
// mutex, so this package only needs to bound how many kernel threads exist
// concurrently.
package sched

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Scheduler bounds the number of concurrently running kernel threads with
// a weighted semaphore, the same primitive the corpus reaches for to cap
// concurrent worker fan-out.
type Scheduler struct {
	sem *semaphore.Weighted
}

// New constructs a Scheduler that allows at most maxThreads kernel threads
// to run at once. maxThreads <= 0 means unbounded.
func New(maxThreads int64) *Scheduler {
	if maxThreads <= 0 {
		return &Scheduler{}
	}
	return &Scheduler{sem: semaphore.NewWeighted(maxThreads)}
}

// Spawn launches fn as a new kernel thread. It returns immediately: the
// actual goroutine may still be waiting for a free slot in the bounded
// pool, matching "spawn a bound kernel thread" without blocking the caller
// (who typically holds the kernel mutex at the call site).
func (s *Scheduler) Spawn(fn func()) {
	go func() {
		if s.sem != nil {
			// Background context: a kernel thread, once spawned, cannot be
			// cancelled from outside; it only stops by returning on its own.
			if err := s.sem.Acquire(context.Background(), 1); err != nil {
				return
			}
			defer s.sem.Release(1)
		}
		fn()
	}()
}
