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

// Package metrics exposes the kernel's Prometheus instrumentation: gauges
// for live object counts and counters for lifecycle events, the same
// shape the corpus registers against a process-wide prometheus.Registry
// and serves over /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector groups every metric the kernel package touches. Kernel code
// never constructs one directly; it calls Default().
type Collector struct {
	registry *prometheus.Registry

	processesAlive      prometheus.Gauge
	processesZombie     prometheus.Gauge
	pipesOpen           prometheus.Gauge
	socketsOpen         prometheus.Gauge
	listenersRegistered prometheus.Gauge

	pipeBytesWritten prometheus.Counter
	pipeBytesRead    prometheus.Counter
	pipeBackpressure prometheus.Counter
	connectTimeouts  prometheus.Counter
	threadsReaped    prometheus.Counter
}

// New builds a Collector and registers every metric against reg.
func New(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		processesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tinyos", Name: "processes_alive",
			Help: "Number of processes currently in the ALIVE state.",
		}),
		processesZombie: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tinyos", Name: "processes_zombie",
			Help: "Number of processes currently in the ZOMBIE state.",
		}),
		pipesOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tinyos", Name: "pipes_open",
			Help: "Number of pipe control blocks currently allocated.",
		}),
		socketsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tinyos", Name: "sockets_open",
			Help: "Number of socket control blocks currently allocated.",
		}),
		listenersRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tinyos", Name: "listeners_registered",
			Help: "Number of ports currently bound to a listening socket.",
		}),
		pipeBytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinyos", Name: "pipe_bytes_written_total",
			Help: "Total bytes written across all pipes and peer sockets.",
		}),
		pipeBytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinyos", Name: "pipe_bytes_read_total",
			Help: "Total bytes read across all pipes and peer sockets.",
		}),
		pipeBackpressure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinyos", Name: "pipe_backpressure_total",
			Help: "Number of times a writer blocked on a full pipe buffer.",
		}),
		connectTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinyos", Name: "connect_timeouts_total",
			Help: "Number of Connect calls that expired before Accept.",
		}),
		threadsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinyos", Name: "threads_reaped_total",
			Help: "Total kernel threads that have run to completion.",
		}),
	}
	reg.MustRegister(
		c.processesAlive, c.processesZombie, c.pipesOpen, c.socketsOpen, c.listenersRegistered,
		c.pipeBytesWritten, c.pipeBytesRead, c.pipeBackpressure, c.connectTimeouts, c.threadsReaped,
	)
	return c
}

var def = New(prometheus.NewRegistry())

// Default returns the process-wide Collector. cmd/ wires its registry into
// the metrics HTTP handler; kernel code calls Default() rather than
// threading a Collector through every method.
func Default() *Collector { return def }

// SetRegistry swaps the process-wide Collector to one registered against
// reg, for callers (cmd/serve.go) that want kernel metrics on their own
// registry instead of the package-level default.
func SetRegistry(reg *prometheus.Registry) {
	def = New(reg)
}

func (c *Collector) ProcessCreated()  { c.processesAlive.Inc() }
func (c *Collector) ProcessZombified() {
	c.processesAlive.Dec()
	c.processesZombie.Inc()
}
func (c *Collector) ProcessReleased() { c.processesZombie.Dec() }

func (c *Collector) PipeOpened() { c.pipesOpen.Inc() }
func (c *Collector) PipeClosed() { c.pipesOpen.Dec() }

func (c *Collector) PipeBytesWritten(n int) { c.pipeBytesWritten.Add(float64(n)) }
func (c *Collector) PipeBytesRead(n int)    { c.pipeBytesRead.Add(float64(n)) }

// PipeBackpressure records one blocking wait for buffer space. pipeID is
// accepted for call-site symmetry with logging but not used as a label:
// per-pipe cardinality would be unbounded over a long-running kernel.
func (c *Collector) PipeBackpressure(pipeID string) { c.pipeBackpressure.Inc() }

func (c *Collector) SocketOpened()        { c.socketsOpen.Inc() }
func (c *Collector) SocketClosed()        { c.socketsOpen.Dec() }
func (c *Collector) ListenerRegistered()  { c.listenersRegistered.Inc() }
func (c *Collector) ListenerUnregistered() { c.listenersRegistered.Dec() }
func (c *Collector) ConnectTimeout()      { c.connectTimeouts.Inc() }
func (c *Collector) ThreadReaped()        { c.threadsReaped.Inc() }
