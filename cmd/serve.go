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

package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tinyos-go/tinyos/internal/kernel"
	"github.com/tinyos-go/tinyos/internal/logger"
	"github.com/tinyos-go/tinyos/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Boot the kernel, run the demonstration workload, and serve metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfigErrors(); err != nil {
			return err
		}
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	logger.UpdateDefaultLogger(string(Config.Logging.Format), Config.Logging.FilePrefix)

	registry := prometheus.NewRegistry()
	metrics.SetRegistry(registry)

	var srv *http.Server
	if Config.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: Config.Metrics.ListenAddr, Handler: mux}
		go func() {
			logger.Infof("serving metrics on %s", Config.Metrics.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server: %v", err)
			}
		}()
	}

	k := kernel.New(Config.ToKernel())
	done := make(chan int, 1)
	init := k.Boot(func(kk *kernel.Kernel, self *kernel.ThreadContext, args []byte) int {
		status := initTask(kk, self, args)
		done <- status
		return status
	}, nil)
	logger.Infof("booted kernel with init pid %d", init)

	select {
	case status := <-done:
		logger.Infof("init exited with status %d", status)
	case <-ctx.Done():
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}
