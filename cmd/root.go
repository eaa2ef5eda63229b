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

// Package cmd is the tinyos-go CLI: a Cobra root command that loads
// cfg.Config via Viper and hands it to the "serve" subcommand, using a
// bind-then-unmarshal-then-validate flow.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinyos-go/tinyos/cfg"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error
	unmarshalErr  error

	// Config is the configuration loaded by initConfig before any
	// subcommand's RunE runs.
	Config cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "tinyos",
	Short: "Run the tinyos-go kernel core",
	Long: `tinyos-go hosts a cooperative-threading kernel core: process and
thread lifecycle, a bounded-pipe and FCB stream layer, and an intra-kernel
socket/port layer, all reachable through one in-process Go API.`,
	SilenceUsage: true,
}

// Execute is the CLI entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	Config = cfg.DefaultConfig()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			configFileErr = fmt.Errorf("reading config file: %w", err)
			return
		}
	}

	unmarshalErr = viper.Unmarshal(&Config, viper.DecodeHook(cfg.DecodeHook()))
}

func checkConfigErrors() error {
	if bindErr != nil {
		return bindErr
	}
	if configFileErr != nil {
		return configFileErr
	}
	if unmarshalErr != nil {
		return unmarshalErr
	}
	return cfg.ValidateConfig(&Config)
}
