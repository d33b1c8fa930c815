// Copyright 2023 Intel Corporation. All Rights Reserved.
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

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/crac/memcheck/pkg/config"
	logger "github.com/crac/memcheck/pkg/log"
	"github.com/crac/memcheck/pkg/metrics"
	"github.com/crac/memcheck/pkg/procmaps"
)

func exit(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "procmaps-check: "+format+"\n", a...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: procmaps-check [options] ADDR...\n\n"+
			"Check if hexadecimal addresses are mapped in a process memory map.\n\n")
	flag.PrintDefaults()
}

func main() {
	optConfig := flag.String("config", "", "configuration file (YAML or JSON)")
	optMaps := flag.String("maps", "", "memory map file to read (default "+procmaps.DefaultMapsPath+")")
	optPid := flag.Int("pid", 0, "read the memory map of process PID")
	optDump := flag.Bool("dump", false, "log all loaded address ranges")
	optMetrics := flag.String("metrics", "", "serve Prometheus metrics on ADDRESS until interrupted")

	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if *optConfig != "" {
		var err error
		if cfg, err = config.Load(*optConfig); err != nil {
			exit("%v", err)
		}
		if err = cfg.Apply(); err != nil {
			exit("%v", err)
		}
	}
	if *optMaps != "" {
		cfg.Maps.Path = *optMaps
		cfg.Maps.Pid = 0
	}
	if *optPid != 0 {
		cfg.Maps.Pid = *optPid
	}
	if *optMetrics != "" {
		cfg.Metrics.Address = *optMetrics
	}
	if err := cfg.Validate(); err != nil {
		exit("%v", err)
	}

	addrs, err := parseAddresses(flag.Args())
	if err != nil {
		exit("%v", err)
	}

	r := procmaps.NewMapsReader(cfg.ReaderOptions()...)
	if _, err := r.Load(); err != nil {
		exit("%v", err)
	}
	if err := r.Skipped(); err != nil {
		logger.Warn("some lines of %s were skipped: %v", r.Path(), err)
	}
	if *optDump {
		r.Dump("    ")
	}

	for _, addr := range addrs {
		fmt.Println(describe(r, addr))
	}

	if cfg.Metrics.Address != "" {
		serveMetrics(cfg)
	}
}

func serveMetrics(cfg *config.Config) {
	if err := procmaps.RegisterCollector(cfg.ReaderOptions()...); err != nil {
		exit("%v", err)
	}
	handler, err := metrics.NewHandler()
	if err != nil {
		exit("%v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	logger.Info("serving metrics for %s on http://%s/metrics", cfg.MapsPath(), cfg.Metrics.Address)
	if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
		exit("metrics server failed: %v", err)
	}
}
