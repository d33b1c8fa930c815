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

package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/crac/memcheck/pkg/log"
)

// InitCollector is the type of functions that create a collector.
type InitCollector func() (prometheus.Collector, error)

var (
	lock                  sync.Mutex
	builtInCollectors     = make(map[string]InitCollector)
	initializedCollectors = make(map[string]prometheus.Collector)
	log                   = logger.NewLogger("metrics")
)

// RegisterCollector registers a named collector for inclusion in gatherers.
func RegisterCollector(name string, init InitCollector) error {
	lock.Lock()
	defer lock.Unlock()

	log.Info("registering collector %s...", name)

	if _, found := builtInCollectors[name]; found {
		return metricsError("collector %s already registered", name)
	}

	builtInCollectors[name] = init

	return nil
}

// Collectors returns the names of the registered collectors.
func Collectors() []string {
	lock.Lock()
	defer lock.Unlock()

	names := make([]string, 0, len(builtInCollectors))
	for name := range builtInCollectors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// NewMetricGatherer creates a gatherer for all registered collectors. Collectors
// failing to initialize are skipped.
func NewMetricGatherer() (prometheus.Gatherer, error) {
	lock.Lock()
	defer lock.Unlock()

	reg := prometheus.NewPedanticRegistry()

	for name, cb := range builtInCollectors {
		if _, ok := initializedCollectors[name]; ok {
			continue
		}

		c, err := cb()
		if err != nil {
			log.Error("failed to initialize collector %q: %v, skipping it", name, err)
			continue
		}
		initializedCollectors[name] = c
	}

	for name, c := range initializedCollectors {
		if err := reg.Register(c); err != nil {
			return nil, metricsError("failed to register collector %q: %v", name, err)
		}
	}

	return reg, nil
}

// NewHandler returns an HTTP handler exposing all registered collectors.
func NewHandler() (http.Handler, error) {
	g, err := NewMetricGatherer()
	if err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
}

func metricsError(format string, args ...interface{}) error {
	return fmt.Errorf("metrics: "+format, args...)
}
