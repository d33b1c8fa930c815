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

package procmaps

import (
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/crac/memcheck/pkg/metrics"
)

// CollectorName is the name the procmaps collector is registered with.
const CollectorName = "procmaps"

var (
	rangesDesc = prometheus.NewDesc(
		"procmaps_ranges",
		"Number of mapped address ranges by permissions.",
		[]string{
			"perms",
		}, nil,
	)
	mappedBytesDesc = prometheus.NewDesc(
		"procmaps_mapped_bytes",
		"Bytes of mapped address space by permissions.",
		[]string{
			"perms",
		}, nil,
	)
	skippedLinesDesc = prometheus.NewDesc(
		"procmaps_skipped_lines",
		"Number of malformed lines skipped while reading the memory map.",
		nil, nil,
	)
)

// collector exports a fresh snapshot of a memory map on every scrape.
type collector struct {
	options []Option
}

// NewCollector creates a collector for the memory map selected by options.
func NewCollector(options ...Option) prometheus.Collector {
	return &collector{options: options}
}

// RegisterCollector registers a procmaps collector with pkg/metrics.
func RegisterCollector(options ...Option) error {
	return metrics.RegisterCollector(CollectorName, func() (prometheus.Collector, error) {
		return NewCollector(options...), nil
	})
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- rangesDesc
	ch <- mappedBytesDesc
	ch <- skippedLinesDesc
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	r := NewMapsReader(c.options...)
	if _, err := r.Load(); err != nil {
		log.Error("failed to collect %s: %v", r.Path(), err)
		ch <- prometheus.NewInvalidMetric(rangesDesc,
			procmapsError("failed to load %s: %v", r.Path(), err))
		return
	}

	counts := map[string]float64{}
	sizes := map[string]float64{}
	for _, mr := range r.ranges {
		perms := mr.Perms().String()
		counts[perms]++
		sizes[perms] += float64(mr.Size())
	}

	for perms, count := range counts {
		ch <- prometheus.MustNewConstMetric(rangesDesc, prometheus.GaugeValue, count, perms)
		ch <- prometheus.MustNewConstMetric(mappedBytesDesc, prometheus.GaugeValue, sizes[perms], perms)
	}

	skipped := 0
	if merr, ok := r.Skipped().(*multierror.Error); ok {
		skipped = len(merr.Errors)
	}
	ch <- prometheus.MustNewConstMetric(skippedLinesDesc, prometheus.GaugeValue, float64(skipped))
}
