// Copyright (c) 2025, KitchenOps Authors.  All rights reserved.
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

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution metrics
	resolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mise_resolve_duration_seconds",
			Help:    "Duration of ingredient cost resolution in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	flattenDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mise_flatten_duration_seconds",
			Help:    "Duration of recipe consumption flattening in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Creation metrics
	createDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mise_create_recipe_duration_seconds",
			Help:    "Duration of orchestrated recipe creation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	cycleRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mise_cycle_rejections_total",
			Help: "Total number of operations rejected for circular recipe references",
		},
	)

	compensationRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mise_compensation_runs_total",
			Help: "Total number of compensating cleanups after failed creations",
		},
	)
	compensationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mise_compensation_failures_total",
			Help: "Total number of compensating deletes that failed and require manual intervention",
		},
	)
)
