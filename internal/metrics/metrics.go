// Copyright 2026 VeriMine Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@verimine.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes Prometheus counters/gauges for the pipeline's
// interaction with the remote API: request outcomes, rate-limit sleeps,
// and circuit breaker state. Both drivers accept a --metrics-addr flag
// that starts an HTTP server serving these on /metrics via promhttp; the
// counters are registered unconditionally but only ever scraped when that
// flag is set.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts every outbound request by request URL path
	// (the "method" label) and outcome ("ok", "error").
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verimine",
		Name:      "api_requests_total",
		Help:      "Total remote API requests by method and outcome.",
	}, []string{"method", "outcome"})

	// RateLimitSleepSeconds sums the total time spent sleeping for the
	// §5 rate-limit policy.
	RateLimitSleepSeconds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "verimine",
		Name:      "rate_limit_sleep_seconds_total",
		Help:      "Cumulative seconds spent sleeping for rate-limit resets.",
	})

	// BreakerState reports the circuit breaker's current state (0=closed,
	// 1=half-open, 2=open).
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "verimine",
		Name:      "breaker_state",
		Help:      "Circuit breaker state: 0=closed, 1=half-open, 2=open.",
	})

	// ReposEvaluatedTotal counts qualification verdicts by outcome
	// ("accepted", "rejected").
	ReposEvaluatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verimine",
		Name:      "repos_evaluated_total",
		Help:      "Repositories evaluated by the qualification engine, by outcome.",
	}, []string{"outcome"})

	// RecordsEmittedTotal counts emitted records by stream
	// ("commit_pair", "author_contribution", "reject").
	RecordsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verimine",
		Name:      "records_emitted_total",
		Help:      "Output records emitted by the miner, by stream.",
	}, []string{"stream"})
)

// BreakerStateValue maps a gobreaker state name to the BreakerState gauge
// value.
func BreakerStateValue(name string) float64 {
	switch name {
	case "open":
		return 2
	case "half-open":
		return 1
	default:
		return 0
	}
}
