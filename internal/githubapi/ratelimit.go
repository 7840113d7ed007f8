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

package githubapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/rong-hash/VeriMine/internal/metrics"
)

// rateLimitedTransport implements the spec §5 rate-limit policy: when a
// request returns HTTP 403 with X-RateLimit-Remaining: 0, sleep until
// X-RateLimit-Reset and retry exactly once. All other errors propagate.
// A circuit breaker wraps the whole round trip so a run of unrelated
// transient failures (5xx, network errors) stops hammering the remote API
// instead of burning the shared rate budget on doomed requests — grounded
// in jordigilh-kubernaut's use of sony/gobreaker around its own outbound
// HTTP calls.
type rateLimitedTransport struct {
	base    http.RoundTripper
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker
	sleep   func(time.Duration)
	now     func() time.Time
}

func newRateLimitedTransport(base http.RoundTripper, logger *slog.Logger) *rateLimitedTransport {
	settings := gobreaker.Settings{
		Name:        "github-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("ratelimit.breaker_state", "name", name, "from", from.String(), "to", to.String())
			metrics.BreakerState.Set(metrics.BreakerStateValue(to.String()))
		},
	}
	return &rateLimitedTransport{
		base:    base,
		logger:  logger,
		breaker: gobreaker.NewCircuitBreaker(settings),
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// RoundTrip executes the request through the circuit breaker, handling the
// sleep-until-reset retry inside the protected call so a rate-limit sleep
// never itself counts as a breaker failure.
func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if isRateLimited(resp) {
			resetAt := parseResetHeader(resp.Header.Get("X-RateLimit-Reset"))
			wait := resetAt.Sub(t.now())
			if wait < 0 {
				wait = 0
			}
			t.logger.Warn("ratelimit.sleep", "seconds", wait.Seconds())
			metrics.RateLimitSleepSeconds.Add(wait.Seconds())
			resp.Body.Close()
			t.sleep(wait)
			resp, err = t.base.RoundTrip(req)
			if err != nil {
				return nil, err
			}
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("github api: server error %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(req.URL.Path, "error").Inc()
		return nil, err
	}
	metrics.APIRequestsTotal.WithLabelValues(req.URL.Path, "ok").Inc()
	return result.(*http.Response), nil
}

func isRateLimited(resp *http.Response) bool {
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func parseResetHeader(v string) time.Time {
	epoch, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Now()
	}
	return time.Unix(epoch, 0)
}

// EstimateTotalFromLastPage implements the §4.3 "REST page-header trick":
// parse a Link header for rel="last", pull its page=N, and multiply by the
// page size used for the request that produced it.
func EstimateTotalFromLastPage(linkHeader string, perPage int) (int, bool) {
	if linkHeader == "" {
		return 0, false
	}
	page, ok := lastPageFromLink(linkHeader)
	if !ok {
		return 0, false
	}
	return page * perPage, true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
