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

// Command verimine-qualify drives the repository qualification engine
// (spec §4.3, §4.6): it discovers candidates via one search query per
// configured language, deduplicates by canonical name, evaluates each one,
// and writes accepted RepoCards and RejectRecords to two flushed JSONL
// streams.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/rong-hash/VeriMine/internal/config"
	"github.com/rong-hash/VeriMine/internal/githubapi"
	"github.com/rong-hash/VeriMine/internal/jsonl"
	"github.com/rong-hash/VeriMine/internal/logging"
	"github.com/rong-hash/VeriMine/internal/metrics"
	"github.com/rong-hash/VeriMine/internal/qualify"
	"github.com/rong-hash/VeriMine/internal/ui"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to pipeline config JSON (defaults used when empty)")
		outputPath  = flag.String("output", "repo_cards.jsonl", "Path to write accepted RepoCards")
		rejectPath  = flag.String("rejects", "repo_rejects.jsonl", "Path to write RejectRecords")
		token       = flag.String("token", "", "GitHub API token (overrides GITHUB_TOKEN if they agree)")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		metricsAddr = flag.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	)
	flag.Parse()

	ui.InitColors(*noColor)
	logger := logging.New(*logLevel)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	resolvedToken, err := config.ResolveToken(*token)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(2)
	}
	if resolvedToken == "" {
		logger.Warn("qualify.no_token", "msg", "running unauthenticated; rate limits will be low")
	}

	cfg, err := config.LoadPipelineConfig(*configPath)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := githubapi.NewRESTClient(resolvedToken, logger)
	engine := qualify.NewEngine(client, cfg, logger)

	outWriter, err := jsonl.OpenWriter(*outputPath, false)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	defer outWriter.Close()
	rejectWriter, err := jsonl.OpenWriter(*rejectPath, false)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	defer rejectWriter.Close()

	// seen dedupes by full name across the per-language search queries below.
	// Every insert happens on this single goroutine as it drains one
	// language's channel at a time, so a plain map needs no external
	// locking.
	seen := map[string]struct{}{}
	accepted, rejected := 0, 0

	ui.Header("VeriMine Qualification")
	for _, language := range cfg.SearchLanguages {
		query := fmt.Sprintf("language:%s %s stars:>=%d", language, cfg.SearchQualifiers, cfg.MinStars)
		repos, errc := client.SearchRepositories(ctx, query, cfg.SearchSort, cfg.SearchOrder, cfg.MaxReposPerLanguage)

		bar := ui.NewProgressBar(int64(cfg.MaxReposPerLanguage), "Discovering "+language, *logLevel == "debug")
		for repo := range repos {
			bar.Add(1)
			if _, alreadySeen := seen[repo.FullName]; alreadySeen {
				continue
			}
			seen[repo.FullName] = struct{}{}

			card, reject := engine.Evaluate(ctx, repo)
			switch {
			case card != nil:
				if err := outWriter.Write(card); err != nil {
					logger.Error("qualify.write_card_failed", "repo", repo.FullName, "err", err)
					continue
				}
				metrics.ReposEvaluatedTotal.WithLabelValues("accepted").Inc()
				accepted++
			case reject != nil:
				if err := rejectWriter.Write(reject); err != nil {
					logger.Error("qualify.write_reject_failed", "repo", repo.FullName, "err", err)
					continue
				}
				metrics.ReposEvaluatedTotal.WithLabelValues("rejected").Inc()
				rejected++
			}

			select {
			case <-ctx.Done():
				bar.Finish()
				logger.Warn("qualify.cancelled")
				printSummary(accepted, rejected, len(seen))
				os.Exit(1)
			default:
			}
		}
		bar.Finish()
		if err := <-errc; err != nil {
			logger.Error("qualify.search_failed", "language", language, "err", err)
		}
	}

	printSummary(accepted, rejected, len(seen))
}

func printSummary(accepted, rejected, total int) {
	ui.Header("Qualification Complete")
	fmt.Printf("Repositories considered: %s\n", ui.CountText(total))
	fmt.Printf("Accepted: %s\n", ui.CountText(accepted))
	fmt.Printf("Rejected: %s\n", ui.CountText(rejected))
}
