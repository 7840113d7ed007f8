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

// Command verimine-mine drives the change-pair miner (spec §4.4, §4.5,
// §4.6): it consumes a RepoCard JSONL stream, mines PR pairs and author
// contributions for each repository, and writes three flushed JSONL
// output streams plus a resume journal.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
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
	"github.com/rong-hash/VeriMine/internal/miner"
	"github.com/rong-hash/VeriMine/internal/model"
	"github.com/rong-hash/VeriMine/internal/ui"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "Path to RepoCard JSONL input (required)")
		outputPath   = flag.String("output", "commit_pairs.jsonl", "Path to write CommitPairs")
		rejectPath   = flag.String("rejects", "miner_rejects.jsonl", "Path to write MinerRejectRecords")
		progressPath = flag.String("progress", "", "Optional resume journal path")
		configPath   = flag.String("config", "", "Path to miner config JSON (defaults used when empty)")
		token        = flag.String("token", "", "GitHub API token (overrides GITHUB_TOKEN if they agree)")
		lookbackDays = flag.Int("lookback-days", -1, "Override lookback_days from config")
		maxPRs       = flag.Int("max-prs", -1, "Override max_prs_per_repo from config")
		maxCommits   = flag.Int("max-commits", -1, "Override max_commits_per_repo from config")
		noClusters   = flag.Bool("no-clusters", false, "Disable author-contribution cluster mining")
		noGraphQL    = flag.Bool("no-graphql", false, "Disable GraphQL, use REST fallbacks only")
		logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		noColor      = flag.Bool("no-color", false, "Disable color output")
		metricsAddr  = flag.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	)
	flag.Parse()

	ui.InitColors(*noColor)
	logger := logging.New(*logLevel)

	if *inputPath == "" {
		ui.Error("--input is required")
		os.Exit(1)
	}

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
		logger.Warn("mine.no_token", "msg", "running unauthenticated; rate limits will be low")
	}

	cfg, err := config.LoadMinerConfig(*configPath)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	if *lookbackDays >= 0 {
		cfg.LookbackDays = *lookbackDays
	}
	if *maxPRs >= 0 {
		cfg.MaxPRsPerRepo = *maxPRs
	}
	if *maxCommits >= 0 {
		cfg.MaxCommitsPerRepo = *maxCommits
	}
	if *noClusters {
		cfg.EnableClusterMining = false
	}
	if *noGraphQL {
		cfg.UseGraphQL = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := githubapi.NewRESTClient(resolvedToken, logger)
	m := miner.New(client, cfg, logger)

	contributionsPath := outputDir(*outputPath) + "/author_contributions.jsonl"

	completed := map[string]bool{}
	resuming := false
	if *progressPath != "" && jsonl.Exists(*progressPath) {
		completed, err = jsonl.LoadCompleted(*progressPath)
		if err != nil {
			ui.Error("%s", err)
			os.Exit(1)
		}
		resuming = len(completed) > 0
		logger.Info("mine.resuming", "completed_repos", len(completed))
	}

	pairsWriter, err := jsonl.OpenWriter(*outputPath, resuming)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	defer pairsWriter.Close()
	contribsWriter, err := jsonl.OpenWriter(contributionsPath, resuming)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	defer contribsWriter.Close()
	rejectWriter, err := jsonl.OpenWriter(*rejectPath, resuming)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	defer rejectWriter.Close()

	var journal *jsonl.Journal
	if *progressPath != "" {
		journal, err = jsonl.OpenJournal(*progressPath)
		if err != nil {
			ui.Error("%s", err)
			os.Exit(1)
		}
		defer journal.Close()
	}

	in, err := os.Open(*inputPath)
	if err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}
	defer in.Close()

	ui.Header("VeriMine Mining")
	pairsTotal, contribsTotal, rejectsTotal := 0, 0, 0

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			logger.Warn("mine.cancelled")
			printMineSummary(pairsTotal, contribsTotal, rejectsTotal)
			os.Exit(1)
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		var card model.RepoCard
		if err := json.Unmarshal([]byte(line), &card); err != nil {
			logger.Warn("mine.invalid_input_line", "err", err)
			continue
		}
		if card.Repo == "" || completed[card.Repo] {
			continue
		}

		pairsTotal, contribsTotal, rejectsTotal = mineOne(ctx, m, card.Repo, pairsWriter, contribsWriter, rejectWriter, journal, logger, pairsTotal, contribsTotal, rejectsTotal)
	}
	if err := scanner.Err(); err != nil {
		ui.Error("%s", err)
		os.Exit(1)
	}

	printMineSummary(pairsTotal, contribsTotal, rejectsTotal)
}

// mineOne processes a single repository end to end: every record write is
// flushed before the journal entry, per the §4.6 durability invariant. A
// per-repo processing exception becomes a synthetic MinerRejectRecord
// rather than aborting the run (spec §7). A repository abandoned mid-flight
// by context cancellation is left out of both the output streams and the
// journal, so a resumed run reprocesses it from scratch.
func mineOne(ctx context.Context, m *miner.Miner, repo string, pairsWriter, contribsWriter, rejectWriter *jsonl.Writer, journal *jsonl.Journal, logger *slog.Logger, pairsTotal, contribsTotal, rejectsTotal int) (int, int, int) {
	result, err := func() (res miner.Result, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return m.MineRepo(ctx, repo)
	}()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("mine.abandoned", "repo", repo, "err", err)
			return pairsTotal, contribsTotal, rejectsTotal
		}
		logger.Error("mine.processing_error", "repo", repo, "err", err)
		reject := model.MinerRejectRecord{
			Repo: repo, SourceType: "repo", SourceID: "",
			Reasons: []string{fmt.Sprintf("processing error: %s", err)},
		}
		if werr := rejectWriter.Write(reject); werr != nil {
			logger.Error("mine.write_reject_failed", "repo", repo, "err", werr)
		} else {
			metrics.RecordsEmittedTotal.WithLabelValues("reject").Inc()
			rejectsTotal++
		}
		if journal != nil {
			if werr := journal.MarkDone(repo); werr != nil {
				logger.Error("mine.journal_failed", "repo", repo, "err", werr)
			}
		}
		return pairsTotal, contribsTotal, rejectsTotal
	}

	for _, pair := range result.Pairs {
		if werr := pairsWriter.Write(pair); werr != nil {
			logger.Error("mine.write_pair_failed", "repo", repo, "err", werr)
			continue
		}
		metrics.RecordsEmittedTotal.WithLabelValues("commit_pair").Inc()
		pairsTotal++
	}
	for _, contrib := range result.Contributions {
		if werr := contribsWriter.Write(contrib); werr != nil {
			logger.Error("mine.write_contribution_failed", "repo", repo, "err", werr)
			continue
		}
		metrics.RecordsEmittedTotal.WithLabelValues("author_contribution").Inc()
		contribsTotal++
	}
	for _, reject := range result.Rejects {
		if werr := rejectWriter.Write(reject); werr != nil {
			logger.Error("mine.write_reject_failed", "repo", repo, "err", werr)
			continue
		}
		metrics.RecordsEmittedTotal.WithLabelValues("reject").Inc()
		rejectsTotal++
	}

	if journal != nil {
		if werr := journal.MarkDone(repo); werr != nil {
			logger.Error("mine.journal_failed", "repo", repo, "err", werr)
		}
	}

	logger.Info("mine.repo_done", "repo", repo, "pairs", len(result.Pairs), "contributions", len(result.Contributions), "rejects", len(result.Rejects))
	return pairsTotal, contribsTotal, rejectsTotal
}

func printMineSummary(pairs, contribs, rejects int) {
	ui.Header("Mining Complete")
	fmt.Printf("Commit pairs: %s\n", ui.CountText(pairs))
	fmt.Printf("Author contributions: %s\n", ui.CountText(contribs))
	fmt.Printf("Rejects: %s\n", ui.CountText(rejects))
}

func outputDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
