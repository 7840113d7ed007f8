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

// Package miner implements the change-pair miner (spec §4.4, §4.5):
// PR-sourced CommitPair mining and the author-contribution commit
// clustering algorithm, excluding commits already covered by a merged PR.
package miner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/hashset"

	"github.com/rong-hash/VeriMine/internal/classify"
	"github.com/rong-hash/VeriMine/internal/config"
	"github.com/rong-hash/VeriMine/internal/githubapi"
	"github.com/rong-hash/VeriMine/internal/model"
)

// Miner mines CommitPairs and AuthorContributions from one repository.
type Miner struct {
	Client githubapi.Client
	Config config.MinerConfig
	Logger *slog.Logger
	Now    func() time.Time
}

// New builds a Miner.
func New(client githubapi.Client, cfg config.MinerConfig, logger *slog.Logger) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{Client: client, Config: cfg, Logger: logger, Now: time.Now}
}

// Result bundles everything mined from one repository.
type Result struct {
	Pairs         []model.CommitPair
	Contributions []model.AuthorContribution
	Rejects       []model.MinerRejectRecord
}

// MineRepo runs PR mining then, if enabled, author-contribution clustering
// over the commits the PR phase did not cover.
func (m *Miner) MineRepo(ctx context.Context, repo string) (Result, error) {
	owner, name, ok := splitRepo(repo)
	if !ok {
		return Result{}, fmt.Errorf("miner: malformed repo name %q", repo)
	}

	since := m.Now().UTC().AddDate(0, 0, -m.Config.LookbackDays)

	pairs, prRejects, covered, err := m.minePRs(ctx, owner, name, since)
	if err != nil {
		return Result{}, fmt.Errorf("mine prs for %s: %w", repo, err)
	}

	result := Result{Pairs: pairs, Rejects: prRejects}

	if m.Config.EnableClusterMining {
		contribs, clusterRejects, err := m.mineAuthorContributions(ctx, owner, name, since, covered)
		if err != nil {
			return Result{}, fmt.Errorf("mine author contributions for %s: %w", repo, err)
		}
		result.Contributions = contribs
		result.Rejects = append(result.Rejects, clusterRejects...)
	}

	return result, nil
}

func splitRepo(repo string) (owner, name string, ok bool) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// minePRs implements §4.4: the merge SHA is always added to the covered
// set, whether or not the PR is eventually accepted.
func (m *Miner) minePRs(ctx context.Context, owner, name string, since time.Time) ([]model.CommitPair, []model.MinerRejectRecord, *hashset.Set, error) {
	repo := owner + "/" + name
	covered := hashset.New()

	var prs []githubapi.PullRequest
	var err error
	if m.Config.UseGraphQL {
		prs, err = m.Client.ListMergedPRsGraphQL(ctx, owner, name, m.Config.MaxPRsPerRepo, since)
	} else {
		prs, err = m.Client.ListMergedPRsREST(ctx, owner, name, m.Config.MaxPRsPerRepo, since)
	}
	if err != nil {
		return nil, nil, covered, err
	}

	var pairs []model.CommitPair
	var rejects []model.MinerRejectRecord

	for _, pr := range prs {
		sourceID := fmt.Sprintf("%d", pr.Number)

		if pr.MergeSHA != "" {
			covered.Add(pr.MergeSHA)
		}
		if pr.BaseSHA == "" || pr.MergeSHA == "" {
			rejects = append(rejects, model.MinerRejectRecord{
				Repo: repo, SourceType: "pr", SourceID: sourceID,
				Reasons: []string{"missing base_sha or merge_sha"},
			})
			continue
		}

		files := pr.Files
		if len(files) == 0 {
			files, err = m.Client.GetPRFiles(ctx, owner, name, pr.Number)
			if err != nil {
				m.Logger.Warn("miner.get_pr_files_failed", "repo", repo, "pr", pr.Number, "err", err)
				rejects = append(rejects, model.MinerRejectRecord{
					Repo: repo, SourceType: "pr", SourceID: sourceID,
					Reasons: []string{"insufficient code or test changes"},
				})
				continue
			}
		}

		raw := toRawFiles(files)
		classified := classify.ClassifyFiles(raw)

		if !classified.HasValidPatches(m.Config.MinCodeChanges, m.Config.MinTestChanges) {
			rejects = append(rejects, model.MinerRejectRecord{
				Repo: repo, SourceType: "pr", SourceID: sourceID,
				Reasons: []string{"insufficient code or test changes"},
			})
			continue
		}
		if len(classified.Code) == 0 {
			rejects = append(rejects, model.MinerRejectRecord{
				Repo: repo, SourceType: "pr", SourceID: sourceID,
				Reasons: []string{"no Verilog/SV code changes"},
			})
			continue
		}
		if len(classified.Test) == 0 {
			rejects = append(rejects, model.MinerRejectRecord{
				Repo: repo, SourceType: "pr", SourceID: sourceID,
				Reasons: []string{"no test file changes"},
			})
			continue
		}

		pairs = append(pairs, model.CommitPair{
			Repo:             repo,
			BaseSHA:          pr.BaseSHA,
			TargetSHA:        pr.MergeSHA,
			SourceType:       "pr",
			SourceID:         sourceID,
			CodePatches:      classified.Code,
			TestPatches:      classified.Test,
			ValidationStatus: "pending",
		})
	}

	return pairs, rejects, covered, nil
}

func toRawFiles(files []githubapi.PRFile) []classify.RawFile {
	out := make([]classify.RawFile, 0, len(files))
	for _, f := range files {
		out = append(out, classify.RawFile{Path: f.Path, Additions: f.Additions, Deletions: f.Deletions, Patch: f.Patch})
	}
	return out
}

// mineAuthorContributions implements §4.5: fetch commits not already
// covered by a PR, fetch each one's files individually, group by author,
// and cluster.
func (m *Miner) mineAuthorContributions(ctx context.Context, owner, name string, since time.Time, covered *hashset.Set) ([]model.AuthorContribution, []model.MinerRejectRecord, error) {
	repo := owner + "/" + name

	rawCommits, err := m.Client.ListCommits(ctx, owner, name, since, m.Config.MaxCommitsPerRepo)
	if err != nil {
		return nil, nil, err
	}

	var commits []model.CommitInfo
	for _, rc := range rawCommits {
		if covered.Contains(rc.SHA) {
			continue
		}
		files, err := m.Client.GetCommitFiles(ctx, owner, name, rc.SHA)
		if err != nil {
			m.Logger.Warn("miner.get_commit_files_failed", "repo", repo, "sha", rc.SHA, "err", err)
			continue
		}
		classified := classify.ClassifyFiles(toRawFiles(files))
		patches := append(append([]model.FilePatch{}, classified.Code...), classified.Test...)
		commits = append(commits, model.CommitInfo{
			SHA:        rc.SHA,
			Message:    rc.Message,
			Author:     rc.AuthorName,
			AuthoredAt: rc.AuthoredAt,
			Parents:    rc.Parents,
			Patches:    patches,
		})
	}

	if len(commits) == 0 {
		return nil, nil, nil
	}

	clusters := ClusterCommits(commits, time.Duration(m.Config.AuthorTimeWindowDays)*24*time.Hour, defaultTau1, defaultTau2)

	var contributions []model.AuthorContribution
	var rejects []model.MinerRejectRecord

	for _, cluster := range clusters {
		if len(cluster) < m.Config.MinCommitsPerContribution {
			continue
		}
		contribution, codeChanges, testChanges := buildContribution(repo, cluster)
		if len(contribution.CodePatches) == 0 || len(contribution.TestPatches) == 0 {
			continue
		}

		sourceID := fmt.Sprintf("%s:%s", contribution.Author, contribution.ContributionID)
		if codeChanges < m.Config.MinCodeChanges {
			rejects = append(rejects, model.MinerRejectRecord{
				Repo: repo, SourceType: "author", SourceID: sourceID,
				Reasons: []string{fmt.Sprintf("insufficient code changes (%d < %d)", codeChanges, m.Config.MinCodeChanges)},
			})
			continue
		}
		if testChanges < m.Config.MinTestChanges {
			rejects = append(rejects, model.MinerRejectRecord{
				Repo: repo, SourceType: "author", SourceID: sourceID,
				Reasons: []string{fmt.Sprintf("insufficient test changes (%d < %d)", testChanges, m.Config.MinTestChanges)},
			})
			continue
		}

		contributions = append(contributions, contribution)
	}

	return contributions, rejects, nil
}

const (
	defaultTau1 = 0.2
	defaultTau2 = 0.5
)

// buildContribution merges one cluster's commits into an AuthorContribution,
// plus the raw code/test change totals used for threshold checks.
func buildContribution(repo string, cluster []model.CommitInfo) (model.AuthorContribution, int, int) {
	sorted := make([]model.CommitInfo, len(cluster))
	copy(sorted, cluster)
	sortCommits(sorted)

	codeByPath := map[string]model.FilePatch{}
	testByPath := map[string]model.FilePatch{}
	var codeOrder, testOrder []string
	shas := make([]string, 0, len(sorted))
	summaries := make([]string, 0, len(sorted))

	for _, commit := range sorted {
		shas = append(shas, commit.SHA)
		summaries = append(summaries, summarize(commit.Message))
		for _, patch := range commit.Patches {
			switch patch.Class {
			case model.ClassCode:
				if existing, ok := codeByPath[patch.Path]; ok {
					codeByPath[patch.Path] = model.MergeFilePatch(existing, patch)
				} else {
					codeByPath[patch.Path] = patch
					codeOrder = append(codeOrder, patch.Path)
				}
			case model.ClassTest:
				if existing, ok := testByPath[patch.Path]; ok {
					testByPath[patch.Path] = model.MergeFilePatch(existing, patch)
				} else {
					testByPath[patch.Path] = patch
					testOrder = append(testOrder, patch.Path)
				}
			}
		}
	}

	codePatches := make([]model.FilePatch, 0, len(codeOrder))
	codeChanges := 0
	for _, p := range codeOrder {
		codePatches = append(codePatches, codeByPath[p])
		codeChanges += codeByPath[p].Changes()
	}
	testPatches := make([]model.FilePatch, 0, len(testOrder))
	testChanges := 0
	for _, p := range testOrder {
		testPatches = append(testPatches, testByPath[p])
		testChanges += testByPath[p].Changes()
	}

	contribution := model.AuthorContribution{
		Repo:             repo,
		Author:           sorted[0].Author,
		ContributionID:   contributionID(repo, sorted[0].Author, shas),
		CommitSHAs:       shas,
		FirstCommitDate:  sorted[0].AuthoredAt,
		LastCommitDate:   sorted[len(sorted)-1].AuthoredAt,
		CodePatches:      codePatches,
		TestPatches:      testPatches,
		CommitSummaries:  summaries,
		ValidationStatus: "pending",
	}
	return contribution, codeChanges, testChanges
}

// contributionID is the §4.5 deterministic id: first 12 hex chars of
// SHA-256 over "{repo}:{author}:{concatenated 8-char prefixes of the
// first 5 commits' SHAs}".
func contributionID(repo, author string, shas []string) string {
	n := len(shas)
	if n > 5 {
		n = 5
	}
	var prefixes strings.Builder
	for _, sha := range shas[:n] {
		p := sha
		if len(p) > 8 {
			p = p[:8]
		}
		prefixes.WriteString(p)
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", repo, author, prefixes.String())))
	return hex.EncodeToString(sum[:])[:12]
}

func summarize(message string) string {
	line := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		line = message[:idx]
	}
	if len(line) > 100 {
		line = line[:100]
	}
	return line
}

func sortCommits(commits []model.CommitInfo) {
	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].AuthoredAt.Equal(commits[j].AuthoredAt) {
			return commits[i].AuthoredAt.Before(commits[j].AuthoredAt)
		}
		return commits[i].SHA < commits[j].SHA
	})
}
