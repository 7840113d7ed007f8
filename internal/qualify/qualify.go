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

// Package qualify implements the repository qualification engine (spec
// §4.3): twelve independent checks, each appending a reason tag on
// failure, composed against a reasons.Set accumulator rather than
// short-circuiting on the first failure.
package qualify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rong-hash/VeriMine/internal/config"
	"github.com/rong-hash/VeriMine/internal/githubapi"
	"github.com/rong-hash/VeriMine/internal/model"
	"github.com/rong-hash/VeriMine/internal/reasons"
	"github.com/rong-hash/VeriMine/internal/scanner"
)

// Engine evaluates candidate repositories against a PipelineConfig.
type Engine struct {
	Client githubapi.Client
	Config config.PipelineConfig
	Vocab  scanner.Vocabulary
	Logger *slog.Logger
	Now    func() time.Time
}

// NewEngine builds an Engine, compiling the vocabulary once up front.
func NewEngine(client githubapi.Client, cfg config.PipelineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Client: client,
		Config: cfg,
		Vocab:  scanner.NewVocabulary(cfg.AllowlistTerms, cfg.DenylistTerms),
		Logger: logger,
		Now:    time.Now,
	}
}

// Evaluate runs every check against one candidate and returns either a
// RepoCard (accepted) or a RejectRecord (rejected), never both.
func (e *Engine) Evaluate(ctx context.Context, candidate githubapi.RepoDescriptor) (*model.RepoCard, *model.RejectRecord) {
	tags := reasons.New()
	owner, repoName := candidate.Owner, candidate.Name
	fullName := candidate.FullName

	if candidate.Archived || candidate.Fork {
		tags.Add("archived_or_fork")
	}
	if candidate.Stars < e.Config.MinStars {
		tags.Add("min_stars")
	}
	if candidate.PushedAt.IsZero() || !e.withinDays(candidate.PushedAt, e.Config.PushedWithinDays) {
		tags.Add("pushed_at")
	}

	languages, langErr := e.Client.GetLanguages(ctx, owner, repoName)
	if langErr != nil {
		tags.Add("languages_api")
		e.Logger.Warn("qualify.languages_api_failed", "repo", fullName, "err", langErr)
	}
	svRatio := languageRatio(languages)
	if languages != nil && svRatio < e.Config.MinSVRatio {
		tags.Add("sv_ratio")
	}

	tree, treeErr := e.Client.GetTree(ctx, owner, repoName, candidate.DefaultBranch)
	svFileCount := 0
	svLineCount := -1
	if treeErr != nil {
		tags.Add("tree_api")
		e.Logger.Warn("qualify.tree_api_failed", "repo", fullName, "err", treeErr)
	} else if tree == nil {
		tags.Add("tree_api")
	} else {
		svFileCount = countHDLFiles(tree, e.Config.VerilogExtensions)
		filePass := e.Config.MinSVFiles == 0 || svFileCount >= e.Config.MinSVFiles
		linePass := true
		if e.Config.MinSVLines > 0 && !filePass {
			paths := hdlBlobPaths(tree, e.Config.VerilogExtensions)
			svLineCount = e.countHDLLines(ctx, owner, repoName, candidate.DefaultBranch, paths, e.Config.MinSVLines)
			linePass = svLineCount >= e.Config.MinSVLines
		}
		if !filePass && !linePass {
			tags.Add("sv_size")
		}
	}

	hasCI, ciFiles := e.getCIFiles(ctx, owner, repoName)
	scanPaths := e.collectScanPaths(ctx, owner, repoName, ciFiles)
	allowHits, denyHits, buildCmds, testCmds := e.scanRepoForTools(ctx, owner, repoName, scanPaths)

	if len(denyHits) > 0 {
		tags.Add("denylist_tools")
	}
	if len(allowHits) == 0 {
		tags.Add("allowlist_missing")
	}

	prTotal, prErr := e.Client.SearchIssuesTotal(ctx, fmt.Sprintf("repo:%s is:pr", fullName))
	if e.Config.MinPRTotal > 0 {
		if prErr != nil {
			tags.Add("pr_total_api")
		} else if prTotal < e.Config.MinPRTotal {
			tags.Add("pr_total")
		}
	} else if prErr != nil {
		prTotal = 0
	}

	issueTotal, issueErr := e.Client.SearchIssuesTotal(ctx, fmt.Sprintf("repo:%s is:issue", fullName))
	if e.Config.MinIssueTotal > 0 {
		if issueErr != nil {
			tags.Add("issue_total_api")
		} else if issueTotal < e.Config.MinIssueTotal {
			tags.Add("issue_total")
		}
	} else if issueErr != nil {
		issueTotal = 0
	}

	var commit12m, commit6m *int
	if e.Config.MinCommitLast12m > 0 || e.Config.MinCommitLast6m > 0 {
		now := e.Now().UTC()
		c12, ok12 := e.commitCount(ctx, owner, repoName, now.AddDate(0, 0, -365))
		c6, ok6 := e.commitCount(ctx, owner, repoName, now.AddDate(0, 0, -182))
		if !ok12 || !ok6 {
			tags.Add("commit_count")
		} else {
			commit12m, commit6m = &c12, &c6
			if c12 < e.Config.MinCommitLast12m && c6 < e.Config.MinCommitLast6m {
				tags.Add("commit_activity")
			}
		}
	}

	hasReleaseOrTags := true
	if e.Config.MinReleases > 0 || e.Config.MinTags > 0 {
		releases, _, relErr := e.Client.GetReleases(ctx, owner, repoName, 1)
		tagList, tagLink, tagErr := e.Client.GetTags(ctx, owner, repoName, 1)
		if relErr != nil || tagErr != nil {
			tags.Add("release_or_tags_api")
			hasReleaseOrTags = false
		} else {
			hasRelease := e.Config.MinReleases > 0 && len(releases) >= e.Config.MinReleases
			tagCount := len(tagList)
			if tagLink.HasLast {
				tagCount = tagLink.LastPage * 1
			}
			hasReleaseOrTags = hasRelease || tagCount >= e.Config.MinTags
			if !hasReleaseOrTags {
				tags.Add("release_or_tags")
			}
		}
	}

	if !tags.Empty() {
		return nil, &model.RejectRecord{Repo: fullName, Reasons: tags.Slice()}
	}

	return &model.RepoCard{
		Repo:               fullName,
		DefaultBranch:      candidate.DefaultBranch,
		Stars:              candidate.Stars,
		PushedAt:           candidate.PushedAt,
		HDLByteRatio:       svRatio,
		HDLFileCount:       svFileCount,
		HDLLineCount:       svLineCount,
		HasCI:              hasCI,
		CIFiles:            ciFiles,
		CommitCountLast12m: commit12m,
		CommitCountLast6m:  commit6m,
		PRTotal:            prTotal,
		IssueTotal:         issueTotal,
		HasReleaseOrTags:   hasReleaseOrTags,
		AllowHits:          allowHits,
		DenyHits:           denyHits,
		CandidateBuildCmds: dedupeSorted(buildCmds),
		CandidateTestCmds:  dedupeSorted(testCmds),
	}, nil
}

func (e *Engine) withinDays(t time.Time, days int) bool {
	cutoff := e.Now().UTC().AddDate(0, 0, -days)
	return !t.Before(cutoff)
}

func languageRatio(languages map[string]int64) float64 {
	if len(languages) == 0 {
		return 0
	}
	var total int64
	for _, bytes := range languages {
		total += bytes
	}
	if total == 0 {
		return 0
	}
	hdl := languages["Verilog"] + languages["SystemVerilog"]
	return float64(hdl) / float64(total)
}

func countHDLFiles(tree []githubapi.TreeEntry, extensions []string) int {
	count := 0
	for _, entry := range tree {
		if entry.Type != "blob" {
			continue
		}
		if hasAnyExtension(entry.Path, extensions) {
			count++
		}
	}
	return count
}

func hdlBlobPaths(tree []githubapi.TreeEntry, extensions []string) []string {
	var paths []string
	for _, entry := range tree {
		if entry.Type == "blob" && hasAnyExtension(entry.Path, extensions) {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}

func hasAnyExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// countHDLLines implements the §4.3 short-circuited line count: stop as
// soon as the accumulated total reaches minLines.
func (e *Engine) countHDLLines(ctx context.Context, owner, repo, ref string, paths []string, minLines int) int {
	total := 0
	for _, path := range paths {
		text, ok, err := e.Client.GetFileText(ctx, owner, repo, path, ref)
		if err != nil || !ok {
			continue
		}
		total += strings.Count(text, "\n") + 1
		if total >= minLines {
			break
		}
	}
	return total
}

func (e *Engine) getCIFiles(ctx context.Context, owner, repo string) (bool, []string) {
	entries, ok, err := e.Client.ListContents(ctx, owner, repo, ".github/workflows")
	if err == nil && ok {
		var files []string
		for _, entry := range entries {
			if entry.Type == "file" {
				files = append(files, entry.Name)
			}
		}
		if len(files) > 0 {
			return true, files
		}
	}
	_, gitlabOK, gitlabErr := e.Client.GetFileText(ctx, owner, repo, ".gitlab-ci.yml", "")
	if gitlabErr == nil && gitlabOK {
		return true, []string{".gitlab-ci.yml"}
	}
	return false, nil
}

func (e *Engine) collectScanPaths(ctx context.Context, owner, repo string, ciFiles []string) []string {
	seen := map[string]bool{}
	for _, p := range e.Config.ScanPaths {
		if p != "" {
			seen[p] = true
		}
	}
	if e.Config.ScanWorkflows {
		for _, name := range ciFiles {
			if name == ".gitlab-ci.yml" {
				seen[name] = true
			} else {
				seen[".github/workflows/"+name] = true
			}
		}
	}
	if e.Config.ScanScriptsDir {
		entries, ok, err := e.Client.ListContents(ctx, owner, repo, "scripts")
		if err == nil && ok {
			for i, entry := range entries {
				if i >= e.Config.MaxScriptFiles {
					break
				}
				if entry.Type == "file" && entry.Path != "" {
					seen[entry.Path] = true
				}
			}
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (e *Engine) scanRepoForTools(ctx context.Context, owner, repo string, paths []string) (allowHits, denyHits []model.MatchEvidence, buildCmds, testCmds []string) {
	for _, path := range paths {
		text, ok, err := e.Client.GetFileText(ctx, owner, repo, path, "")
		if err != nil || !ok {
			continue
		}
		a, d := e.Vocab.Scan(path, text)
		allowHits = append(allowHits, a...)
		denyHits = append(denyHits, d...)

		if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
			cmds := scanner.ExtractCIYAML(text)
			buildCmds = append(buildCmds, cmds.Build...)
			testCmds = append(testCmds, cmds.Test...)
		}
		if strings.HasSuffix(path, "Makefile") {
			cmds := scanner.ExtractMakefile(text)
			buildCmds = append(buildCmds, cmds.Build...)
			testCmds = append(testCmds, cmds.Test...)
		}
	}
	return allowHits, denyHits, buildCmds, testCmds
}

func (e *Engine) commitCount(ctx context.Context, owner, repo string, since time.Time) (int, bool) {
	count, ok, err := e.Client.CommitCountSince(ctx, owner, repo, since, e.Config.UseGraphQL)
	if err != nil {
		e.Logger.Warn("qualify.commit_count_failed", "repo", owner+"/"+repo, "err", err)
		return 0, false
	}
	return count, ok
}

func dedupeSorted(items []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}
