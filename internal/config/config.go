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

// Package config holds the enumerated configuration for both pipeline
// stages (spec §6). Loading a JSON file is treated as an external
// collaborator concern (spec §1 Out of scope) — only the field list and
// defaults matter here, so the loader is a thin encoding/json decode onto
// struct defaults plus manual field validation, mirroring the teacher's
// DefaultConfig()/struct-literal pattern in pkg/ingestion/config.go (which
// carries no validation framework of its own).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// PipelineConfig drives the qualification engine (component C) and its
// driver (component F).
type PipelineConfig struct {
	SearchLanguages     []string `json:"search_languages"`
	SearchQualifiers    string   `json:"search_qualifiers"`
	SearchSort          string   `json:"search_sort"`
	SearchOrder         string   `json:"search_order"`
	MaxReposPerLanguage int      `json:"max_repos_per_language"`

	PushedWithinDays int `json:"pushed_within_days"`
	MinStars         int `json:"min_stars"`

	MinSVRatio float64 `json:"min_sv_ratio"`
	MinSVFiles int     `json:"min_sv_files"`
	MinSVLines int     `json:"min_sv_lines"`

	MinPRTotal    int `json:"min_pr_total"`
	MinIssueTotal int `json:"min_issue_total"`

	MinCommitLast12m int `json:"min_commit_last_12m"`
	MinCommitLast6m  int `json:"min_commit_last_6m"`

	MinTags     int `json:"min_tags"`
	MinReleases int `json:"min_releases"`

	AllowlistTerms []string `json:"allowlist_terms"`
	DenylistTerms  []string `json:"denylist_terms"`

	ScanPaths      []string `json:"scan_paths"`
	ScanWorkflows  bool     `json:"scan_workflows"`
	ScanScriptsDir bool     `json:"scan_scripts_dir"`
	MaxScriptFiles int      `json:"max_script_files"`

	UseGraphQL bool `json:"use_graphql"`

	VerilogExtensions []string `json:"verilog_extensions"`
}

// validate checks the gte=0/ratio-in-[0,1] invariants that used to live in
// struct tags. Kept as plain field checks rather than a tag-driven
// validator, matching the teacher's own config: a struct of fields and
// defaults, no validation framework.
func (c PipelineConfig) validate() error {
	for _, f := range []struct {
		name string
		val  int
	}{
		{"max_repos_per_language", c.MaxReposPerLanguage},
		{"pushed_within_days", c.PushedWithinDays},
		{"min_stars", c.MinStars},
		{"min_sv_files", c.MinSVFiles},
		{"min_sv_lines", c.MinSVLines},
		{"min_pr_total", c.MinPRTotal},
		{"min_issue_total", c.MinIssueTotal},
		{"min_commit_last_12m", c.MinCommitLast12m},
		{"min_commit_last_6m", c.MinCommitLast6m},
		{"min_tags", c.MinTags},
		{"min_releases", c.MinReleases},
		{"max_script_files", c.MaxScriptFiles},
	} {
		if f.val < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", f.name, f.val)
		}
	}
	if c.MinSVRatio < 0 || c.MinSVRatio > 1 {
		return fmt.Errorf("min_sv_ratio must be in [0,1], got %v", c.MinSVRatio)
	}
	return nil
}

// DefaultPipelineConfig returns the spec-mandated defaults (§6).
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		SearchLanguages:     []string{"Verilog", "SystemVerilog"},
		SearchQualifiers:    "fork:false archived:false",
		SearchSort:          "stars",
		SearchOrder:         "desc",
		MaxReposPerLanguage: 500,
		PushedWithinDays:    180,
		MinStars:            100,
		MinSVRatio:          0.30,
		MinSVFiles:          20,
		MinSVLines:          3000,
		MinPRTotal:          0,
		MinIssueTotal:       50,
		MinCommitLast12m:    100,
		MinCommitLast6m:     30,
		MinTags:             5,
		MinReleases:         1,
		AllowlistTerms: []string{
			"iverilog", "verilator", "yosys", "symbiyosys", "sby",
			"sv2v", "surelog", "uhdm", "cocotb",
		},
		DenylistTerms: []string{
			"Synopsys VCS", "VCS", "xrun", "xcelium", "questa",
			"modelsim", "dc_shell", "genus", "innovus", "primetime",
		},
		ScanPaths: []string{
			"README.md", "README.rst", "README.txt", "README",
			"CONTRIBUTING.md", "CONTRIBUTING", "Makefile", "Dockerfile",
		},
		ScanWorkflows:     true,
		ScanScriptsDir:    true,
		MaxScriptFiles:    20,
		UseGraphQL:        true,
		VerilogExtensions: []string{".v", ".vh", ".sv", ".svh"},
	}
}

// MinerConfig drives the change-pair miner (components D/E).
type MinerConfig struct {
	LookbackDays int `json:"lookback_days"`

	MaxPRsPerRepo     int `json:"max_prs_per_repo"`
	MaxCommitsPerRepo int `json:"max_commits_per_repo"`

	EnableClusterMining       bool `json:"enable_cluster_mining"`
	AuthorTimeWindowDays      int  `json:"author_time_window_days"`
	MinCommitsPerContribution int  `json:"min_commits_per_contribution"`

	// ClusterTimeWindowHours is a deprecated, ignored legacy field kept
	// only so old config files still parse (spec §9 open question: the
	// newer author-contribution algorithm has no use for it).
	ClusterTimeWindowHours int `json:"cluster_time_window_hours,omitempty"`

	MinCodeChanges int `json:"min_code_changes"`
	MinTestChanges int `json:"min_test_changes"`

	UseGraphQL bool `json:"use_graphql"`
}

// validate checks the gte=0 invariants that used to live in struct tags.
func (c MinerConfig) validate() error {
	for _, f := range []struct {
		name string
		val  int
	}{
		{"lookback_days", c.LookbackDays},
		{"max_prs_per_repo", c.MaxPRsPerRepo},
		{"max_commits_per_repo", c.MaxCommitsPerRepo},
		{"author_time_window_days", c.AuthorTimeWindowDays},
		{"min_commits_per_contribution", c.MinCommitsPerContribution},
		{"min_code_changes", c.MinCodeChanges},
		{"min_test_changes", c.MinTestChanges},
	} {
		if f.val < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", f.name, f.val)
		}
	}
	return nil
}

// DefaultMinerConfig returns the spec-mandated defaults (§6).
func DefaultMinerConfig() MinerConfig {
	return MinerConfig{
		LookbackDays:              1825,
		MaxPRsPerRepo:             500,
		MaxCommitsPerRepo:         1000,
		EnableClusterMining:       true,
		AuthorTimeWindowDays:      60,
		MinCommitsPerContribution: 1,
		MinCodeChanges:            5,
		MinTestChanges:            5,
		UseGraphQL:                true,
	}
}

// LoadPipelineConfig loads overrides from a JSON file onto the defaults.
// An empty path returns the defaults unchanged.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read pipeline config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse pipeline config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("validate pipeline config: %w", err)
	}
	return cfg, nil
}

// LoadMinerConfig loads overrides from a JSON file onto the defaults. An
// empty path returns the defaults unchanged.
func LoadMinerConfig(path string) (MinerConfig, error) {
	cfg := DefaultMinerConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read miner config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse miner config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("validate miner config: %w", err)
	}
	return cfg, nil
}

// ResolveToken applies the §6 token-conflict rule: if both --token and
// GITHUB_TOKEN are set and differ, the caller must exit with status 2.
// ErrTokenConflict signals that case; an empty flagToken falls back to the
// environment, and an empty result means "no token" (a warning, not an
// error, per spec §6).
func ResolveToken(flagToken string) (string, error) {
	envToken := os.Getenv("GITHUB_TOKEN")
	if flagToken != "" && envToken != "" && flagToken != envToken {
		return "", ErrTokenConflict
	}
	if flagToken != "" {
		return flagToken, nil
	}
	return envToken, nil
}

// ErrTokenConflict is returned by ResolveToken when --token and
// GITHUB_TOKEN are both set but disagree.
var ErrTokenConflict = fmt.Errorf("--token differs from GITHUB_TOKEN")
