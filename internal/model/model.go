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

// Package model holds the flat, serializable record types emitted by the
// qualification engine and the change-pair miner. Every type here is a
// tree of primitives: no record owns a pointer into another record's
// lifetime, and every record is written to exactly one JSONL stream.
package model

import "time"

// FileClass is the three-way classification a path resolves to.
type FileClass string

const (
	ClassCode  FileClass = "code"
	ClassTest  FileClass = "test"
	ClassOther FileClass = "other"
)

// MatchEvidence is one hit of a vocabulary pattern inside a scanned file.
// Immutable once produced.
type MatchEvidence struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Pattern string `json:"pattern"`
}

// FilePatch is one file's delta, classified into code/test/other.
type FilePatch struct {
	Path      string    `json:"path"`
	Class     FileClass `json:"class"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	Diff      string    `json:"diff,omitempty"`
}

// Changes returns additions+deletions, the "size" of a patch used by every
// min_code_changes/min_test_changes threshold check.
func (p FilePatch) Changes() int {
	return p.Additions + p.Deletions
}

// MergeFilePatch combines two patches for the same path. Additions and
// deletions sum; the diff text of the later contributor wins, falling back
// to the earlier one when the later diff is empty. Callers must invoke this
// with "later" always being the more recent contributor chronologically for
// the associativity property in the invariants to hold.
func MergeFilePatch(earlier, later FilePatch) FilePatch {
	diff := later.Diff
	if diff == "" {
		diff = earlier.Diff
	}
	return FilePatch{
		Path:      earlier.Path,
		Class:     earlier.Class,
		Additions: earlier.Additions + later.Additions,
		Deletions: earlier.Deletions + later.Deletions,
		Diff:      diff,
	}
}

// RepoCard is a qualification verdict for one repository. It is only ever
// emitted when no check failed; otherwise a RejectRecord is emitted in its
// place (see the package-level invariant documented in qualify).
type RepoCard struct {
	Repo                string          `json:"repo"`
	DefaultBranch       string          `json:"default_branch"`
	Stars               int             `json:"stars"`
	PushedAt            time.Time       `json:"pushed_at"`
	HDLByteRatio        float64         `json:"hdl_byte_ratio"`
	HDLFileCount        int             `json:"hdl_file_count"`
	HDLLineCount        int             `json:"hdl_line_count"` // -1 sentinel: not computed
	HasCI               bool            `json:"has_ci"`
	CIFiles             []string        `json:"ci_files"`
	CommitCountLast12m  *int            `json:"commit_count_last_12m,omitempty"`
	CommitCountLast6m   *int            `json:"commit_count_last_6m,omitempty"`
	PRTotal             int             `json:"pr_total"`
	IssueTotal          int             `json:"issue_total"`
	HasReleaseOrTags    bool            `json:"has_release_or_tags"`
	AllowHits           []MatchEvidence `json:"allow_hits"`
	DenyHits            []MatchEvidence `json:"deny_hits"`
	CandidateBuildCmds  []string        `json:"candidate_build_cmds"`
	CandidateTestCmds   []string        `json:"candidate_test_cmds"`
}

// RejectRecord is a qualification-stage rejection: a repo plus the sorted,
// deduplicated set of reason tags that fired against it.
type RejectRecord struct {
	Repo    string   `json:"repo"`
	Reasons []string `json:"reasons"`
}

// CommitInfo describes a single commit fetched from the remote API.
type CommitInfo struct {
	SHA        string      `json:"sha"`
	Message    string      `json:"message"`
	Author     string      `json:"author"`
	AuthoredAt time.Time   `json:"authored_at"`
	Parents    []string    `json:"parents"`
	Patches    []FilePatch `json:"patches,omitempty"`
}

// CommitPair is a PR-sourced training unit.
type CommitPair struct {
	Repo             string      `json:"repo"`
	BaseSHA          string      `json:"base_sha"`
	TargetSHA        string      `json:"target_sha"`
	SourceType       string      `json:"source_type"` // "pr"
	SourceID         string      `json:"source_id"`
	CodePatches      []FilePatch `json:"code_patches"`
	TestPatches      []FilePatch `json:"test_patches"`
	ValidationStatus string      `json:"validation_status"`
}

// AuthorContribution is a cluster-sourced training unit.
type AuthorContribution struct {
	Repo             string      `json:"repo"`
	Author           string      `json:"author"`
	ContributionID   string      `json:"contribution_id"`
	CommitSHAs       []string    `json:"commit_shas"`
	FirstCommitDate  time.Time   `json:"first_commit_date"`
	LastCommitDate   time.Time   `json:"last_commit_date"`
	CodePatches      []FilePatch `json:"code_patches"`
	TestPatches      []FilePatch `json:"test_patches"`
	CommitSummaries  []string    `json:"commit_summaries"`
	ValidationStatus string      `json:"validation_status"`
}

// MinerRejectRecord is a rejection produced by the change-pair miner: a
// repo, the source that was rejected (when applicable), and a sorted
// deduplicated reason set.
type MinerRejectRecord struct {
	Repo       string   `json:"repo"`
	SourceType string   `json:"source_type,omitempty"`
	SourceID   string   `json:"source_id,omitempty"`
	Reasons    []string `json:"reasons"`
}
