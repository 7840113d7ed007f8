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

// Package githubapi defines the capability contract the core pipeline
// depends on (spec §6) — search, tree/content reads, PR/commit history,
// and a raw GraphQL escape hatch — plus a concrete client implementing it
// against the real REST+GraphQL API. Qualification and mining code never
// import net/http directly; they hold a Client.
package githubapi

import (
	"context"
	"time"
)

// RepoDescriptor is one item from a repository search result.
type RepoDescriptor struct {
	FullName      string
	Owner         string
	Name          string
	DefaultBranch string
	Archived      bool
	Fork          bool
	Stars         int
	PushedAt      time.Time
}

// TreeEntry is one entry of a recursive git tree listing.
type TreeEntry struct {
	Path string
	Type string // "blob" or "tree"
}

// ContentEntry is one entry of a directory listing.
type ContentEntry struct {
	Name string
	Path string
	Type string // "file" or "dir"
}

// Release is a minimal release descriptor (only existence/count matters).
type Release struct {
	TagName string
}

// Tag is a minimal tag descriptor.
type Tag struct {
	Name string
}

// PRFile is one file changed in a pull request.
type PRFile struct {
	Path      string
	Additions int
	Deletions int
	Patch     string
}

// PullRequest is a merged pull request, enough to drive §4.4.
type PullRequest struct {
	Number    int
	BaseSHA   string
	MergeSHA  string
	MergedAt  time.Time
	Author    string
	Files     []PRFile // populated when fetched via GraphQL in one round trip
}

// CommitParent is a parent reference of a commit.
type CommitParent struct {
	SHA string
}

// RawCommit is a commit as returned by list_commits/get_commit, before
// classification.
type RawCommit struct {
	SHA        string
	Message    string
	AuthorName string
	AuthoredAt time.Time
	Parents    []string
	Files      []PRFile // only populated by get_commit(_files)
}

// PageLink carries the subset of GitHub's Link header this system needs:
// the total estimated from rel="last" when per_page=1 pagination is used
// to cheaply count a collection (spec §4.3 "REST page-header trick").
type PageLink struct {
	LastPage int
	HasLast  bool
}

// Client is the capability contract from spec §6. Every method may fail;
// the core treats failure as a reason tag, never a crash (spec §1).
type Client interface {
	SearchRepositories(ctx context.Context, query, sort, order string, max int) (<-chan RepoDescriptor, <-chan error)
	GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error)
	GetTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, error)
	GetFileText(ctx context.Context, owner, repo, path, ref string) (text string, ok bool, err error)
	ListContents(ctx context.Context, owner, repo, path string) ([]ContentEntry, bool, error)
	SearchIssuesTotal(ctx context.Context, query string) (int, error)
	GetReleases(ctx context.Context, owner, repo string, perPage int) ([]Release, PageLink, error)
	GetTags(ctx context.Context, owner, repo string, perPage int) ([]Tag, PageLink, error)

	ListMergedPRsGraphQL(ctx context.Context, owner, repo string, maxPRs int, since time.Time) ([]PullRequest, error)
	ListMergedPRsREST(ctx context.Context, owner, repo string, maxPRs int, since time.Time) ([]PullRequest, error)
	GetPRFiles(ctx context.Context, owner, repo string, number int) ([]PRFile, error)

	ListCommits(ctx context.Context, owner, repo string, since time.Time, max int) ([]RawCommit, error)
	GetCommitFiles(ctx context.Context, owner, repo, sha string) ([]PRFile, error)
	CompareCommits(ctx context.Context, owner, repo, base, head string) ([]PRFile, bool, error)

	CommitCountSince(ctx context.Context, owner, repo string, since time.Time, useGraphQL bool) (int, bool, error)

	PostGraphQL(ctx context.Context, query string, variables map[string]any, out any) error
}
