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

// Package githubfake provides an in-memory githubapi.Client for tests,
// built up from plain field assignment rather than HTTP recording, in the
// style of the teacher's pkg/ingestion test fakes.
package githubfake

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rong-hash/VeriMine/internal/githubapi"
)

// Repo is one fake repository's complete fixture data.
type Repo struct {
	Descriptor githubapi.RepoDescriptor
	Languages  map[string]int64
	Tree       []githubapi.TreeEntry
	Files      map[string]string // path -> text, keyed as given to GetFileText
	Contents   map[string][]githubapi.ContentEntry
	IssueTotal int
	Releases   []githubapi.Release
	Tags       []githubapi.Tag
	MergedPRs  []githubapi.PullRequest
	Commits    []githubapi.RawCommit
	CommitFiles map[string][]githubapi.PRFile // sha -> files
}

// Client is a fully in-memory githubapi.Client.
type Client struct {
	Repos map[string]*Repo // keyed by "owner/name"

	// CommitCounts lets a test pin exactly what CommitCountSince returns,
	// keyed by "owner/name/since-RFC3339".
	CommitCounts map[string]int

	// Err, when non-nil, is returned by every method (for failure-path tests).
	Err error
}

// New returns an empty fake client.
func New() *Client {
	return &Client{
		Repos:        map[string]*Repo{},
		CommitCounts: map[string]int{},
	}
}

// AddRepo registers fixture data for owner/name, creating it if absent.
func (c *Client) AddRepo(owner, name string) *Repo {
	key := owner + "/" + name
	r, ok := c.Repos[key]
	if !ok {
		r = &Repo{
			Descriptor: githubapi.RepoDescriptor{FullName: key, Owner: owner, Name: name, DefaultBranch: "main"},
			Files:      map[string]string{},
			Contents:   map[string][]githubapi.ContentEntry{},
			CommitFiles: map[string][]githubapi.PRFile{},
		}
		c.Repos[key] = r
	}
	return r
}

func (c *Client) lookup(owner, name string) (*Repo, error) {
	r, ok := c.Repos[owner+"/"+name]
	if !ok {
		return nil, fmt.Errorf("githubfake: no fixture for %s/%s", owner, name)
	}
	return r, nil
}

func (c *Client) SearchRepositories(ctx context.Context, query, sort_, order string, max int) (<-chan githubapi.RepoDescriptor, <-chan error) {
	out := make(chan githubapi.RepoDescriptor)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		if c.Err != nil {
			errc <- c.Err
			return
		}
		names := make([]string, 0, len(c.Repos))
		for k := range c.Repos {
			names = append(names, k)
		}
		sort.Strings(names)
		sent := 0
		for _, k := range names {
			if sent >= max {
				return
			}
			select {
			case out <- c.Repos[k].Descriptor:
			case <-ctx.Done():
				return
			}
			sent++
		}
	}()
	return out, errc
}

func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, err
	}
	return r.Languages, nil
}

func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) ([]githubapi.TreeEntry, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, err
	}
	return r.Tree, nil
}

func (c *Client) GetFileText(ctx context.Context, owner, repo, path, ref string) (string, bool, error) {
	if c.Err != nil {
		return "", false, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return "", false, err
	}
	text, ok := r.Files[path]
	return text, ok, nil
}

func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]githubapi.ContentEntry, bool, error) {
	if c.Err != nil {
		return nil, false, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, false, err
	}
	entries, ok := r.Contents[path]
	return entries, ok, nil
}

func (c *Client) SearchIssuesTotal(ctx context.Context, query string) (int, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	// query carries "repo:owner/name" by convention in tests.
	for _, r := range c.Repos {
		if containsRepoQualifier(query, r.Descriptor.FullName) {
			return r.IssueTotal, nil
		}
	}
	return 0, nil
}

func containsRepoQualifier(query, fullName string) bool {
	return len(query) >= len(fullName) && (query == "repo:"+fullName || indexOf(query, "repo:"+fullName) >= 0)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func (c *Client) GetReleases(ctx context.Context, owner, repo string, perPage int) ([]githubapi.Release, githubapi.PageLink, error) {
	if c.Err != nil {
		return nil, githubapi.PageLink{}, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, githubapi.PageLink{}, err
	}
	return r.Releases, githubapi.PageLink{}, nil
}

func (c *Client) GetTags(ctx context.Context, owner, repo string, perPage int) ([]githubapi.Tag, githubapi.PageLink, error) {
	if c.Err != nil {
		return nil, githubapi.PageLink{}, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, githubapi.PageLink{}, err
	}
	return r.Tags, githubapi.PageLink{}, nil
}

func (c *Client) ListMergedPRsGraphQL(ctx context.Context, owner, repo string, maxPRs int, since time.Time) ([]githubapi.PullRequest, error) {
	return c.listMergedPRs(owner, repo, maxPRs, since)
}

func (c *Client) ListMergedPRsREST(ctx context.Context, owner, repo string, maxPRs int, since time.Time) ([]githubapi.PullRequest, error) {
	return c.listMergedPRs(owner, repo, maxPRs, since)
}

func (c *Client) listMergedPRs(owner, repo string, maxPRs int, since time.Time) ([]githubapi.PullRequest, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, err
	}
	prs := make([]githubapi.PullRequest, 0, len(r.MergedPRs))
	for _, pr := range r.MergedPRs {
		if !since.IsZero() && pr.MergedAt.Before(since) {
			continue
		}
		prs = append(prs, pr)
		if len(prs) >= maxPRs {
			break
		}
	}
	return prs, nil
}

func (c *Client) GetPRFiles(ctx context.Context, owner, repo string, number int) ([]githubapi.PRFile, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, err
	}
	for _, pr := range r.MergedPRs {
		if pr.Number == number {
			return pr.Files, nil
		}
	}
	return nil, nil
}

func (c *Client) ListCommits(ctx context.Context, owner, repo string, since time.Time, max int) ([]githubapi.RawCommit, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, err
	}
	commits := make([]githubapi.RawCommit, 0, len(r.Commits))
	for _, commit := range r.Commits {
		if !since.IsZero() && commit.AuthoredAt.Before(since) {
			continue
		}
		commits = append(commits, commit)
		if len(commits) >= max {
			break
		}
	}
	return commits, nil
}

func (c *Client) GetCommitFiles(ctx context.Context, owner, repo, sha string) ([]githubapi.PRFile, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, err
	}
	return r.CommitFiles[sha], nil
}

func (c *Client) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]githubapi.PRFile, bool, error) {
	if c.Err != nil {
		return nil, false, c.Err
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return nil, false, err
	}
	files, ok := r.CommitFiles[base+".."+head]
	return files, ok, nil
}

func (c *Client) CommitCountSince(ctx context.Context, owner, repo string, since time.Time, useGraphQL bool) (int, bool, error) {
	if c.Err != nil {
		return 0, false, c.Err
	}
	key := fmt.Sprintf("%s/%s/%s", owner, repo, since.UTC().Format(time.RFC3339))
	if count, ok := c.CommitCounts[key]; ok {
		return count, true, nil
	}
	r, err := c.lookup(owner, repo)
	if err != nil {
		return 0, false, err
	}
	count := 0
	for _, commit := range r.Commits {
		if !since.IsZero() && commit.AuthoredAt.Before(since) {
			continue
		}
		count++
	}
	return count, true, nil
}

func (c *Client) PostGraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.Err != nil {
		return c.Err
	}
	return fmt.Errorf("githubfake: PostGraphQL not stubbed")
}

var _ githubapi.Client = (*Client)(nil)
