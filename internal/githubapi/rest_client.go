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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

const defaultBaseURL = "https://api.github.com"

// RESTClient implements Client against the real GitHub REST+GraphQL API.
// The wire transport itself is out of scope for this system's core logic
// (spec §1); this is a direct, unexciting net/http implementation so the
// qualification engine and miner have something real to run against.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRESTClient builds a client with the §5 rate-limit policy and circuit
// breaker installed as the transport's RoundTripper.
func NewRESTClient(token string, logger *slog.Logger) *RESTClient {
	if logger == nil {
		logger = slog.Default()
	}
	transport := newRateLimitedTransport(http.DefaultTransport, logger)
	return &RESTClient{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{Transport: transport, Timeout: 60 * time.Second},
		logger:     logger,
	}
}

func (c *RESTClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if query != nil {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out. Any response
// with status 400 or above, 404 included, is an error; getJSONOrAbsent is
// the variant that treats 404 as absent.
func (c *RESTClient) getJSON(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github api %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return resp.Header, fmt.Errorf("github api %s: status %d: %s", path, resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("github api %s: decode: %w", path, err)
		}
	}
	return resp.Header, nil
}

// getJSONOrAbsent is like getJSON but treats 404 as "absent", per spec §7
// ("404 -> treated as absent, never an error").
func (c *RESTClient) getJSONOrAbsent(ctx context.Context, path string, query url.Values, out any) (http.Header, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github api %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return resp.Header, false, nil
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return resp.Header, false, fmt.Errorf("github api %s: status %d: %s", path, resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, false, fmt.Errorf("github api %s: decode: %w", path, err)
		}
	}
	return resp.Header, true, nil
}

// SearchRepositories streams search results over a channel, paginating
// until max is reached or a page returns fewer than per_page items.
func (c *RESTClient) SearchRepositories(ctx context.Context, query, sort, order string, max int) (<-chan RepoDescriptor, <-chan error) {
	out := make(chan RepoDescriptor)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		const perPage = 100
		collected := 0
		page := 1
		for collected < max {
			var result struct {
				Items []struct {
					FullName string `json:"full_name"`
					Owner    struct {
						Login string `json:"login"`
					} `json:"owner"`
					Name          string `json:"name"`
					DefaultBranch string `json:"default_branch"`
					Archived      bool   `json:"archived"`
					Fork          bool   `json:"fork"`
					Stars         int    `json:"stargazers_count"`
					PushedAt      string `json:"pushed_at"`
				} `json:"items"`
			}
			q := url.Values{
				"q":        {query},
				"sort":     {sort},
				"order":    {order},
				"per_page": {strconv.Itoa(perPage)},
				"page":     {strconv.Itoa(page)},
			}
			_, err := c.getJSON(ctx, "/search/repositories", q, &result)
			if err != nil {
				errc <- err
				return
			}
			if len(result.Items) == 0 {
				return
			}
			for _, item := range result.Items {
				pushedAt, _ := time.Parse(time.RFC3339, item.PushedAt)
				select {
				case out <- RepoDescriptor{
					FullName:      item.FullName,
					Owner:         item.Owner.Login,
					Name:          item.Name,
					DefaultBranch: item.DefaultBranch,
					Archived:      item.Archived,
					Fork:          item.Fork,
					Stars:         item.Stars,
					PushedAt:      pushedAt,
				}:
				case <-ctx.Done():
					return
				}
				collected++
				if collected >= max {
					return
				}
			}
			if len(result.Items) < perPage {
				return
			}
			page++
		}
	}()

	return out, errc
}

func (c *RESTClient) GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	var out map[string]int64
	_, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, repo), nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) GetTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, error) {
	var out struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"tree"`
	}
	_, ok, err := c.getJSONOrAbsent(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s", owner, repo, ref), url.Values{"recursive": {"1"}}, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	entries := make([]TreeEntry, 0, len(out.Tree))
	for _, e := range out.Tree {
		entries = append(entries, TreeEntry{Path: e.Path, Type: e.Type})
	}
	return entries, nil
}

func (c *RESTClient) ListContents(ctx context.Context, owner, repo, path string) ([]ContentEntry, bool, error) {
	var out []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
	}
	_, ok, err := c.getJSONOrAbsent(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), nil, &out)
	if err != nil || !ok {
		return nil, ok, err
	}
	entries := make([]ContentEntry, 0, len(out))
	for _, e := range out {
		entries = append(entries, ContentEntry{Name: e.Name, Path: e.Path, Type: e.Type})
	}
	return entries, true, nil
}

func (c *RESTClient) GetFileText(ctx context.Context, owner, repo, path, ref string) (string, bool, error) {
	query := url.Values{}
	if ref != "" {
		query.Set("ref", ref)
	}
	var out struct {
		Type        string `json:"type"`
		Encoding    string `json:"encoding"`
		Content     string `json:"content"`
		DownloadURL string `json:"download_url"`
	}
	_, ok, err := c.getJSONOrAbsent(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), query, &out)
	if err != nil || !ok {
		return "", ok, err
	}
	if out.Type != "file" {
		return "", false, nil
	}
	if out.Content != "" && out.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(stripBase64Newlines(out.Content))
		if err != nil {
			return "", false, fmt.Errorf("decode base64 content for %s: %w", path, err)
		}
		return normalizeToUTF8(decoded), true, nil
	}
	if out.DownloadURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, out.DownloadURL, nil)
		if err != nil {
			return "", false, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", false, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return "", false, nil
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", false, err
		}
		return normalizeToUTF8(data), true, nil
	}
	return "", false, nil
}

func stripBase64Newlines(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}

// normalizeToUTF8 best-effort decodes fetched text into UTF-8. Valid UTF-8
// is returned as is; any other input is decoded as windows-1252 (looked up
// through the IANA index), and if that lookup or decode fails the bytes
// pass through unchanged rather than fail the scan over an encoding guess.
// No encoding declared by the text itself is consulted.
func normalizeToUTF8(data []byte) string {
	if isLikelyUTF8(data) {
		return string(data)
	}
	enc, err := ianaindex.IANA.Encoding("windows-1252")
	if err != nil || enc == nil {
		return string(data)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func isLikelyUTF8(data []byte) bool {
	return utf8.Valid(data)
}

func (c *RESTClient) SearchIssuesTotal(ctx context.Context, query string) (int, error) {
	var out struct {
		TotalCount int `json:"total_count"`
	}
	_, err := c.getJSON(ctx, "/search/issues", url.Values{"q": {query}, "per_page": {"1"}}, &out)
	if err != nil {
		return 0, err
	}
	return out.TotalCount, nil
}

func (c *RESTClient) GetReleases(ctx context.Context, owner, repo string, perPage int) ([]Release, PageLink, error) {
	var out []struct {
		TagName string `json:"tag_name"`
	}
	header, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/releases", owner, repo), url.Values{"per_page": {strconv.Itoa(perPage)}}, &out)
	if err != nil {
		return nil, PageLink{}, err
	}
	releases := make([]Release, 0, len(out))
	for _, r := range out {
		releases = append(releases, Release{TagName: r.TagName})
	}
	return releases, pageLinkFromHeader(header), nil
}

func (c *RESTClient) GetTags(ctx context.Context, owner, repo string, perPage int) ([]Tag, PageLink, error) {
	var out []struct {
		Name string `json:"name"`
	}
	header, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/tags", owner, repo), url.Values{"per_page": {strconv.Itoa(perPage)}}, &out)
	if err != nil {
		return nil, PageLink{}, err
	}
	tags := make([]Tag, 0, len(out))
	for _, t := range out {
		tags = append(tags, Tag{Name: t.Name})
	}
	return tags, pageLinkFromHeader(header), nil
}

func pageLinkFromHeader(header http.Header) PageLink {
	if header == nil {
		return PageLink{}
	}
	page, ok := lastPageFromLink(header.Get("Link"))
	return PageLink{LastPage: page, HasLast: ok}
}

func (c *RESTClient) GetPRFiles(ctx context.Context, owner, repo string, number int) ([]PRFile, error) {
	var files []PRFile
	page := 1
	const perPage = 100
	for {
		var out []struct {
			Filename  string `json:"filename"`
			Additions int    `json:"additions"`
			Deletions int    `json:"deletions"`
			Patch     string `json:"patch"`
		}
		_, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/files", owner, repo, number), url.Values{
			"per_page": {strconv.Itoa(perPage)}, "page": {strconv.Itoa(page)},
		}, &out)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			break
		}
		for _, f := range out {
			files = append(files, PRFile{Path: f.Filename, Additions: f.Additions, Deletions: f.Deletions, Patch: f.Patch})
		}
		if len(out) < perPage {
			break
		}
		page++
	}
	return files, nil
}

func (c *RESTClient) ListMergedPRsREST(ctx context.Context, owner, repo string, maxPRs int, since time.Time) ([]PullRequest, error) {
	var prs []PullRequest
	page := 1
	const perPage = 100
	for len(prs) < maxPRs {
		var out []struct {
			Number    int    `json:"number"`
			MergedAt  string `json:"merged_at"`
			MergeSHA  string `json:"merge_commit_sha"`
			Base      struct {
				SHA string `json:"sha"`
			} `json:"base"`
			User struct {
				Login string `json:"login"`
			} `json:"user"`
		}
		_, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls", owner, repo), url.Values{
			"state": {"closed"}, "sort": {"updated"}, "direction": {"desc"},
			"per_page": {strconv.Itoa(perPage)}, "page": {strconv.Itoa(page)},
		}, &out)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			break
		}
		for _, pr := range out {
			if pr.MergedAt == "" {
				continue
			}
			mergedAt, _ := time.Parse(time.RFC3339, pr.MergedAt)
			if !since.IsZero() && mergedAt.Before(since) {
				return prs, nil
			}
			prs = append(prs, PullRequest{
				Number:   pr.Number,
				BaseSHA:  pr.Base.SHA,
				MergeSHA: pr.MergeSHA,
				MergedAt: mergedAt,
				Author:   pr.User.Login,
			})
			if len(prs) >= maxPRs {
				return prs, nil
			}
		}
		if len(out) < perPage {
			break
		}
		page++
	}
	return prs, nil
}

const mergedPRsQuery = `
query($owner: String!, $repo: String!, $cursor: String) {
  repository(owner: $owner, name: $repo) {
    pullRequests(first: 50, after: $cursor, states: [MERGED], orderBy: {field: UPDATED_AT, direction: DESC}) {
      pageInfo { hasNextPage endCursor }
      nodes {
        number
        mergedAt
        baseRefOid
        mergeCommit { oid }
        author { login }
        files(first: 100) { nodes { path additions deletions } }
      }
    }
  }
}`

func (c *RESTClient) ListMergedPRsGraphQL(ctx context.Context, owner, repo string, maxPRs int, since time.Time) ([]PullRequest, error) {
	var prs []PullRequest
	var cursor *string

	for len(prs) < maxPRs {
		var data struct {
			Repository struct {
				PullRequests struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []struct {
						Number     int    `json:"number"`
						MergedAt   string `json:"mergedAt"`
						BaseRefOid string `json:"baseRefOid"`
						MergeCommit struct {
							OID string `json:"oid"`
						} `json:"mergeCommit"`
						Author struct {
							Login string `json:"login"`
						} `json:"author"`
						Files struct {
							Nodes []struct {
								Path      string `json:"path"`
								Additions int    `json:"additions"`
								Deletions int    `json:"deletions"`
							} `json:"nodes"`
						} `json:"files"`
					} `json:"nodes"`
				} `json:"pullRequests"`
			} `json:"repository"`
		}

		if err := c.PostGraphQL(ctx, mergedPRsQuery, map[string]any{
			"owner": owner, "repo": repo, "cursor": cursor,
		}, &data); err != nil {
			return nil, err
		}

		nodes := data.Repository.PullRequests.Nodes
		if len(nodes) == 0 {
			break
		}
		for _, node := range nodes {
			mergedAt, _ := time.Parse(time.RFC3339, node.MergedAt)
			if !since.IsZero() && node.MergedAt != "" && mergedAt.Before(since) {
				return prs, nil
			}
			files := make([]PRFile, 0, len(node.Files.Nodes))
			for _, f := range node.Files.Nodes {
				files = append(files, PRFile{Path: f.Path, Additions: f.Additions, Deletions: f.Deletions})
			}
			prs = append(prs, PullRequest{
				Number:   node.Number,
				BaseSHA:  node.BaseRefOid,
				MergeSHA: node.MergeCommit.OID,
				MergedAt: mergedAt,
				Author:   node.Author.Login,
				Files:    files,
			})
			if len(prs) >= maxPRs {
				return prs, nil
			}
		}
		if !data.Repository.PullRequests.PageInfo.HasNextPage {
			break
		}
		c := data.Repository.PullRequests.PageInfo.EndCursor
		cursor = &c
	}
	return prs, nil
}

func (c *RESTClient) ListCommits(ctx context.Context, owner, repo string, since time.Time, max int) ([]RawCommit, error) {
	var commits []RawCommit
	page := 1
	const perPage = 100
	for len(commits) < max {
		var out []struct {
			SHA    string `json:"sha"`
			Commit struct {
				Message string `json:"message"`
				Author  struct {
					Name string `json:"name"`
					Date string `json:"date"`
				} `json:"author"`
			} `json:"commit"`
			Parents []struct {
				SHA string `json:"sha"`
			} `json:"parents"`
		}
		q := url.Values{"per_page": {strconv.Itoa(perPage)}, "page": {strconv.Itoa(page)}}
		if !since.IsZero() {
			q.Set("since", since.UTC().Format(time.RFC3339))
		}
		_, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/commits", owner, repo), q, &out)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			break
		}
		for _, item := range out {
			authoredAt, _ := time.Parse(time.RFC3339, item.Commit.Author.Date)
			parents := make([]string, 0, len(item.Parents))
			for _, p := range item.Parents {
				parents = append(parents, p.SHA)
			}
			commits = append(commits, RawCommit{
				SHA:        item.SHA,
				Message:    item.Commit.Message,
				AuthorName: item.Commit.Author.Name,
				AuthoredAt: authoredAt,
				Parents:    parents,
			})
			if len(commits) >= max {
				return commits, nil
			}
		}
		if len(out) < perPage {
			break
		}
		page++
	}
	return commits, nil
}

func (c *RESTClient) getCommit(ctx context.Context, owner, repo, sha string) ([]PRFile, bool, error) {
	var out struct {
		Files []struct {
			Filename  string `json:"filename"`
			Additions int    `json:"additions"`
			Deletions int    `json:"deletions"`
			Patch     string `json:"patch"`
		} `json:"files"`
	}
	_, ok, err := c.getJSONOrAbsent(ctx, fmt.Sprintf("/repos/%s/%s/commits/%s", owner, repo, sha), nil, &out)
	if err != nil || !ok {
		return nil, ok, err
	}
	files := make([]PRFile, 0, len(out.Files))
	for _, f := range out.Files {
		files = append(files, PRFile{Path: f.Filename, Additions: f.Additions, Deletions: f.Deletions, Patch: f.Patch})
	}
	return files, true, nil
}

func (c *RESTClient) GetCommitFiles(ctx context.Context, owner, repo, sha string) ([]PRFile, error) {
	files, ok, err := c.getCommit(ctx, owner, repo, sha)
	if err != nil || !ok {
		return nil, err
	}
	return files, nil
}

func (c *RESTClient) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]PRFile, bool, error) {
	var out struct {
		Files []struct {
			Filename  string `json:"filename"`
			Additions int    `json:"additions"`
			Deletions int    `json:"deletions"`
			Patch     string `json:"patch"`
		} `json:"files"`
	}
	_, ok, err := c.getJSONOrAbsent(ctx, fmt.Sprintf("/repos/%s/%s/compare/%s...%s", owner, repo, base, head), nil, &out)
	if err != nil || !ok {
		return nil, ok, err
	}
	files := make([]PRFile, 0, len(out.Files))
	for _, f := range out.Files {
		files = append(files, PRFile{Path: f.Filename, Additions: f.Additions, Deletions: f.Deletions, Patch: f.Patch})
	}
	return files, true, nil
}

const commitCountQuery = `
query($owner: String!, $name: String!, $since: GitTimestamp!) {
  repository(owner: $owner, name: $name) {
    defaultBranchRef {
      target {
        ... on Commit {
          history(since: $since) { totalCount }
        }
      }
    }
  }
}`

// CommitCountSince implements spec §4.3's preferred-GraphQL,
// fallback-to-REST-page-header-trick commit counting strategy. The bool
// result reports whether a count was obtained at all.
func (c *RESTClient) CommitCountSince(ctx context.Context, owner, repo string, since time.Time, useGraphQL bool) (int, bool, error) {
	if useGraphQL {
		count, err := c.commitCountGraphQL(ctx, owner, repo, since)
		if err == nil {
			return count, true, nil
		}
		c.logger.Warn("githubapi.commit_count_graphql_failed", "owner", owner, "repo", repo, "err", err)
	}
	count, ok, err := c.commitCountREST(ctx, owner, repo, since)
	if err != nil {
		return 0, false, err
	}
	return count, ok, nil
}

func (c *RESTClient) commitCountGraphQL(ctx context.Context, owner, repo string, since time.Time) (int, error) {
	var data struct {
		Repository struct {
			DefaultBranchRef *struct {
				Target struct {
					History struct {
						TotalCount int `json:"totalCount"`
					} `json:"history"`
				} `json:"target"`
			} `json:"defaultBranchRef"`
		} `json:"repository"`
	}
	if err := c.PostGraphQL(ctx, commitCountQuery, map[string]any{
		"owner": owner, "name": repo, "since": since.UTC().Format(time.RFC3339),
	}, &data); err != nil {
		return 0, err
	}
	if data.Repository.DefaultBranchRef == nil {
		return 0, fmt.Errorf("no default branch ref")
	}
	return data.Repository.DefaultBranchRef.Target.History.TotalCount, nil
}

func (c *RESTClient) commitCountREST(ctx context.Context, owner, repo string, since time.Time) (int, bool, error) {
	var out []json.RawMessage
	header, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/commits", owner, repo), url.Values{
		"since": {since.UTC().Format(time.RFC3339)}, "per_page": {"1"},
	}, &out)
	if err != nil {
		return 0, false, err
	}
	if len(out) == 0 {
		return 0, true, nil
	}
	if estimated, ok := EstimateTotalFromLastPage(header.Get("Link"), 1); ok {
		return estimated, true, nil
	}
	return len(out), true, nil
}

// PostGraphQL posts a GraphQL query and decodes the "data" field into out.
// An "errors" field in the response is itself an error, per spec §6.
func (c *RESTClient) PostGraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/graphql", nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github graphql: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github graphql: status %d: %s", resp.StatusCode, string(data))
	}
	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("github graphql: decode: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("github graphql error: %s", strings.Join(msgs, "; "))
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("github graphql: decode data: %w", err)
		}
	}
	return nil
}
