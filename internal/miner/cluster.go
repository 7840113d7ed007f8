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

package miner

import (
	"sort"
	"time"

	"github.com/emirpasic/gods/sets/hashset"

	"github.com/rong-hash/VeriMine/internal/model"
)

// ClusterCommits implements spec §4.5: group commits by author (exact
// string equality, per §9's documented open-question decision — no email
// normalisation), sort each author's commits ascending by authored
// timestamp (ties broken by SHA), then partition into feature clusters by
// the combined time-proximity / file-overlap rule.
func ClusterCommits(commits []model.CommitInfo, window time.Duration, tau1, tau2 float64) [][]model.CommitInfo {
	byAuthor := map[string][]model.CommitInfo{}
	var authorOrder []string
	for _, c := range commits {
		if _, ok := byAuthor[c.Author]; !ok {
			authorOrder = append(authorOrder, c.Author)
		}
		byAuthor[c.Author] = append(byAuthor[c.Author], c)
	}
	sort.Strings(authorOrder)

	var clusters [][]model.CommitInfo
	for _, author := range authorOrder {
		authorCommits := byAuthor[author]
		sortCommits(authorCommits)
		clusters = append(clusters, clusterOneAuthor(authorCommits, window, tau1, tau2)...)
	}
	return clusters
}

func clusterOneAuthor(commits []model.CommitInfo, window time.Duration, tau1, tau2 float64) [][]model.CommitInfo {
	if len(commits) == 0 {
		return nil
	}

	var clusters [][]model.CommitInfo
	current := []model.CommitInfo{commits[0]}
	files := filePathSet(commits[0])
	lastTime := commits[0].AuthoredAt

	for _, commit := range commits[1:] {
		commitFiles := filePathSet(commit)
		timeGap := commit.AuthoredAt.Sub(lastTime)
		overlap := jaccard(files, commitFiles)

		sameFeature := (timeGap <= window && overlap >= tau1) || overlap >= tau2

		if sameFeature {
			current = append(current, commit)
			files = unionSet(files, commitFiles)
		} else {
			clusters = append(clusters, current)
			current = []model.CommitInfo{commit}
			files = commitFiles
		}
		lastTime = commit.AuthoredAt
	}
	clusters = append(clusters, current)
	return clusters
}

func filePathSet(commit model.CommitInfo) *hashset.Set {
	set := hashset.New()
	for _, p := range commit.Patches {
		set.Add(p.Path)
	}
	return set
}

func unionSet(a, b *hashset.Set) *hashset.Set {
	out := hashset.New(a.Values()...)
	out.Add(b.Values()...)
	return out
}

// jaccard computes |A ∩ B| / |A ∪ B|, with the convention that overlap is
// 0 when either set is empty (spec §4.5, §8 boundary behavior).
func jaccard(a, b *hashset.Set) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}
	intersection := 0
	for _, v := range a.Values() {
		if b.Contains(v) {
			intersection++
		}
	}
	union := a.Size() + b.Size() - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
