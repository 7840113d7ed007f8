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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rong-hash/VeriMine/internal/model"
)

func TestSplitRepo(t *testing.T) {
	owner, name, ok := splitRepo("acme/chip")
	require.True(t, ok)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "chip", name)

	_, _, ok = splitRepo("not-a-repo")
	assert.False(t, ok)

	_, _, ok = splitRepo("/chip")
	assert.False(t, ok)
}

func TestSummarize_FirstLineOnly(t *testing.T) {
	assert.Equal(t, "fix alu overflow", summarize("fix alu overflow\n\nlonger body text"))
}

func TestSummarize_TruncatesLongLines(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "x"
	}
	got := summarize(long)
	assert.Len(t, got, 100)
}

func TestSortCommits_AscendingWithSHATiebreak(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []model.CommitInfo{
		{SHA: "b", AuthoredAt: base},
		{SHA: "a", AuthoredAt: base},
		{SHA: "z", AuthoredAt: base.Add(-time.Hour)},
	}
	sortCommits(commits)
	require.Len(t, commits, 3)
	assert.Equal(t, "z", commits[0].SHA)
	assert.Equal(t, "a", commits[1].SHA)
	assert.Equal(t, "b", commits[2].SHA)
}

func TestContributionID_DeterministicAndBounded(t *testing.T) {
	shas := []string{"aaaaaaaaaa", "bbbbbbbbbb"}
	id1 := contributionID("acme/chip", "alice", shas)
	id2 := contributionID("acme/chip", "alice", shas)
	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 12)
}

func TestContributionID_DiffersByInput(t *testing.T) {
	id1 := contributionID("acme/chip", "alice", []string{"aaaaaaaaaa"})
	id2 := contributionID("acme/chip", "bob", []string{"aaaaaaaaaa"})
	assert.NotEqual(t, id1, id2)
}

func TestContributionID_OnlyUsesFirstFiveCommits(t *testing.T) {
	six := []string{"11111111", "22222222", "33333333", "44444444", "55555555", "66666666"}
	withSixth := contributionID("acme/chip", "alice", six)
	withoutSixth := contributionID("acme/chip", "alice", six[:5])
	assert.Equal(t, withoutSixth, withSixth)
}

func TestBuildContribution_MergesPatchesAndOrdersByTime(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cluster := []model.CommitInfo{
		{
			SHA: "c2", Author: "alice", Message: "add test", AuthoredAt: base.Add(time.Hour),
			Patches: []model.FilePatch{{Path: "rtl/x_tb.v", Class: model.ClassTest, Additions: 4}},
		},
		{
			SHA: "c1", Author: "alice", Message: "impl", AuthoredAt: base,
			Patches: []model.FilePatch{{Path: "rtl/x.v", Class: model.ClassCode, Additions: 10}},
		},
	}
	contribution, codeChanges, testChanges := buildContribution("acme/chip", cluster)

	assert.Equal(t, "alice", contribution.Author)
	assert.Equal(t, []string{"c1", "c2"}, contribution.CommitSHAs)
	assert.True(t, contribution.FirstCommitDate.Equal(base))
	assert.True(t, contribution.LastCommitDate.Equal(base.Add(time.Hour)))
	require.Len(t, contribution.CodePatches, 1)
	require.Len(t, contribution.TestPatches, 1)
	assert.Equal(t, 10, codeChanges)
	assert.Equal(t, 4, testChanges)
	assert.Equal(t, []string{"impl", "add test"}, contribution.CommitSummaries)
}

func TestBuildContribution_MergesSamePathAcrossCommits(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cluster := []model.CommitInfo{
		{SHA: "c1", Author: "alice", AuthoredAt: base,
			Patches: []model.FilePatch{{Path: "rtl/x.v", Class: model.ClassCode, Additions: 5}}},
		{SHA: "c2", Author: "alice", AuthoredAt: base.Add(time.Minute),
			Patches: []model.FilePatch{{Path: "rtl/x.v", Class: model.ClassCode, Additions: 3, Deletions: 1}}},
	}
	contribution, codeChanges, _ := buildContribution("acme/chip", cluster)
	require.Len(t, contribution.CodePatches, 1)
	assert.Equal(t, 8, contribution.CodePatches[0].Additions)
	assert.Equal(t, 1, contribution.CodePatches[0].Deletions)
	assert.Equal(t, 9, codeChanges)
}
