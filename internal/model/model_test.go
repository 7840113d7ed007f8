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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilePatch_Changes(t *testing.T) {
	p := FilePatch{Additions: 4, Deletions: 3}
	assert.Equal(t, 7, p.Changes())
}

func TestMergeFilePatch_SumsCounts(t *testing.T) {
	a := FilePatch{Path: "rtl/alu.v", Class: ClassCode, Additions: 5, Deletions: 1, Diff: "first"}
	b := FilePatch{Path: "rtl/alu.v", Class: ClassCode, Additions: 2, Deletions: 3, Diff: "second"}
	merged := MergeFilePatch(a, b)
	assert.Equal(t, 7, merged.Additions)
	assert.Equal(t, 4, merged.Deletions)
	assert.Equal(t, "rtl/alu.v", merged.Path)
}

func TestMergeFilePatch_LaterDiffWins(t *testing.T) {
	a := FilePatch{Diff: "first"}
	b := FilePatch{Diff: "second"}
	assert.Equal(t, "second", MergeFilePatch(a, b).Diff)
}

func TestMergeFilePatch_FallsBackToEarlierDiffWhenLaterEmpty(t *testing.T) {
	a := FilePatch{Diff: "first"}
	b := FilePatch{Diff: ""}
	assert.Equal(t, "first", MergeFilePatch(a, b).Diff)
}

func TestMergeFilePatch_ChainingIsAssociative(t *testing.T) {
	a := FilePatch{Additions: 1, Diff: "a"}
	b := FilePatch{Additions: 2, Diff: "b"}
	c := FilePatch{Additions: 3, Diff: "c"}

	left := MergeFilePatch(MergeFilePatch(a, b), c)
	right := MergeFilePatch(a, MergeFilePatch(b, c))

	assert.Equal(t, left.Additions, right.Additions)
	assert.Equal(t, left.Diff, right.Diff)
}
