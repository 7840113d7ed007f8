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

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rong-hash/VeriMine/internal/model"
)

func TestIsHDL(t *testing.T) {
	assert.True(t, IsHDL("rtl/alu.v"))
	assert.True(t, IsHDL("rtl/ALU.SV"))
	assert.True(t, IsHDL("pkg/defs.svh"))
	assert.False(t, IsHDL("README.md"))
	assert.False(t, IsHDL("scripts/run.py"))
}

func TestClassifyFile_CodeByDefault(t *testing.T) {
	assert.Equal(t, model.ClassCode, ClassifyFile("rtl/alu.v"))
}

func TestClassifyFile_TestByFilename(t *testing.T) {
	cases := []string{
		"rtl/alu_tb.sv",
		"rtl/tb_alu.v",
		"rtl/alu_test.sv",
		"rtl/foo_tb_bar.v",
		"rtl/testbench_top.sv",
	}
	for _, p := range cases {
		assert.Equalf(t, model.ClassTest, ClassifyFile(p), "path %q", p)
	}
}

func TestClassifyFile_TestByDirectory(t *testing.T) {
	cases := []string{
		"tb/alu.v",
		"test/alu.sv",
		"verification/env/alu.sv",
		"dv/uvm/alu.sv",
	}
	for _, p := range cases {
		assert.Equalf(t, model.ClassTest, ClassifyFile(p), "path %q", p)
	}
}

// sim/simulation directories are deliberately excluded per the canonical
// newer classifier (spec §9) -- confirmed against the superseded, broader
// original_source/diff_classifier.py behavior.
func TestClassifyFile_SimDirectoryIsNotTest(t *testing.T) {
	assert.Equal(t, model.ClassCode, ClassifyFile("sim/alu.v"))
	assert.Equal(t, model.ClassCode, ClassifyFile("simulation/top.sv"))
}

func TestClassifyFile_NonHDLIsOther(t *testing.T) {
	assert.Equal(t, model.ClassOther, ClassifyFile("docs/README.md"))
}

func TestClassifyFile_CaseInsensitiveAndDeterministic(t *testing.T) {
	a := ClassifyFile("RTL/ALU_TB.SV")
	b := ClassifyFile("rtl/alu_tb.sv")
	assert.Equal(t, a, b)
	assert.Equal(t, model.ClassTest, a)
}

func TestClassifyFiles_Partition(t *testing.T) {
	files := []RawFile{
		{Path: "rtl/alu.v", Additions: 10, Deletions: 2},
		{Path: "rtl/alu_tb.sv", Additions: 5, Deletions: 0},
		{Path: "README.md", Additions: 1, Deletions: 0},
	}
	out := ClassifyFiles(files)
	require.Len(t, out.Code, 1)
	require.Len(t, out.Test, 1)
	require.Len(t, out.Other, 1)
	assert.Equal(t, "rtl/alu.v", out.Code[0].Path)
	assert.Equal(t, "rtl/alu_tb.sv", out.Test[0].Path)
}

func TestHasValidPatches_Threshold(t *testing.T) {
	c := Classified{
		Code: []model.FilePatch{{Additions: 3, Deletions: 2}},
		Test: []model.FilePatch{{Additions: 1, Deletions: 1}},
	}
	assert.True(t, c.HasValidPatches(5, 2))
	assert.False(t, c.HasValidPatches(6, 2))
	assert.False(t, c.HasValidPatches(5, 3))
}

func TestHasValidPatches_EmptyGroupsNeverSatisfyPositiveThreshold(t *testing.T) {
	c := Classified{}
	assert.False(t, c.HasValidPatches(1, 0))
	assert.True(t, c.HasValidPatches(0, 0))
}
