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

// Package classify maps repository file paths to {code, test, other} by
// extension, filename, and directory rules (spec §4.1), and partitions raw
// API file records into classified FilePatch groups.
package classify

import (
	"path"
	"strings"

	"github.com/rong-hash/VeriMine/internal/model"
)

var hdlExtensions = map[string]bool{
	".v": true, ".vh": true, ".sv": true, ".svh": true,
}

// testFilenameGlobs are the canonical (newer, per spec §9) testbench
// naming patterns. Expressed as suffix/prefix/substring checks rather than
// path.Match globs since none of them need `?`/`[]` semantics.
var testFilenameGlobs = []func(base string) bool{
	func(base string) bool { return strings.HasSuffix(base, "_tb.sv") || strings.HasSuffix(base, "_tb.v") },
	func(base string) bool { return strings.HasPrefix(base, "tb_") },
	func(base string) bool {
		return strings.HasSuffix(base, "_test.sv") || strings.HasSuffix(base, "_test.v")
	},
	func(base string) bool { return strings.Contains(base, "_tb_") },
	func(base string) bool { return strings.Contains(base, "testbench") },
}

// testDirVocabulary deliberately excludes "sim"/"simulation" (spec §4.1,
// §9): in this ecosystem those directories typically hold infrastructure,
// not tests.
var testDirVocabulary = map[string]bool{
	"tb": true, "test": true, "tests": true, "testbench": true,
	"testbenches": true, "verif": true, "verification": true,
	"bench": true, "dv": true, "uvm": true, "cocotb": true,
}

// IsHDL reports whether path has one of the HDL extensions, case-insensitive.
func IsHDL(filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))
	return hdlExtensions[ext]
}

// ClassifyFile maps one path to its FileClass. Deterministic and
// case-insensitive on extension (spec §8 round-trip property).
func ClassifyFile(filePath string) model.FileClass {
	if !IsHDL(filePath) {
		return model.ClassOther
	}
	base := strings.ToLower(path.Base(filePath))
	for _, matches := range testFilenameGlobs {
		if matches(base) {
			return model.ClassTest
		}
	}
	for _, dir := range strings.Split(path.Dir(filePath), "/") {
		if testDirVocabulary[strings.ToLower(dir)] {
			return model.ClassTest
		}
	}
	return model.ClassCode
}

// RawFile is one file record as returned by the remote API, prior to
// classification.
type RawFile struct {
	Path      string
	Additions int
	Deletions int
	Patch     string
}

// Classified groups raw file records by classification.
type Classified struct {
	Code  []model.FilePatch
	Test  []model.FilePatch
	Other []model.FilePatch
}

// ClassifyFiles partitions raw file records into code/test/other groups.
func ClassifyFiles(files []RawFile) Classified {
	var out Classified
	for _, f := range files {
		class := ClassifyFile(f.Path)
		patch := model.FilePatch{
			Path:      f.Path,
			Class:     class,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Diff:      f.Patch,
		}
		switch class {
		case model.ClassCode:
			out.Code = append(out.Code, patch)
		case model.ClassTest:
			out.Test = append(out.Test, patch)
		default:
			out.Other = append(out.Other, patch)
		}
	}
	return out
}

// HasValidPatches is the §4.1 fast pre-filter: true as soon as accumulated
// additions+deletions on code files reaches minCode AND the same on test
// files reaches minTest.
func (c Classified) HasValidPatches(minCode, minTest int) bool {
	codeChanges := 0
	for _, p := range c.Code {
		codeChanges += p.Changes()
	}
	testChanges := 0
	for _, p := range c.Test {
		testChanges += p.Changes()
	}
	return codeChanges >= minCode && testChanges >= minTest
}
