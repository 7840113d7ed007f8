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

package qualify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rong-hash/VeriMine/internal/config"
	"github.com/rong-hash/VeriMine/internal/githubapi"
	"github.com/rong-hash/VeriMine/internal/githubapi/githubfake"
)

func minimalConfig() config.PipelineConfig {
	return config.PipelineConfig{
		MinStars:          10,
		PushedWithinDays:  3650,
		MinSVRatio:        0.1,
		MinSVFiles:        1,
		MinSVLines:        0,
		MinPRTotal:        0,
		MinIssueTotal:     0,
		MinCommitLast12m:  0,
		MinCommitLast6m:   0,
		MinTags:           0,
		MinReleases:       0,
		AllowlistTerms:    []string{"iverilog"},
		DenylistTerms:     []string{"questa"},
		ScanPaths:         []string{"README.md"},
		ScanWorkflows:     false,
		ScanScriptsDir:    false,
		MaxScriptFiles:    0,
		UseGraphQL:        false,
		VerilogExtensions: []string{".v", ".sv"},
	}
}

func TestEvaluate_AcceptsQualifyingRepo(t *testing.T) {
	client := githubfake.New()
	r := client.AddRepo("acme", "chip")
	r.Languages = map[string]int64{"Verilog": 800, "Python": 200}
	r.Tree = []githubapi.TreeEntry{{Path: "rtl/alu.v", Type: "blob"}}
	r.Files["README.md"] = "this project uses iverilog for simulation\n"

	engine := NewEngine(client, minimalConfig(), nil)
	candidate := githubapi.RepoDescriptor{
		Owner: "acme", Name: "chip", FullName: "acme/chip",
		DefaultBranch: "main", Stars: 50, PushedAt: time.Now(),
	}

	card, reject := engine.Evaluate(context.Background(), candidate)
	require.Nil(t, reject)
	require.NotNil(t, card)
	assert.Equal(t, "acme/chip", card.Repo)
	assert.Equal(t, 1, card.HDLFileCount)
	assert.Len(t, card.AllowHits, 1)
	assert.Empty(t, card.DenyHits)
}

func TestEvaluate_RejectionNeverAlsoReturnsCard(t *testing.T) {
	client := githubfake.New()
	r := client.AddRepo("acme", "toolow")
	r.Languages = map[string]int64{"Verilog": 800}
	r.Tree = []githubapi.TreeEntry{{Path: "rtl/alu.v", Type: "blob"}}
	r.Files["README.md"] = "this project uses iverilog\n"

	engine := NewEngine(client, minimalConfig(), nil)
	candidate := githubapi.RepoDescriptor{
		Owner: "acme", Name: "toolow", FullName: "acme/toolow",
		DefaultBranch: "main", Stars: 1, PushedAt: time.Now(),
	}

	card, reject := engine.Evaluate(context.Background(), candidate)
	assert.Nil(t, card)
	require.NotNil(t, reject)
	assert.Contains(t, reject.Reasons, "min_stars")
}

func TestEvaluate_AccumulatesMultipleReasonsWithoutShortCircuit(t *testing.T) {
	client := githubfake.New()
	r := client.AddRepo("acme", "bad")
	r.Languages = map[string]int64{"Python": 800}
	r.Tree = []githubapi.TreeEntry{}
	r.Files["README.md"] = "no tools mentioned here\n"

	engine := NewEngine(client, minimalConfig(), nil)
	candidate := githubapi.RepoDescriptor{
		Owner: "acme", Name: "bad", FullName: "acme/bad",
		DefaultBranch: "main", Stars: 1, PushedAt: time.Now(), Archived: true,
	}

	_, reject := engine.Evaluate(context.Background(), candidate)
	require.NotNil(t, reject)
	assert.Contains(t, reject.Reasons, "archived_or_fork")
	assert.Contains(t, reject.Reasons, "min_stars")
	assert.Contains(t, reject.Reasons, "sv_ratio")
	assert.Contains(t, reject.Reasons, "allowlist_missing")

	sorted := append([]string{}, reject.Reasons...)
	assert.IsIncreasing(t, sorted)
}

func TestEvaluate_DenylistToolHitRejects(t *testing.T) {
	client := githubfake.New()
	r := client.AddRepo("acme", "chip")
	r.Languages = map[string]int64{"Verilog": 800}
	r.Tree = []githubapi.TreeEntry{{Path: "rtl/alu.v", Type: "blob"}}
	r.Files["README.md"] = "requires questa for simulation\n"

	engine := NewEngine(client, minimalConfig(), nil)
	candidate := githubapi.RepoDescriptor{
		Owner: "acme", Name: "chip", FullName: "acme/chip",
		DefaultBranch: "main", Stars: 50, PushedAt: time.Now(),
	}

	card, reject := engine.Evaluate(context.Background(), candidate)
	assert.Nil(t, card)
	require.NotNil(t, reject)
	assert.Contains(t, reject.Reasons, "denylist_tools")
}

func TestEvaluate_SVSizeFallsBackToLineCountWhenFileCountTooLow(t *testing.T) {
	client := githubfake.New()
	r := client.AddRepo("acme", "chip")
	r.Languages = map[string]int64{"Verilog": 800}
	r.Tree = []githubapi.TreeEntry{{Path: "rtl/alu.v", Type: "blob"}}
	r.Files["rtl/alu.v"] = "line1\nline2\nline3\n"
	r.Files["README.md"] = "uses iverilog\n"

	cfg := minimalConfig()
	cfg.MinSVFiles = 5
	cfg.MinSVLines = 100
	engine := NewEngine(client, cfg, nil)
	candidate := githubapi.RepoDescriptor{
		Owner: "acme", Name: "chip", FullName: "acme/chip",
		DefaultBranch: "main", Stars: 50, PushedAt: time.Now(),
	}

	card, reject := engine.Evaluate(context.Background(), candidate)
	assert.Nil(t, card)
	require.NotNil(t, reject)
	assert.Contains(t, reject.Reasons, "sv_size")
}

func TestLanguageRatio_EmptyMapIsZero(t *testing.T) {
	assert.Equal(t, 0.0, languageRatio(nil))
	assert.Equal(t, 0.0, languageRatio(map[string]int64{}))
}

func TestLanguageRatio_CombinesVerilogAndSystemVerilog(t *testing.T) {
	ratio := languageRatio(map[string]int64{"Verilog": 30, "SystemVerilog": 20, "Python": 50})
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestDedupeSorted(t *testing.T) {
	got := dedupeSorted([]string{"make test", "make build", "make test"})
	assert.Equal(t, []string{"make build", "make test"}, got)
}
