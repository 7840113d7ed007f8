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

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPipelineConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadPipelineConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPipelineConfig(), cfg)
}

func TestLoadPipelineConfig_OverridesMergeOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	data, err := json.Marshal(map[string]any{"min_stars": 250})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadPipelineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.MinStars)
	assert.Equal(t, DefaultPipelineConfig().MinSVRatio, cfg.MinSVRatio)
}

func TestLoadPipelineConfig_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	data, err := json.Marshal(map[string]any{"min_stars": -1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadPipelineConfig(path)
	assert.Error(t, err)
}

func TestLoadMinerConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadMinerConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMinerConfig(), cfg)
}

func TestResolveToken_FlagOnly(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	tok, err := ResolveToken("flag-token")
	require.NoError(t, err)
	assert.Equal(t, "flag-token", tok)
}

func TestResolveToken_EnvOnly(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	tok, err := ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", tok)
}

func TestResolveToken_AgreeingValuesOK(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "same-token")
	tok, err := ResolveToken("same-token")
	require.NoError(t, err)
	assert.Equal(t, "same-token", tok)
}

func TestResolveToken_ConflictingValuesError(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	_, err := ResolveToken("flag-token")
	assert.ErrorIs(t, err, ErrTokenConflict)
}

func TestResolveToken_NeitherSetIsEmptyNotError(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	tok, err := ResolveToken("")
	require.NoError(t, err)
	assert.Empty(t, tok)
}
