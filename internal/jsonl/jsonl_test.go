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

package jsonl

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter_WritesOneObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := OpenWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Write(map[string]any{"a": 1}))
	require.NoError(t, w.Write(map[string]any{"a": 2}))
	require.NoError(t, w.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	require.Equal(t, `{"a":1}`, lines[0])
	require.Equal(t, `{"a":2}`, lines[1])
}

func TestOpenWriter_TruncateVsAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w1, err := OpenWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w1.Write(map[string]any{"a": 1}))
	require.NoError(t, w1.Close())

	w2, err := OpenWriter(path, true)
	require.NoError(t, err)
	require.NoError(t, w2.Write(map[string]any{"a": 2}))
	require.NoError(t, w2.Close())

	require.Len(t, readLines(t, path), 2)

	w3, err := OpenWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w3.Write(map[string]any{"a": 3}))
	require.NoError(t, w3.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	require.Equal(t, `{"a":3}`, lines[0])
}

func TestJournal_MarkDoneAndLoadCompleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.MarkDone("owner/repo-a"))
	require.NoError(t, j.MarkDone("owner/repo-b"))
	require.NoError(t, j.Close())

	completed, err := LoadCompleted(path)
	require.NoError(t, err)
	require.True(t, completed["owner/repo-a"])
	require.True(t, completed["owner/repo-b"])
	require.False(t, completed["owner/repo-c"])
}

func TestLoadCompleted_MissingFileIsEmptyNotError(t *testing.T) {
	completed, err := LoadCompleted(filepath.Join(t.TempDir(), "does-not-exist.log"))
	require.NoError(t, err)
	require.Empty(t, completed)
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.True(t, Exists(path))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	require.NoError(t, s.Err())
	return lines
}
