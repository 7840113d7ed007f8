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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastPageFromLink_Found(t *testing.T) {
	header := `<https://api.github.com/repos/o/r/commits?page=2>; rel="next", <https://api.github.com/repos/o/r/commits?page=42>; rel="last"`
	n, ok := lastPageFromLink(header)
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestLastPageFromLink_NoLastRel(t *testing.T) {
	header := `<https://api.github.com/repos/o/r/commits?page=2>; rel="next"`
	_, ok := lastPageFromLink(header)
	assert.False(t, ok)
}

func TestLastPageFromLink_EmptyHeader(t *testing.T) {
	_, ok := lastPageFromLink("")
	assert.False(t, ok)
}

func TestLastPageFromLink_TrailingQueryParam(t *testing.T) {
	header := `<https://api.github.com/repos/o/r/commits?page=7&foo=bar>; rel="last"`
	n, ok := lastPageFromLink(header)
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestEstimateTotalFromLastPage(t *testing.T) {
	header := `<https://api.github.com/repos/o/r/commits?page=3>; rel="last"`
	total, ok := EstimateTotalFromLastPage(header, 100)
	assert.True(t, ok)
	assert.Equal(t, 300, total)
}

func TestEstimateTotalFromLastPage_EmptyHeader(t *testing.T) {
	_, ok := EstimateTotalFromLastPage("", 100)
	assert.False(t, ok)
}
