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

package reasons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_EmptyInitially(t *testing.T) {
	s := New()
	assert.True(t, s.Empty())
	assert.Empty(t, s.Slice())
}

func TestSet_AddAccumulatesWithoutShortCircuit(t *testing.T) {
	s := New()
	s.Add("archived")
	s.Add("min_stars")
	s.Add("archived")
	assert.False(t, s.Empty())
	assert.Equal(t, []string{"archived", "min_stars"}, s.Slice())
}

func TestSet_SliceIsSortedAndDeduplicated(t *testing.T) {
	s := New()
	s.Add("zzz")
	s.Add("aaa")
	s.Add("zzz")
	s.Add("mmm")
	assert.Equal(t, []string{"aaa", "mmm", "zzz"}, s.Slice())
}
