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

// Package reasons implements the small accumulator the qualification engine
// and miner use to replace exception-as-control-flow with explicit reason
// tags (spec §9: "represent each check as a function returning either a
// fact or a tagged failure; compose them with a small accumulator that
// appends tags").
package reasons

import (
	"sort"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// Set accumulates reason tags in the order checks run, and renders them
// sorted and deduplicated on demand — every rejection reason list in the
// system is required to equal its own sort-uniq.
type Set struct {
	tags *linkedhashset.Set
}

// New returns an empty reason set.
func New() *Set {
	return &Set{tags: linkedhashset.New()}
}

// Add appends a reason tag. Adding the same tag twice is a no-op.
func (s *Set) Add(tag string) {
	s.tags.Add(tag)
}

// Empty reports whether no reason has fired yet.
func (s *Set) Empty() bool {
	return s.tags.Empty()
}

// Slice returns the sorted, deduplicated reason tags.
func (s *Set) Slice() []string {
	values := s.tags.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}
