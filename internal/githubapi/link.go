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
	"strconv"
	"strings"
)

// lastPageFromLink extracts the page=N query parameter from the rel="last"
// entry of an RFC 5988 Link header, e.g.:
//
//	<https://api.github.com/repos/o/r/commits?page=2>; rel="next", <https://api.github.com/repos/o/r/commits?page=42>; rel="last"
func lastPageFromLink(header string) (int, bool) {
	for _, part := range strings.Split(header, ",") {
		if !strings.Contains(part, `rel="last"`) {
			continue
		}
		// Only a "page=" that starts a query parameter counts, so the
		// "page=" inside "per_page=" is skipped.
		idx := -1
		for from := 0; ; {
			i := strings.Index(part[from:], "page=")
			if i == -1 {
				break
			}
			i += from
			if i > 0 && (part[i-1] == '?' || part[i-1] == '&') {
				idx = i
				break
			}
			from = i + len("page=")
		}
		if idx == -1 {
			return 0, false
		}
		rest := part[idx+len("page="):]
		end := strings.IndexAny(rest, ">&")
		if end != -1 {
			rest = rest[:end]
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
