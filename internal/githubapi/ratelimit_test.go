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
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimited(t *testing.T) {
	limited := &http.Response{StatusCode: http.StatusForbidden, Header: http.Header{"X-Ratelimit-Remaining": {"0"}}}
	assert.True(t, isRateLimited(limited))

	notLimited := &http.Response{StatusCode: http.StatusForbidden, Header: http.Header{"X-Ratelimit-Remaining": {"10"}}}
	assert.False(t, isRateLimited(notLimited))

	otherStatus := &http.Response{StatusCode: http.StatusOK, Header: http.Header{"X-Ratelimit-Remaining": {"0"}}}
	assert.False(t, isRateLimited(otherStatus))
}

func TestParseResetHeader_Valid(t *testing.T) {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	got := parseResetHeader(strconv.FormatInt(epoch, 10))
	assert.Equal(t, epoch, got.Unix())
}

func TestParseResetHeader_Invalid(t *testing.T) {
	before := time.Now()
	got := parseResetHeader("not-a-number")
	assert.True(t, !got.Before(before))
}

func TestEstimateTotalFromLastPage_MultipliesByPageSize(t *testing.T) {
	header := `<https://api.github.com/repos/o/r/commits?page=5>; rel="last"`
	total, ok := EstimateTotalFromLastPage(header, 1)
	assert.True(t, ok)
	assert.Equal(t, 5, total)
}
