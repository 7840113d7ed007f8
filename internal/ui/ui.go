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

// Package ui provides the terminal color and progress-bar helpers the
// drivers use for interactive output, in the style of the teacher's
// (unretrieved) internal/ui package: fatih/color for palette, go-isatty
// plus NO_COLOR for TTY detection, schollz/progressbar/v3 for per-repo
// progress.
package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Dim    = color.New(color.Faint)
	Bold   = color.New(color.Bold)
)

// InitColors disables color output when noColor is set, stdout isn't a
// TTY, or NO_COLOR is present in the environment.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Header prints a bold section header.
func Header(title string) {
	_, _ = Bold.Printf("== %s ==\n", title)
}

// SubHeader prints a dim sub-section header.
func SubHeader(title string) {
	_, _ = Dim.Printf("-- %s --\n", title)
}

// Label formats a field label in dim text.
func Label(text string) string {
	return Dim.Sprint(text)
}

// CountText formats an integer count in bold.
func CountText(n int) string {
	return Bold.Sprint(n)
}

// DimText formats arbitrary text in dim style.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// NewProgressBar builds a progress bar for one pipeline phase. Output is
// suppressed entirely when quiet is set (the qualify driver sets it under
// --log-level=debug).
func NewProgressBar(total int64, description string, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(total)
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100_000_000),
		progressbar.OptionClearOnFinish(),
	)
}

// Error prints a red error line to stderr.
func Error(format string, args ...any) {
	_, _ = Red.Fprintf(os.Stderr, format+"\n", args...)
}
