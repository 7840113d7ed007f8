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

// Package scanner compiles allow/deny vocabularies into regexes and scans
// fetched text for hits, plus extracts candidate build/test invocations
// from CI YAML and Makefiles (spec §4.2).
package scanner

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/rong-hash/VeriMine/internal/model"
)

// Vocabulary holds the compiled allow/deny pattern sets for one run. Both
// sets are case-insensitive with \b...\b anchors around each literal term.
type Vocabulary struct {
	allow []compiledTerm
	deny  []compiledTerm
}

type compiledTerm struct {
	term string
	re   *regexp.Regexp
}

// NewVocabulary compiles the allow/deny literal term lists.
func NewVocabulary(allowTerms, denyTerms []string) Vocabulary {
	return Vocabulary{
		allow: compileTerms(allowTerms),
		deny:  compileTerms(denyTerms),
	}
}

func compileTerms(terms []string) []compiledTerm {
	out := make([]compiledTerm, 0, len(terms))
	for _, term := range terms {
		pattern := `(?i)\b` + regexp.QuoteMeta(term) + `\b`
		out = append(out, compiledTerm{term: term, re: regexp.MustCompile(pattern)})
	}
	return out
}

var (
	synopsysRe    = regexp.MustCompile(`(?i)synopsys`)
	vloganRe      = regexp.MustCompile(`(?i)vlogan`)
	full64Re      = regexp.MustCompile(`(?i)-full64`)
	vcsFlagRe     = regexp.MustCompile(`(?i)\bvcs\b\s*[-+]`)
	versionCtlRe  = regexp.MustCompile(`(?i)version[\s-]control`)
)

// Scan runs both vocabularies over text, returning allow-hits and deny-hits
// as MatchEvidence. The VCS context filter (spec §4.2) suppresses
// ambiguous "vcs" deny-hits.
func (v Vocabulary) Scan(path, text string) (allowHits, denyHits []model.MatchEvidence) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, t := range v.allow {
			if t.re.MatchString(line) {
				allowHits = append(allowHits, model.MatchEvidence{Path: path, Line: lineNum, Text: trimmed, Pattern: t.term})
			}
		}
		for _, t := range v.deny {
			if !t.re.MatchString(line) {
				continue
			}
			if strings.EqualFold(t.term, "vcs") && !isRealVCSHit(line) {
				continue
			}
			denyHits = append(denyHits, model.MatchEvidence{Path: path, Line: lineNum, Text: trimmed, Pattern: t.term})
		}
	}
	return allowHits, denyHits
}

// isRealVCSHit implements the spec §4.2 / §8 false-positive suppression for
// the ambiguous "vcs" token: a hit only counts when the line plausibly
// refers to Synopsys VCS the simulator, never a version-control mention.
func isRealVCSHit(line string) bool {
	if versionCtlRe.MatchString(line) {
		return false
	}
	return synopsysRe.MatchString(line) || vcsFlagRe.MatchString(line) || vloganRe.MatchString(line) || full64Re.MatchString(line)
}

var (
	ciRunRe       = regexp.MustCompile(`run:\s*(.*)$`)
	testCommandRe = regexp.MustCompile(`(?i)\btest\b|\bcheck\b|pytest`)
	makeTargetRe  = regexp.MustCompile(`^(test|check|build|all)\s*:`)
)

// Commands holds candidate build/test invocations extracted from a CI
// config or Makefile.
type Commands struct {
	Build []string
	Test  []string
}

// ExtractCIYAML scans a CI workflow YAML file's text for `run:` lines.
func ExtractCIYAML(text string) Commands {
	var out Commands
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		m := ciRunRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cmd := strings.TrimSpace(m[1])
		if cmd == "" || cmd == "|" || cmd == ">" || cmd == "|-" || cmd == ">-" {
			continue
		}
		if testCommandRe.MatchString(cmd) {
			out.Test = append(out.Test, cmd)
		} else {
			out.Build = append(out.Build, cmd)
		}
	}
	return out
}

// ExtractMakefile scans a Makefile's text for test/check/build/all targets.
func ExtractMakefile(text string) Commands {
	var out Commands
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		m := makeTargetRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		target := m[1]
		cmd := "make " + target
		switch target {
		case "test", "check":
			out.Test = append(out.Test, cmd)
		case "build", "all":
			out.Build = append(out.Build, cmd)
		}
	}
	return out
}
