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

// Package jsonl implements the flush-per-record JSONL writer and the
// resume journal the drivers use to survive interruption (spec §4.6,
// §5): every record write is durably flushed before the journal entry for
// its repository is appended.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Writer appends one JSON object per line to a file, flushing after every
// write.
type Writer struct {
	file *os.File
	w    *bufio.Writer
}

// OpenWriter opens path for JSONL writing. append selects O_APPEND over
// O_TRUNC — the miner driver uses append mode when resuming from a
// journal, truncate mode otherwise (spec §4.6).
func OpenWriter(path string, append bool) (*Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl writer %s: %w", path, err)
	}
	return &Writer{file: f, w: bufio.NewWriter(f)}, nil
}

// Write marshals v as one JSON line and flushes immediately.
func (w *Writer) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal jsonl record: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("write jsonl record: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write jsonl record: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush jsonl record: %w", err)
	}
	return w.file.Sync()
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// Journal is the append-only completed-repository log consulted on resume.
type Journal struct {
	file *os.File
	w    *bufio.Writer
}

// OpenJournal opens path in append mode, creating it if absent.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Journal{file: f, w: bufio.NewWriter(f)}, nil
}

// MarkDone appends repo to the journal and flushes it durably. Call only
// after every record for repo has been written and flushed to its output
// streams (the §4.6 durability-ordering invariant).
func (j *Journal) MarkDone(repo string) error {
	if _, err := j.w.WriteString(repo + "\n"); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	if err := j.w.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return j.file.Sync()
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	return j.file.Close()
}

// LoadCompleted reads a journal file and returns the set of already
// completed repo names. A missing file yields an empty, non-error set.
func LoadCompleted(path string) (map[string]bool, error) {
	completed := map[string]bool{}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return completed, nil
		}
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			completed[line] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal %s: %w", path, err)
	}
	return completed, nil
}

// Exists reports whether a file exists at path (used to decide append vs
// truncate mode for output streams when resuming).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
