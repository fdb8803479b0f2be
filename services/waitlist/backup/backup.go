// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package backup persists waitlist submissions as local JSON files.
//
// The file backup is the authoritative least-common-denominator
// record: a submission counts as "received" once its backup file is
// written, independent of the durable store and notification
// outcomes. One file is written per submission, named by ISO date and
// a sanitized restaurant name, so an operator can reconcile records
// by hand when the store was unavailable.
package backup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/datatypes"
)

// Writer saves and retrieves submission backup files under a single
// directory. The directory is created on first save if absent.
//
// Writer has no mutable state of its own; concurrent Save calls are
// safe as long as two submissions do not sanitize to the same file
// name on the same day, in which case the later write wins (same
// behavior as the original funnel).
type Writer struct {
	dir string
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the backup directory path.
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes one submission as a self-contained JSON record.
//
// The file is named "<YYYY-MM-DD>-<sanitized-restaurant-name>.json"
// using the submission's own timestamp date. Returns the path of the
// written file. Errors are returned for the caller to log and record;
// a Save failure never aborts the rest of the pipeline.
func (w *Writer) Save(sub datatypes.Submission) (string, error) {
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	date := sub.SubmittedAt
	if date.IsZero() {
		date = time.Now().UTC()
	}
	filename := fmt.Sprintf("%s-%s.json", date.Format("2006-01-02"), sanitizeName(sub.RestaurantName))
	path := filepath.Join(w.dir, filename)

	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}

	slog.Info("submission backed up", "path", path, "id", sub.ID)
	return path, nil
}

// List enumerates and parses all backup records, sorted by file name
// (which sorts by date first). An absent backup directory means zero
// records, not an error. Files that fail to parse are skipped with a
// warning so one corrupt record cannot hide the rest.
func (w *Writer) List() ([]datatypes.Submission, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	subs := make([]datatypes.Submission, 0, len(names))
	for _, name := range names {
		path := filepath.Join(w.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable backup file", "path", path, "error", err)
			continue
		}
		var sub datatypes.Submission
		if err := json.Unmarshal(data, &sub); err != nil {
			slog.Warn("skipping malformed backup file", "path", path, "error", err)
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// sanitizeName maps a restaurant name to a filesystem-safe lowercase
// slug: every non-alphanumeric rune becomes a dash.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
