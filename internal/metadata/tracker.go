// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metadata tracks statistics about a download and writes them out as
// a JSON run summary: how many pages and records were fetched, how many API
// calls that took, and which date_stop range the records actually covered.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirseerhq/cdr-relay/internal/cdr"
	"github.com/sirseerhq/cdr-relay/internal/timerange"
)

// DateField is the record field used for the covered date range.
const DateField = "date_stop"

// Tracker collects statistics during a run. Create one at the start of a
// run; it is not safe for concurrent use.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	pages        int
	records      int
	earliest     time.Time
	latest       time.Time
}

// New creates a tracker started at the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records one API request.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// AddPage records one non-empty page of records.
func (t *Tracker) AddPage(records []cdr.Record) {
	t.pages++
	for _, rec := range records {
		t.records++

		stop, err := timerange.Parse(rec.String(DateField))
		if err != nil {
			continue
		}
		if t.earliest.IsZero() || stop.Before(t.earliest) {
			t.earliest = stop
		}
		if stop.After(t.latest) {
			t.latest = stop
		}
	}
}

// Records returns the number of records seen so far.
func (t *Tracker) Records() int {
	return t.records
}

// APICalls returns the number of API requests made so far.
func (t *Tracker) APICalls() int {
	return t.apiCallCount
}

// GenerateSummary builds the summary for a completed run.
func (t *Tracker) GenerateSummary(relayVersion string, params RunParams) *RunSummary {
	completedAt := time.Now()

	results := RunResults{
		TotalRecords: t.records,
		Pages:        t.pages,
		APICallCount: t.apiCallCount,
		Duration:     completedAt.Sub(t.startTime).String(),
		StartedAt:    t.startTime,
		CompletedAt:  completedAt,
	}
	if !t.earliest.IsZero() {
		earliest, latest := t.earliest, t.latest
		results.EarliestDateStop = &earliest
		results.LatestDateStop = &latest
	}

	return &RunSummary{
		RelayVersion: relayVersion,
		RunID:        fmt.Sprintf("%s-%d", params.Source, t.startTime.Unix()),
		Parameters:   params,
		Results:      results,
	}
}

// SaveSummary writes the summary to path as indented JSON. The file is
// written to a unique temporary name first and renamed into place.
func SaveSummary(summary *RunSummary, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}

	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	tmpFile := file.Name()

	if err := file.Chmod(0o644); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to set summary file permissions: %w", err)
	}

	if err := WriteSummary(summary, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close summary file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save summary file: %w", err)
	}

	return nil
}

// WriteSummary encodes the summary as indented JSON to w.
func WriteSummary(summary *RunSummary, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
