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

package metadata

import (
	"time"
)

// RunSummary is the record of a single download. It tells an operator what
// was asked for, what came back, and how long it took.
type RunSummary struct {
	RelayVersion string     `json:"relay_version"`
	RunID        string     `json:"run_id"`
	Parameters   RunParams  `json:"parameters"`
	Results      RunResults `json:"results"`
}

// RunParams captures the inputs of a run.
type RunParams struct {
	Source    string `json:"source"`
	Endpoint  string `json:"endpoint"`
	Begin     string `json:"begin"`
	End       string `json:"end"`
	Format    string `json:"format"`
	Output    string `json:"output"`
	Overwrite bool   `json:"overwrite"`
	PageSize  int    `json:"page_size"`
}

// RunResults holds the counters collected while the run was in progress.
// The date_stop bounds are only set when records carried a parseable
// date_stop field.
type RunResults struct {
	TotalRecords     int        `json:"total_records"`
	Pages            int        `json:"pages"`
	APICallCount     int        `json:"api_calls_made"`
	EarliestDateStop *time.Time `json:"earliest_date_stop,omitempty"`
	LatestDateStop   *time.Time `json:"latest_date_stop,omitempty"`
	Duration         string     `json:"duration"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      time.Time  `json:"completed_at"`
}
