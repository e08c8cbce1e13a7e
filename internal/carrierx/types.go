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

package carrierx

import (
	"fmt"
	"strings"

	"github.com/sirseerhq/cdr-relay/internal/cdr"
	"github.com/sirseerhq/cdr-relay/internal/timerange"
)

// DefaultEndpoint is the CarrierX Core API v2 base URL.
const DefaultEndpoint = "https://api.carrierx.com/core/v2"

// MaxPageSize is the largest limit the API accepts for one page.
const MaxPageSize = 1000

// Source selects which kind of record is downloaded.
type Source int

const (
	// SourceCalls selects SIP call detail records.
	SourceCalls Source = iota
	// SourceConference selects conference call records.
	SourceConference
)

// Path returns the endpoint path, relative to the API base URL.
func (s Source) Path() string {
	if s == SourceConference {
		return "/app/conference/calls"
	}
	return "/calls/call_drs"
}

func (s Source) String() string {
	if s == SourceConference {
		return "conference"
	}
	return "calls"
}

// Query describes the first request of a download.
type Query struct {
	Source Source
	Window timerange.Window
	Limit  int
}

// FetchOptions configures a single page request.
type FetchOptions struct {
	// Next is the opaque URL returned by the previous page.
	// Nil fetches the first page.
	Next *string
}

// Pagination holds the opaque cursors returned with a page.
type Pagination struct {
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
}

// RecordPage is one page of the CarrierX collection response.
type RecordPage struct {
	Count      int          `json:"count"`
	HasMore    bool         `json:"has_more"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
	Total      *int         `json:"total,omitempty"`
	Items      []cdr.Record `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

// NextCursor returns the next page URL. Empty strings count as absent.
func (p *RecordPage) NextCursor() *string {
	if p == nil || p.Pagination.Next == nil || strings.TrimSpace(*p.Pagination.Next) == "" {
		return nil
	}
	next := *p.Pagination.Next
	return &next
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("carrierx api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("carrierx api returned status %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether the token was rejected.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFoundError reports whether the endpoint does not exist.
func (e *APIError) IsNotFoundError() bool {
	return e.StatusCode == 404
}

// IsNetworkError reports gateway failures between the client and the API.
func (e *APIError) IsNetworkError() bool {
	return e.StatusCode == 502 || e.StatusCode == 503 || e.StatusCode == 504
}
