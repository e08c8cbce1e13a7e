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
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirseerhq/cdr-relay/internal/cdr"
	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// It serves Pages in order, one per call.
type MockClient struct {
	// Pages to return, in order
	Pages []*RecordPage

	// Error to return
	Error error

	// FailOnCall makes the Nth call (1-based) return Error
	FailOnCall int

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount int
	LastQuery Query
	Cursors   []*string
}

// NewMockClient creates a new mock client serving the given pages
func NewMockClient(pages ...*RecordPage) *MockClient {
	return &MockClient{Pages: pages}
}

// FetchRecords implements the Client interface
func (m *MockClient) FetchRecords(ctx context.Context, q Query, opts FetchOptions) (*RecordPage, error) {
	m.CallCount++
	m.LastQuery = q
	m.Cursors = append(m.Cursors, opts.Next)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relayerrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", relayerrors.ErrNetworkFailure)
	}

	if m.Error != nil && (m.FailOnCall == 0 || m.FailOnCall == m.CallCount) {
		return nil, m.Error
	}

	if m.CallCount > len(m.Pages) {
		return &RecordPage{}, nil
	}

	return m.Pages[m.CallCount-1], nil
}

// NewTestPage builds a page of n synthetic records numbered from start. A
// non-empty next becomes the page's pagination cursor.
func NewTestPage(start, n int, next string) *RecordPage {
	items := make([]cdr.Record, 0, n)
	for i := start; i < start+n; i++ {
		items = append(items, NewTestRecord(i))
	}

	page := &RecordPage{
		Count: n,
		Limit: MaxPageSize,
		Items: items,
	}
	if next != "" {
		page.HasMore = true
		page.Pagination.Next = &next
	}
	return page
}

// NewTestRecord builds a record shaped like a CarrierX call detail record.
func NewTestRecord(i int) cdr.Record {
	r := cdr.NewRecord()
	r.Set("dr_sid", mustJSON(fmt.Sprintf("dr-%05d", i)))
	r.Set("date_start", mustJSON(fmt.Sprintf("2024-01-01T00:%02d:%02d.000Z", (i/60)%60, i%60)))
	r.Set("date_stop", mustJSON(fmt.Sprintf("2024-01-01T01:%02d:%02d.000Z", (i/60)%60, i%60)))
	r.Set("direction", mustJSON("inbound"))
	r.Set("duration", mustJSON(float64(i%600)+0.5))
	r.Set("number_src", mustJSON("15551230000"))
	r.Set("number_dst", mustJSON("15559870000"))
	r.Set("price", mustJSON(nil))
	return *r
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
