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

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CDRBuilder provides a fluent API for creating test call detail records.
// Fields are emitted in the order they were added, which lets tests check
// that key order survives the round trip.
type CDRBuilder struct {
	keys   []string
	values map[string]any
}

// NewCDRBuilder creates a new record builder with the fields CarrierX
// returns for a SIP call, in server order.
func NewCDRBuilder(n int) *CDRBuilder {
	stop := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
	return NewEmptyCDRBuilder().
		With("dr_sid", fmt.Sprintf("dr-%05d", n)).
		With("date_start", stop.Add(-90*time.Second).Format("2006-01-02T15:04:05.000Z")).
		With("date_stop", stop.Format("2006-01-02T15:04:05.000Z")).
		With("direction", "outbound").
		With("duration", 90.0).
		With("number_src", "15551230000").
		With("number_dst", fmt.Sprintf("1555987%04d", n%10000)).
		With("price", "0.0025").
		With("custom_data", nil)
}

// NewEmptyCDRBuilder creates a builder without any fields.
func NewEmptyCDRBuilder() *CDRBuilder {
	return &CDRBuilder{values: make(map[string]any)}
}

// With sets a field, appending it if it is new.
func (b *CDRBuilder) With(key string, value any) *CDRBuilder {
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return b
}

// Without removes a field.
func (b *CDRBuilder) Without(key string) *CDRBuilder {
	if _, ok := b.values[key]; !ok {
		return b
	}
	delete(b.values, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
	return b
}

// Keys returns the field names in insertion order.
func (b *CDRBuilder) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Build renders the record as a JSON object.
func (b *CDRBuilder) Build() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		val, err := json.Marshal(b.values[k])
		if err != nil {
			panic(fmt.Sprintf("testutil: field %s: %v", k, err))
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// GenerateCDRs builds n default records numbered from start.
func GenerateCDRs(start, n int) []json.RawMessage {
	out := make([]json.RawMessage, 0, n)
	for i := start; i < start+n; i++ {
		out = append(out, NewCDRBuilder(i).Build())
	}
	return out
}

// DefaultCDRKeys returns the field order produced by NewCDRBuilder.
func DefaultCDRKeys() []string {
	return NewCDRBuilder(0).Keys()
}

// PageResponse is a CarrierX collection response under construction.
type PageResponse struct {
	Items  []json.RawMessage
	Limit  int
	Offset int
	Total  int
	Next   string
}

// JSON renders the response body.
func (p PageResponse) JSON() []byte {
	items := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, string(it))
	}

	pagination := "{}"
	if p.Next != "" {
		next, _ := json.Marshal(p.Next)
		pagination = fmt.Sprintf(`{"next":%s}`, next)
	}

	return []byte(fmt.Sprintf(
		`{"count":%d,"has_more":%t,"items":[%s],"limit":%d,"offset":%d,"pagination":%s,"total":%d}`,
		len(p.Items), p.Next != "", strings.Join(items, ","), p.Limit, p.Offset, pagination, p.Total,
	))
}
