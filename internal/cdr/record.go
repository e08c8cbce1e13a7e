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

// Package cdr models call detail records as returned by the CarrierX API.
// The service owns the record schema, so a Record is an ordered mapping of
// field name to raw JSON value rather than a fixed struct. Key order is the
// order the server sent, which drives CSV header derivation.
package cdr

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one call detail record. The zero value is an empty record.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewRecord returns an empty record ready for Set.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, json.RawMessage]()}
}

func (r *Record) init() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, json.RawMessage]()
	}
}

// Set stores a raw JSON value under key. New keys are appended, existing
// keys keep their position.
func (r *Record) Set(key string, value json.RawMessage) {
	r.init()
	r.fields.Set(key, value)
}

// Get returns the raw JSON value stored under key.
func (r Record) Get(key string) (json.RawMessage, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Len returns the number of fields.
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns the field names in server order.
func (r Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// String returns the field as text. See FormatValue.
func (r Record) String(key string) string {
	raw, _ := r.Get(key)
	return FormatValue(raw)
}

// IsNull reports whether the record was decoded from a JSON null. A
// decoded {} is an empty record, not a null one.
func (r Record) IsNull() bool {
	return r.fields == nil
}

// UnmarshalJSON decodes a JSON object, keeping key order. A JSON null
// leaves the record null.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		r.fields = nil
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("cdr: record must be a JSON object, got %.20q", trimmed)
	}
	r.fields = orderedmap.New[string, json.RawMessage]()
	return r.fields.UnmarshalJSON(trimmed)
}

// MarshalJSON encodes the record as a JSON object in key order. Values are
// written as the server sent them, without HTML escaping.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if r.fields != nil {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)

		for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
			if buf.Len() > 1 {
				buf.WriteByte(',')
			}
			if err := enc.Encode(pair.Key); err != nil {
				return nil, fmt.Errorf("cdr: key %q: %w", pair.Key, err)
			}
			trimNewline(&buf)
			buf.WriteByte(':')

			value := pair.Value
			if len(bytes.TrimSpace(value)) == 0 {
				value = json.RawMessage("null")
			}
			if err := enc.Encode(value); err != nil {
				return nil, fmt.Errorf("cdr: field %q: %w", pair.Key, err)
			}
			trimNewline(&buf)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline drops the newline json.Encoder appends after each value.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

// FormatValue renders a raw JSON value as a CSV cell. Strings are
// unquoted, null and missing values are empty, numbers and booleans are
// kept verbatim, and objects or arrays are emitted as compact JSON.
func FormatValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return string(trimmed)
		}
		return s
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return string(trimmed)
		}
		return buf.String()
	default:
		return string(trimmed)
	}
}
