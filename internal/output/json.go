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

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirseerhq/cdr-relay/internal/cdr"
)

// JSONWriter buffers every record and writes them on Close as a single
// JSON array indented with two spaces. HTML characters are not escaped.
type JSONWriter struct {
	path    string
	out     io.Writer
	records []cdr.Record
	closed  bool
}

// NewJSONWriter creates a writer that emits the array to w on Close.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{out: w, records: make([]cdr.Record, 0)}
}

// NewJSONFileWriter creates a writer that replaces path atomically on Close.
// Nothing is created on disk before that.
func NewJSONFileWriter(path string) *JSONWriter {
	return &JSONWriter{path: path, records: make([]cdr.Record, 0)}
}

// Write buffers one page of records.
func (w *JSONWriter) Write(records []cdr.Record) error {
	if w.closed {
		return fmt.Errorf("json writer is closed")
	}
	w.records = append(w.records, records...)
	return nil
}

// Count returns the number of buffered records.
func (w *JSONWriter) Count() int {
	return len(w.records)
}

// Close encodes all buffered records and writes them out.
func (w *JSONWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	data := buf.Bytes()

	if w.path != "" {
		return writeFileAtomic(w.path, data, 0o644)
	}
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// Abort drops the buffered records without writing anything.
func (w *JSONWriter) Abort() error {
	w.closed = true
	w.records = nil
	return nil
}
