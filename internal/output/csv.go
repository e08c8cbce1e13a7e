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
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/cdr-relay/internal/cdr"
)

// CSVWriter streams records as CSV. The header is taken from the key order
// of the first record it receives, and every later record is written as one
// row aligned to that header. Missing fields are empty; fields the first
// record did not have are dropped.
type CSVWriter struct {
	csv       *csv.Writer
	header    []string
	count     int
	closed    bool
	closeFunc func() error
}

// NewCSVWriter creates a writer on top of w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// NewCSVFileWriter creates or truncates path and writes CSV to it.
func NewCSVFileWriter(path string) (*CSVWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := NewCSVWriter(file)
	w.closeFunc = file.Close
	return w, nil
}

// Header returns the column names, or nil before the first record.
func (w *CSVWriter) Header() []string {
	return w.header
}

// Write appends one page of records and flushes it to the underlying writer.
func (w *CSVWriter) Write(records []cdr.Record) error {
	if w.closed {
		return fmt.Errorf("csv writer is closed")
	}
	if len(records) == 0 {
		return nil
	}

	if w.header == nil {
		w.header = records[0].Keys()
		if w.header == nil {
			w.header = []string{}
		}
		if err := w.csv.Write(w.header); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	row := make([]string, len(w.header))
	for _, rec := range records {
		for i, key := range w.header {
			row[i] = rec.String(key)
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
		w.count++
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush csv rows: %w", err)
	}
	return nil
}

// Count returns the number of rows written, excluding the header.
func (w *CSVWriter) Count() int {
	return w.count
}

// Close flushes pending rows and closes the file.
func (w *CSVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.csv.Flush()
	flushErr := w.csv.Error()

	if w.closeFunc != nil {
		if err := w.closeFunc(); err != nil {
			return fmt.Errorf("failed to close output file: %w", err)
		}
	}
	if flushErr != nil {
		return fmt.Errorf("failed to flush csv rows: %w", flushErr)
	}
	return nil
}

// Abort keeps the rows written so far and closes the file.
func (w *CSVWriter) Abort() error {
	return w.Close()
}
