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

import "github.com/sirseerhq/cdr-relay/internal/cdr"

// RecordWriter receives records page by page.
type RecordWriter interface {
	// Write appends one page of records. Empty pages are ignored.
	Write(records []cdr.Record) error

	// Count returns the number of records accepted so far.
	Count() int

	// Close finishes the output and releases the file. For buffered formats
	// this is when data reaches the disk.
	Close() error

	// Abort ends a failed run. Whatever has already reached the disk stays
	// there; nothing further is written.
	Abort() error
}
