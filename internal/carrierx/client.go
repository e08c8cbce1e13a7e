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

import "context"

// Client defines the interface for reading call detail records from CarrierX.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchRecords retrieves one page of records. With an empty opts.Next the
	// request is built from q; otherwise opts.Next is requested as is and q
	// is only used for logging.
	FetchRecords(ctx context.Context, q Query, opts FetchOptions) (*RecordPage, error)
}
