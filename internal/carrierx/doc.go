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

// Package carrierx provides a client for the CarrierX Core API call detail
// record endpoints. It builds the filtered first-page request, follows the
// server-supplied pagination cursor verbatim, and maps transport and HTTP
// failures onto the relay's sentinel errors.
//
// The package includes:
//   - A Client interface for fetching one page of records
//   - A REST implementation on net/http with bearer authentication
//   - Mock client for testing
//   - Type definitions for queries and pages
//
// Basic usage:
//
//	client := carrierx.NewRESTClient("your-token", carrierx.DefaultEndpoint)
//	page, err := client.FetchRecords(ctx, carrierx.Query{
//	    Source: carrierx.SourceCalls,
//	    Window: window,
//	    Limit:  carrierx.MaxPageSize,
//	}, carrierx.FetchOptions{})
//	if err != nil {
//	    // Handle error
//	}
//	for _, rec := range page.Items {
//	    // Process record
//	}
package carrierx
