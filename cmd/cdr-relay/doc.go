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

// Package main implements the cdr-relay command-line interface.
// This tool downloads call detail records (CDRs) from the CarrierX REST API
// and saves them as CSV or JSON.
//
// The CLI supports:
//   - SIP call records (default) or conference call records (--conference)
//   - A [begin, end) window on date_stop, end defaulting to now
//   - CSV output streamed page by page, or a pretty-printed JSON array
//   - Token authentication via flag, environment variable or .env file
//   - An optional JSON run summary (--summary)
//
// Usage:
//
//	cdr-relay fetch <filename> --begin <date> [flags]
//
// Example:
//
//	export CARRIERX_TOKEN=your_token
//	cdr-relay fetch calls.csv --begin 2024-01-01 --end 2024-02-01
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication error
//   - 3: Network error
package main
