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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

var (
	// ErrInvalidToken indicates the CarrierX API rejected the access token.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrAPIFailure indicates the API answered with an unexpected status or body.
	ErrAPIFailure = errors.New("api request failed")

	// ErrInvalidDate indicates a date argument could not be parsed as ISO 8601.
	ErrInvalidDate = errors.New("invalid date")

	// ErrOutputDirMissing indicates the directory of the output file does not exist.
	ErrOutputDirMissing = errors.New("output directory does not exist")

	// ErrOutputExists indicates the output file exists and overwrite was not requested.
	ErrOutputExists = errors.New("output file exists")

	// ErrInvalidFormat indicates an unsupported output format was requested.
	ErrInvalidFormat = errors.New("invalid output format")
)
