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
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var _ pflag.Value = (*Format)(nil)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%q (want csv or json): %w", s, relayerrors.ErrInvalidFormat)
	}
}

// String implements pflag.Value.
func (f *Format) String() string {
	if f == nil || *f == "" {
		return string(FormatCSV)
	}
	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}
