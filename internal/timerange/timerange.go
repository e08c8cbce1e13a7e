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

// Package timerange normalizes user-supplied ISO 8601 dates into the
// canonical UTC form the CarrierX filter language expects, and builds the
// half-open [begin, end) window used to query call detail records.
package timerange

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
)

// Layout is the canonical timestamp layout sent to the API.
const Layout = "2006-01-02T15:04:05Z"

// hasZone matches a trailing UTC designator or ±HH:MM offset.
var hasZone = regexp.MustCompile(`(Z|[+-]\d\d:\d\d)$`)

// inputLayouts are tried in order once the input carries a zone.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02Z07:00",
}

// Window is the half-open [Begin, End) interval on date_stop, both ends in
// canonical UTC form.
type Window struct {
	Begin string
	End   string
}

// Filter renders the window as a CarrierX filter expression.
func (w Window) Filter() string {
	return fmt.Sprintf("date_stop ge %s and date_stop lt %s", w.Begin, w.End)
}

// NewWindow normalizes begin and end. An empty end means now.
func NewWindow(begin, end string, now time.Time) (Window, error) {
	b, err := Normalize(begin)
	if err != nil {
		return Window{}, fmt.Errorf("beginning date: %w", err)
	}

	var e string
	if strings.TrimSpace(end) == "" {
		e = now.UTC().Truncate(time.Second).Format(Layout)
	} else {
		e, err = Normalize(end)
		if err != nil {
			return Window{}, fmt.Errorf("ending date: %w", err)
		}
	}

	return Window{Begin: b, End: e}, nil
}

// Normalize parses an ISO 8601 date, with or without time and zone, and
// returns it as a UTC timestamp with seconds precision. Input without a
// zone is read as UTC; input with an offset keeps its instant.
func Normalize(input string) (string, error) {
	t, err := Parse(input)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}

// Parse is Normalize without the final formatting step. The returned time
// is in UTC and truncated to the second.
func Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty value: %w", relayerrors.ErrInvalidDate)
	}
	if !hasZone.MatchString(s) {
		s += "Z"
	}

	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}

	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 date: %w", input, relayerrors.ErrInvalidDate)
}
