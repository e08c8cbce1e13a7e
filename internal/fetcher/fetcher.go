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

// Package fetcher drives a download: it walks the pages of a CarrierX
// collection one request at a time and hands each page to a RecordWriter.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/cdr-relay/internal/carrierx"
	"github.com/sirseerhq/cdr-relay/internal/metadata"
	"github.com/sirseerhq/cdr-relay/internal/output"
)

// Result summarizes a finished run.
type Result struct {
	Records  int
	Pages    int
	APICalls int
}

// Fetcher pulls every page of a query and writes it out. Pages are fetched
// strictly in sequence; the next request is sent only after the previous
// page has been written.
type Fetcher struct {
	client  carrierx.Client
	writer  output.RecordWriter
	log     logrus.FieldLogger
	tracker *metadata.Tracker
}

// New creates a fetcher. A nil tracker gets a fresh one; a nil log discards.
func New(client carrierx.Client, writer output.RecordWriter, log logrus.FieldLogger, tracker *metadata.Tracker) *Fetcher {
	if tracker == nil {
		tracker = metadata.New()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Fetcher{
		client:  client,
		writer:  writer,
		log:     log,
		tracker: tracker,
	}
}

// Tracker returns the statistics collected by this fetcher.
func (f *Fetcher) Tracker() *metadata.Tracker {
	return f.tracker
}

// Run downloads every page of q. The writer is closed on success and
// aborted on failure; either way the caller must not use it afterwards.
//
// The loop ends on the first of: an empty page, a page shorter than the
// requested limit, or a page without a next link.
func (f *Fetcher) Run(ctx context.Context, q carrierx.Query) (*Result, error) {
	if q.Limit <= 0 || q.Limit > carrierx.MaxPageSize {
		q.Limit = carrierx.MaxPageSize
	}

	result, err := f.fetchAll(ctx, q)
	if err != nil {
		if abortErr := f.writer.Abort(); abortErr != nil {
			f.log.WithError(abortErr).Warn("Failed to finalize output after error")
		}
		return result, err
	}

	if err := f.writer.Close(); err != nil {
		return result, fmt.Errorf("failed to finalize output: %w", err)
	}

	f.log.WithFields(logrus.Fields{
		"records":   result.Records,
		"pages":     result.Pages,
		"api_calls": result.APICalls,
	}).Info("Download complete")

	return result, nil
}

func (f *Fetcher) fetchAll(ctx context.Context, q carrierx.Query) (*Result, error) {
	result := &Result{}
	var cursor *string

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("download interrupted: %w", err)
		}

		f.log.WithFields(logrus.Fields{
			"page":   page,
			"source": q.Source.String(),
		}).Info("Fetching page")

		resp, err := f.client.FetchRecords(ctx, q, carrierx.FetchOptions{Next: cursor})
		f.tracker.IncrementAPICall()
		result.APICalls++
		if err != nil {
			return result, err
		}
		if resp == nil {
			return result, errors.New("api returned no page")
		}

		if resp.Count == 0 || len(resp.Items) == 0 {
			f.log.WithField("page", page).Debug("Empty page, stopping")
			return result, nil
		}

		if err := f.writer.Write(resp.Items); err != nil {
			return result, fmt.Errorf("failed to write page %d: %w", page, err)
		}
		f.tracker.AddPage(resp.Items)
		result.Pages++
		result.Records += len(resp.Items)

		f.log.WithFields(logrus.Fields{
			"page":    page,
			"records": len(resp.Items),
			"total":   result.Records,
		}).Info("Page written")

		if resp.Count < q.Limit {
			return result, nil
		}

		cursor = resp.NextCursor()
		if cursor == nil {
			return result, nil
		}
	}
}
