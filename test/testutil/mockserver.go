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

// Package testutil provides common test helpers for cdr-relay
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

// RecordedRequest is what the mock server saw for one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	RequestURI    string
	Authorization string
	ContentType   string
}

// CDRServerOptions configures NewCDRServer.
type CDRServerOptions struct {
	// Total is the number of records available across all pages.
	Total int

	// AlwaysNext makes every page, including the last, carry a next link.
	AlwaysNext bool

	// FailAtRequest makes the Nth request (1-based) answer FailStatus.
	FailAtRequest int
	FailStatus    int
	FailBody      string
}

// CDRServer is a mock CarrierX API serving call detail records in
// offset-based pages, the way the real API does.
type CDRServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewCDRServer creates a mock server serving opts.Total records. Both the
// call and the conference endpoints serve the same data.
func NewCDRServer(t *testing.T, opts CDRServerOptions) *CDRServer {
	t.Helper()

	s := &CDRServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.record(r)

		if opts.FailAtRequest > 0 && n == opts.FailAtRequest {
			status := opts.FailStatus
			if status == 0 {
				status = http.StatusInternalServerError
			}
			body := opts.FailBody
			if body == "" {
				body = fmt.Sprintf(`{"message":"%s"}`, http.StatusText(status))
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
			return
		}

		q := r.URL.Query()
		limit := atoiDefault(q.Get("limit"), 1000)
		offset := atoiDefault(q.Get("offset"), 0)

		count := 0
		if offset < opts.Total {
			count = min(limit, opts.Total-offset)
		}

		resp := PageResponse{
			Items:  GenerateCDRs(offset, count),
			Limit:  limit,
			Offset: offset,
			Total:  opts.Total,
		}
		if offset+count < opts.Total || opts.AlwaysNext {
			next := url.Values{}
			next.Set("filter", q.Get("filter"))
			next.Set("limit", strconv.Itoa(limit))
			next.Set("offset", strconv.Itoa(offset+count))
			next.Set("order", q.Get("order"))
			resp.Next = "http://" + r.Host + r.URL.Path + "?" + next.Encode()
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(resp.JSON())
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *CDRServer) record(r *http.Request) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		RequestURI:    r.RequestURI,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	})
	return len(s.requests)
}

// Requests returns a copy of the requests seen so far.
func (s *CDRServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// RequestCount returns the number of requests seen so far.
func (s *CDRServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// NewErrorServer creates a mock server that always returns the specified status
func NewErrorServer(t *testing.T, statusCode int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// NewStaticServer creates a mock server that answers every request with body.
func NewStaticServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
