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

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/cdr-relay/internal/apierror"
	"github.com/sirseerhq/cdr-relay/internal/cdr"
	relayerrors "github.com/sirseerhq/cdr-relay/internal/errors"
)

// maxErrorBody bounds how much of an error response is kept for the message.
const maxErrorBody = 4096

// RESTClient implements Client against the CarrierX REST API.
type RESTClient struct {
	httpClient *http.Client
	endpoint   string
	inspector  apierror.Inspector
	log        logrus.FieldLogger
}

// Option configures a RESTClient.
type Option func(*RESTClient)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *RESTClient) {
		c.log = log
	}
}

// WithBaseTransport replaces the transport beneath the auth layer.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *RESTClient) {
		if at, ok := c.httpClient.Transport.(*authTransport); ok {
			at.base = rt
		}
	}
}

// NewRESTClient creates a client for the API rooted at endpoint, e.g.
// DefaultEndpoint. Every request carries token as a bearer credential.
func NewRESTClient(token, endpoint string, opts ...Option) *RESTClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        2,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &RESTClient{
		httpClient: &http.Client{
			Transport: &authTransport{
				token: token,
				base:  transport,
			},
		},
		endpoint:  strings.TrimRight(endpoint, "/"),
		inspector: apierror.NewErrorChainInspector(apierror.NewInspector()),
		log:       logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FirstPageURL builds the filtered request for the first page of q.
func (c *RESTClient) FirstPageURL(q Query) string {
	limit := q.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	params := url.Values{}
	params.Set("filter", q.Window.Filter())
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order", "date_stop asc")

	return c.endpoint + q.Source.Path() + "?" + params.Encode()
}

// FetchRecords implements Client.
func (c *RESTClient) FetchRecords(ctx context.Context, q Query, opts FetchOptions) (*RecordPage, error) {
	target := c.FirstPageURL(q)
	if opts.Next != nil {
		target = *opts.Next
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}

	c.log.WithFields(logrus.Fields{
		"source": q.Source.String(),
		"url":    target,
	}).Debug("requesting records")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.mapError(ctx, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		})
	}

	var page RecordPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to decode response from %s: %w: %w", req.URL.Redacted(), relayerrors.ErrAPIFailure, err)
	}

	page.Items = dropNullItems(page.Items, c.log)

	return &page, nil
}

// dropNullItems removes null entries from items. Count is left as the
// server reported it, since it drives pagination.
func dropNullItems(items []cdr.Record, log logrus.FieldLogger) []cdr.Record {
	kept := items[:0]
	for _, item := range items {
		if item.IsNull() {
			continue
		}
		kept = append(kept, item)
	}
	if dropped := len(items) - len(kept); dropped > 0 {
		log.WithField("dropped", dropped).Warn("Skipping null records in page")
	}
	return kept
}

// mapError maps transport and API errors to our domain errors with actionable messages
func (c *RESTClient) mapError(ctx context.Context, err error) error {
	var apiErr *APIError
	isAPIErr := errors.As(err, &apiErr)

	if ctxErr := ctx.Err(); ctxErr != nil && !isAPIErr {
		return fmt.Errorf("request canceled: %w", ctxErr)
	}

	// Transport failures carry the request URL in their text, so only
	// API answers are checked for auth problems.
	if isAPIErr && c.inspector.IsAuthError(err) {
		return fmt.Errorf("CarrierX API authentication failed. Please provide a valid token via --token flag or CARRIERX_TOKEN environment variable: %w: %w", relayerrors.ErrInvalidToken, err)
	}

	if isAPIErr && c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("CarrierX endpoint %s was not found. Check api.endpoint or CARRIERX_API_ENDPOINT: %w: %w", c.endpoint, relayerrors.ErrAPIFailure, err)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to CarrierX API. Please check your internet connection and try again: %w: %w", relayerrors.ErrNetworkFailure, err)
	}

	if isAPIErr {
		return fmt.Errorf("%w: %w", relayerrors.ErrAPIFailure, apiErr)
	}

	return fmt.Errorf("failed to fetch records: %w", err)
}

// errorMessage extracts the human readable part of an API error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return strings.TrimSpace(string(body))
	}

	msg := payload.Message
	for _, e := range payload.Errors {
		if e.Field != "" {
			msg += fmt.Sprintf("; %s: %s", e.Field, e.Message)
		} else if e.Message != "" {
			msg += "; " + e.Message
		}
	}
	return msg
}
