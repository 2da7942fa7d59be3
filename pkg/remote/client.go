// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// PageSize is the fixed page size of every list request.
	PageSize = 100
	// DefaultAPIKeyHeader carries the static API key.
	DefaultAPIKeyHeader = "X-API-KEY"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
	// RunIDHeader carries the id of the replication run on every request.
	RunIDHeader = "X-Request-ID"

	maxPages = 1000
)

// Options configures a Client.
type Options struct {
	APIKey       string
	APIKeyHeader string        // defaults to DefaultAPIKeyHeader
	Timeout      time.Duration // defaults to DefaultTimeout
	VerifyTLS    bool          // certificate validation is off unless set
	HTTPClient   *http.Client  // overrides the transport, mainly for tests
	RunID        string        // sent as RunIDHeader when set
}

// 🌐 Client talks to one catalog API with a static API key.
type Client struct {
	apiKey     string
	header     string
	runID      string
	httpClient *http.Client
}

// 🏭 New creates a Client from opts.
func New(opts Options) *Client {
	header := opts.APIKeyHeader
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if !opts.VerifyTLS {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // the catalog APIs use self signed certificates
		}
		httpClient = &http.Client{Transport: transport, Timeout: timeout}
	}

	return &Client{
		apiKey:     opts.APIKey,
		header:     header,
		runID:      opts.RunID,
		httpClient: httpClient,
	}
}

// 🚨 StatusError is returned when the API answers with a non-success status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return e.Method + " " + e.URL + ": HTTP " + strconv.Itoa(e.StatusCode) + ": " + e.Body
}

// Response is the raw outcome of a create call.
type Response struct {
	StatusCode int
	Body       []byte
}

// envelope is the list response wrapper of the catalog API.
type envelope struct {
	Metadata struct {
		Count *int `json:"count"`
	} `json:"metadata"`
	Items []json.RawMessage `json:"items"`
}

// 📋 Listing is the complete result of a paginated list call.
type Listing struct {
	Items []json.RawMessage // every item across all pages, newest first
	Pages []json.RawMessage // response bodies exactly as received
}

// 📂 List fetches every item of a collection, newest first, 100 per page.
// Any failed page fails the whole listing.
func (c *Client) List(ctx context.Context, collectionURL string) (*Listing, error) {
	listing := &Listing{}

	for offset, page := 0, 0; ; page++ {
		if page >= maxPages {
			return nil, errors.Errorf("listing %s: more than %d pages", collectionURL, maxPages)
		}

		q := url.Values{}
		q.Set("limit", strconv.Itoa(PageSize))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("order", "DESC")
		q.Set("orderBy", "createdAt")

		body, err := c.get(ctx, collectionURL+"?"+q.Encode())
		if err != nil {
			return nil, err
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, errors.Errorf("parsing listing of %s: %w", collectionURL, err)
		}

		listing.Pages = append(listing.Pages, json.RawMessage(body))
		listing.Items = append(listing.Items, env.Items...)
		offset += len(env.Items)

		if len(env.Items) < PageSize {
			break
		}
		if env.Metadata.Count != nil && offset >= *env.Metadata.Count {
			break
		}
	}

	return listing, nil
}

// 🕰️ ListVersions fetches the version history of one object.
func (c *Client) ListVersions(ctx context.Context, versionsURL string) ([]json.RawMessage, error) {
	body, err := c.get(ctx, versionsURL)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Errorf("parsing versions of %s: %w", versionsURL, err)
	}
	return env.Items, nil
}

// 📤 Create posts payload to a collection. A non-success status is not an
// error here; callers decide what each status means. Only transport and
// encoding problems are returned as errors.
func (c *Client) Create(ctx context.Context, collectionURL string, payload any) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Errorf("marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, collectionURL, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     req.Method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}

func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	req.Header.Set("accept", "application/json")
	req.Header.Set(c.header, c.apiKey)
	if c.runID != "" {
		req.Header.Set(RunIDHeader, c.runID)
	}

	logger := zerolog.Ctx(req.Context())
	logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.Errorf("%s %s: %w", req.Method, req.URL.String(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Errorf("reading response: %w", err)
	}

	logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("received response")

	return resp, body, nil
}

// IsTimeout reports whether err was caused by a request deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
