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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func newTestClient(ts *httptest.Server) *Client {
	return New(Options{APIKey: "secret", HTTPClient: ts.Client()})
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func items(from, to int) []map[string]any {
	var out []map[string]any
	for i := from; i < to; i++ {
		out = append(out, map[string]any{"metadata": map[string]any{"name": fmt.Sprintf("obj-%d", i)}})
	}
	return out
}

func TestListSinglePage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"), "api key header should be set")
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "DESC", r.URL.Query().Get("order"))
		assert.Equal(t, "createdAt", r.URL.Query().Get("orderBy"))
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items(0, 2)})
	}))
	defer ts.Close()

	listing, err := newTestClient(ts).List(testContext(t), ts.URL+"/things")
	require.NoError(t, err)
	assert.Len(t, listing.Items, 2)
	require.Len(t, listing.Pages, 1)
	assert.Contains(t, string(listing.Pages[0]), "obj-1", "raw page should be kept verbatim")
}

func TestListPaginates(t *testing.T) {
	const total = 230
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := offset + PageSize
		if end > total {
			end = total
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"metadata": map[string]any{"count": total},
			"items":    items(offset, end),
		})
	}))
	defer ts.Close()

	listing, err := newTestClient(ts).List(testContext(t), ts.URL+"/things")
	require.NoError(t, err)
	assert.Len(t, listing.Items, total)
	assert.Len(t, listing.Pages, 3)
	assert.Equal(t, 3, calls)
}

func TestListStopsAtCount(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"metadata": map[string]any{"count": PageSize},
			"items":    items(0, PageSize),
		})
	}))
	defer ts.Close()

	listing, err := newTestClient(ts).List(testContext(t), ts.URL+"/things")
	require.NoError(t, err)
	assert.Len(t, listing.Items, PageSize)
	assert.Equal(t, 1, calls, "a full page matching count should end the listing")
}

func TestListErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"bad key"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).List(testContext(t), ts.URL+"/things")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "error should be a StatusError")
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "bad key")
}

func TestListInvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts).List(testContext(t), ts.URL+"/things")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing listing")
}

func TestListVersions(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things/a/versions", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"spec":{"version":"v1"}},{"spec":{"version":"v2"}}]}`))
	}))
	defer ts.Close()

	versions, err := newTestClient(ts).ListVersions(testContext(t), ts.URL+"/things/a/versions")
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestCreate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"metadata":{"name":"a"}}`, string(body))
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`exists`))
	}))
	defer ts.Close()

	resp, err := newTestClient(ts).Create(testContext(t), ts.URL+"/things", map[string]any{"metadata": map[string]any{"name": "a"}})
	require.NoError(t, err, "non-success statuses are not transport errors")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "exists", string(resp.Body))
}

func TestCustomHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer ts.Close()

	c := New(Options{APIKey: "k", APIKeyHeader: "Authorization", HTTPClient: ts.Client()})
	_, err := c.List(testContext(t), ts.URL)
	require.NoError(t, err)
}

func TestRunIDHeader(t *testing.T) {
	var got []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(RunIDHeader))
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer ts.Close()

	_, err := New(Options{APIKey: "k", RunID: "run-1", HTTPClient: ts.Client()}).List(testContext(t), ts.URL)
	require.NoError(t, err)
	_, err = New(Options{APIKey: "k", HTTPClient: ts.Client()}).List(testContext(t), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{"run-1", ""}, got, "header is only sent when a run id is set")
}

func TestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	httpClient := ts.Client()
	httpClient.Timeout = 50 * time.Millisecond
	c := New(Options{APIKey: "k", HTTPClient: httpClient})

	_, err := c.Create(testContext(t), ts.URL, map[string]any{})
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "client timeout should be detected: %v", err)

	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(errors.New("boom")))
}
