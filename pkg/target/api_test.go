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

package target

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/endpoint"
	"github.com/walteh/catalogsync/pkg/remote"
)

func TestAPIWriterStatuses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantSuccess bool
		wantMessage string
	}{
		{name: "created", status: http.StatusCreated, wantSuccess: true},
		{name: "ok", status: http.StatusOK, wantSuccess: true},
		{name: "conflict", status: http.StatusConflict, body: `{"error":"exists"}`, wantSuccess: true, wantMessage: MessageAlreadyExists},
		{name: "bad_request", status: http.StatusBadRequest, body: `{"error":"invalid spec"}`, wantMessage: `400: {"error":"invalid spec"}`},
		{name: "server_error", status: http.StatusInternalServerError, body: "boom", wantMessage: "500: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotKey string
			var gotBody []byte
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotKey = r.Header.Get("X-API-KEY")
				gotBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			w := &APIWriter{
				Base:    endpoint.Parse(ts.URL),
				Project: "system-catalog",
				Client:  remote.New(remote.Options{APIKey: "target-key", HTTPClient: ts.Client()}),
			}

			cleaned := catalog.Object{"metadata": map[string]any{"name": "foo", "project": "system-catalog"}}
			out := w.Write(testContext(t), Task{Type: lookup(t, "configcontexts"), Name: "foo", Version: "v1", Cleaned: cleaned})

			assert.Equal(t, "/apis/eaas.envmgmt.io/v1/projects/system-catalog/configcontexts", gotPath)
			assert.Equal(t, "target-key", gotKey)
			assert.JSONEq(t, `{"metadata":{"name":"foo","project":"system-catalog"}}`, string(gotBody))

			assert.Equal(t, tt.wantSuccess, out.Success)
			assert.Equal(t, tt.wantMessage, out.Message)
			assert.Equal(t, tt.status, out.StatusCode)
			assert.False(t, out.Timeout)
		})
	}
}

func TestAPIWriterTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	w := &APIWriter{Base: endpoint.Parse(url), Project: "p", Client: remote.New(remote.Options{APIKey: "k"})}
	out := w.Write(testContext(t), Task{Type: lookup(t, "configcontexts"), Name: "foo", Cleaned: catalog.Object{}})

	assert.False(t, out.Success)
	assert.Equal(t, 0, out.StatusCode)
	assert.NotEmpty(t, out.Message, "transport errors should carry their text")
}

func TestAPIWriterTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	httpClient := ts.Client()
	httpClient.Timeout = 50 * time.Millisecond

	w := &APIWriter{Base: endpoint.Parse(ts.URL), Project: "p", Client: remote.New(remote.Options{APIKey: "k", HTTPClient: httpClient})}
	out := w.Write(testContext(t), Task{Type: lookup(t, "configcontexts"), Name: "foo", Cleaned: catalog.Object{}})

	assert.False(t, out.Success)
	assert.True(t, out.Timeout, "deadline expiry should be flagged")
	assert.Contains(t, out.Message, "timeout")
}
