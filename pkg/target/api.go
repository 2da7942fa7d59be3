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
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/endpoint"
	"github.com/walteh/catalogsync/pkg/remote"
	"github.com/walteh/catalogsync/pkg/report"
)

// MessageAlreadyExists is the diagnostic of a 409 answer.
const MessageAlreadyExists = "already exists"

// 🔌 Creator is the part of the API client a writer needs.
type Creator interface {
	Create(ctx context.Context, collectionURL string, payload any) (*remote.Response, error)
}

// 🌐 APIWriter posts cleaned records to a catalog API.
type APIWriter struct {
	Base    endpoint.Endpoint
	Project string
	Client  Creator
}

// 📤 Write creates the cleaned record. 2xx and 409 are successes; anything
// else is a failure carrying the status code and body verbatim.
func (w *APIWriter) Write(ctx context.Context, task Task) report.Outcome {
	out := task.outcome()
	logger := zerolog.Ctx(ctx)

	logger.Debug().Str("type", task.Type.Segment).Str("name", task.Name).Interface("payload", task.Cleaned).Msg("posting object")

	resp, err := w.Client.Create(ctx, w.Base.CollectionURL(w.Project, task.Type), task.Cleaned)
	if err != nil {
		out.Timeout = remote.IsTimeout(err)
		out.Message = err.Error()
		if out.Timeout {
			out.Message = "timeout: " + out.Message
		}
		return out
	}

	out.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		out.Success = true
	case resp.StatusCode == http.StatusConflict:
		out.Success = true
		out.Message = MessageAlreadyExists
	default:
		out.Message = strconv.Itoa(resp.StatusCode) + ": " + string(resp.Body)
	}
	return out
}
