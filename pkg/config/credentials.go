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

package config

import (
	"os"
	"strings"

	"github.com/walteh/catalogsync/pkg/endpoint"
	"gitlab.com/tozd/go/errors"
)

const (
	SourceAPIKeyEnv = "SOURCE_API_KEY"
	TargetAPIKeyEnv = "TARGET_API_KEY"
)

// ErrMissingCredentials is returned when a URL endpoint has no API key.
var ErrMissingCredentials = errors.Base("missing credentials")

// 🔑 APIKeys holds the API keys of both endpoints. A key is empty when its
// endpoint is a directory.
type APIKeys struct {
	Source string
	Target string
}

// 🔑 Credentials reads the API keys for the URL endpoints among src and dst.
// getenv defaults to os.Getenv.
func Credentials(src, dst endpoint.Endpoint, getenv func(string) string) (APIKeys, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	var keys APIKeys
	var missing []string

	if src.IsURL() {
		keys.Source = strings.TrimSpace(getenv(SourceAPIKeyEnv))
		if keys.Source == "" {
			missing = append(missing, SourceAPIKeyEnv)
		}
	}
	if dst.IsURL() {
		keys.Target = strings.TrimSpace(getenv(TargetAPIKeyEnv))
		if keys.Target == "" {
			missing = append(missing, TargetAPIKeyEnv)
		}
	}

	if len(missing) > 0 {
		return APIKeys{}, errors.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return keys, nil
}
