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

package endpoint

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/walteh/catalogsync/pkg/catalog"
)

// RawDir is the reserved subdirectory of a type directory that holds
// unmodified records. It is never read as a source.
const RawDir = "raw"

// Kind tells whether an endpoint is a directory tree or a REST API.
type Kind int

const (
	KindDirectory Kind = iota
	KindURL
)

func (k Kind) String() string {
	if k == KindURL {
		return "url"
	}
	return "directory"
}

// 🎯 Endpoint is a replication source or target.
type Endpoint struct {
	Kind Kind
	Raw  string
}

// Parse classifies s. An endpoint is a URL iff it starts with an http or
// https scheme; everything else is a directory path.
func Parse(s string) Endpoint {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Endpoint{Kind: KindURL, Raw: strings.TrimRight(s, "/")}
	}
	return Endpoint{Kind: KindDirectory, Raw: filepath.Clean(s)}
}

// IsURL reports whether the endpoint is a REST API.
func (e Endpoint) IsURL() bool {
	return e.Kind == KindURL
}

func (e Endpoint) String() string {
	return e.Raw
}

// CollectionURL builds <base>/apis/<namespace>/<version>/projects/<project>/<segment>.
func (e Endpoint) CollectionURL(project string, t catalog.ObjectType) string {
	return e.Raw + "/" + strings.Join([]string{
		"apis",
		t.Namespace,
		t.APIVersion,
		"projects",
		url.PathEscape(project),
		t.Segment,
	}, "/")
}

// VersionsURL builds the version history URL of one named object.
func (e Endpoint) VersionsURL(project string, t catalog.ObjectType, name string) string {
	return e.CollectionURL(project, t) + "/" + url.PathEscape(name) + "/versions"
}

// TypeDir returns the directory that holds one object type.
func (e Endpoint) TypeDir(t catalog.ObjectType) string {
	return filepath.Join(e.Raw, t.Segment)
}
