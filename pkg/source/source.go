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

package source

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

// 📦 Item is one listed object together with every version to replicate.
type Item struct {
	Object   catalog.Object
	Versions []catalog.Object // never empty
}

// 📋 Batch is everything read for one object type.
type Batch struct {
	Type     catalog.ObjectType
	Items    []Item
	RawPages []json.RawMessage // listing bodies as received; nil for directories
}

// 🔌 Reader produces the objects of one type from an endpoint.
type Reader interface {
	Read(ctx context.Context, t catalog.ObjectType) (*Batch, error)
}

// ErrListing marks a failure to enumerate a type; it aborts that type only.
var ErrListing = errors.Base("listing failed")

// 🚨 ListingError is returned when the object list of a type cannot be read.
type ListingError struct {
	Type string
	Err  error
}

func (e *ListingError) Error() string {
	return "listing " + e.Type + ": " + e.Err.Error()
}

func (e *ListingError) Unwrap() []error {
	return []error{ErrListing, e.Err}
}

// uniqueVersions drops versions whose spec.version was already seen. An
// empty input falls back to the object itself.
func uniqueVersions(ctx context.Context, obj catalog.Object, versions []catalog.Object) []catalog.Object {
	if len(versions) == 0 {
		return []catalog.Object{obj}
	}

	seen := map[string]bool{}
	out := make([]catalog.Object, 0, len(versions))
	for _, v := range versions {
		key := v.Version()
		if seen[key] {
			zerolog.Ctx(ctx).Debug().
				Str("name", obj.Name()).
				Str("version", key).
				Msg("dropping repeated version")
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
