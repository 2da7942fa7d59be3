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
	"github.com/walteh/catalogsync/pkg/endpoint"
	"github.com/walteh/catalogsync/pkg/log"
	"github.com/walteh/catalogsync/pkg/remote"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds simultaneous version lookups.
const DefaultConcurrency = 5

// 🔌 Lister is the part of the API client a reader needs.
type Lister interface {
	List(ctx context.Context, collectionURL string) (*remote.Listing, error)
	ListVersions(ctx context.Context, versionsURL string) ([]json.RawMessage, error)
}

// 🌐 APIReader reads records from a catalog API.
type APIReader struct {
	Base        endpoint.Endpoint
	Project     string
	Client      Lister
	Concurrency int // defaults to DefaultConcurrency
	Filter      Filter
}

// 📂 Read lists the collection and, for versioned types, the history of every
// object. A listing failure aborts the whole type; a history failure falls
// back to the listed object.
func (r *APIReader) Read(ctx context.Context, t catalog.ObjectType) (*Batch, error) {
	logger := zerolog.Ctx(ctx)

	listing, err := r.Client.List(ctx, r.Base.CollectionURL(r.Project, t))
	if err != nil {
		return nil, &ListingError{Type: t.Segment, Err: err}
	}

	batch := &Batch{Type: t, RawPages: listing.Pages}

	var objs []catalog.Object
	for i, raw := range listing.Items {
		obj, err := catalog.DecodeObject(raw)
		if err != nil {
			log.FromContext(ctx).Warningf("skipping malformed %s item %d: %v", t.Segment, i, err)
			continue
		}
		if !r.Filter.Match(obj.Name()) {
			logger.Debug().Str("name", obj.Name()).Msg("object filtered out")
			continue
		}
		objs = append(objs, obj)
	}

	batch.Items = make([]Item, len(objs))
	if !t.Versioned {
		for i, obj := range objs {
			batch.Items[i] = Item{Object: obj, Versions: []catalog.Object{obj}}
		}
		return batch, nil
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, obj := range objs {
		g.Go(func() error {
			batch.Items[i] = Item{Object: obj, Versions: r.versions(ctx, t, obj)}
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug().Str("type", t.Segment).Int("count", len(batch.Items)).Msg("read objects from api")
	return batch, nil
}

// versions fetches the history of obj, degrading to obj itself on failure.
func (r *APIReader) versions(ctx context.Context, t catalog.ObjectType, obj catalog.Object) []catalog.Object {
	name := obj.Name()
	if name == "" {
		log.FromContext(ctx).Warningf("%s object without metadata.name, replicating it as a single version", t.Segment)
		return []catalog.Object{obj}
	}

	raw, err := r.Client.ListVersions(ctx, r.Base.VersionsURL(r.Project, t, name))
	if err != nil {
		log.FromContext(ctx).Warningf("failed to fetch versions for %s/%s, replicating current object only: %v", t.Segment, name, err)
		return []catalog.Object{obj}
	}

	versions, err := catalog.DecodeObjects(raw)
	if err != nil {
		log.FromContext(ctx).Warningf("malformed versions for %s/%s, replicating current object only: %v", t.Segment, name, err)
		return []catalog.Object{obj}
	}

	out := uniqueVersions(ctx, obj, versions)
	var names []string
	for _, v := range out {
		names = append(names, v.Version())
	}
	zerolog.Ctx(ctx).Debug().Str("type", t.Segment).Str("name", name).Strs("versions", names).Msg("fetched versions")
	return out
}
