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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/endpoint"
	"github.com/walteh/catalogsync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// DefaultSuffixes are the recognized data-file suffixes.
var DefaultSuffixes = []string{".json", ".data"}

// 💾 DiskReader reads records from <root>/<segment>/*.
type DiskReader struct {
	Root     endpoint.Endpoint
	Suffixes []string // defaults to DefaultSuffixes
	Filter   Filter
}

// 📂 Read parses every data file directly under the type directory. Files
// that fail to parse are skipped with a warning.
func (r *DiskReader) Read(ctx context.Context, t catalog.ObjectType) (*Batch, error) {
	logger := zerolog.Ctx(ctx)
	dir := r.Root.TypeDir(t)
	batch := &Batch{Type: t}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.FromContext(ctx).Warningf("no %s directory at %s, nothing to replicate", t.Segment, dir)
			return batch, nil
		}
		return nil, &ListingError{Type: t.Segment, Err: errors.Errorf("reading directory %s: %w", dir, err)}
	}

	pattern := r.pattern()
	for _, entry := range entries {
		// subdirectories, endpoint.RawDir included, are never sources
		if entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, entry.Name()); !ok {
			logger.Debug().Str("file", entry.Name()).Msg("skipping non data file")
			continue
		}

		path := filepath.Join(dir, entry.Name())
		obj, err := readObjectFile(path)
		if err != nil {
			log.FromContext(ctx).Warningf("skipping malformed file %s: %v", path, err)
			continue
		}

		if !r.Filter.Match(obj.Name()) {
			logger.Debug().Str("name", obj.Name()).Msg("object filtered out")
			continue
		}

		batch.Items = append(batch.Items, Item{Object: obj, Versions: []catalog.Object{obj}})
	}

	logger.Debug().Str("type", t.Segment).Int("count", len(batch.Items)).Msg("read objects from disk")
	return batch, nil
}

// pattern builds a doublestar pattern such as *{.json,.data}.
func (r *DiskReader) pattern() string {
	suffixes := r.Suffixes
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	escaped := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		escaped = append(escaped, escapeMeta(s))
	}
	return "*{" + strings.Join(escaped, ",") + "}"
}

// escapeMeta quotes the characters doublestar treats as syntax, the comma
// included since suffixes sit inside a {..} alternation.
func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\,`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func readObjectFile(path string) (catalog.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return catalog.DecodeObject(data)
}
