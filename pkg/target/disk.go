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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/endpoint"
	"github.com/walteh/catalogsync/pkg/report"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultExtension is appended to every written record. Records are
	// written as .json rather than .data; the extension config key changes it.
	DefaultExtension = ".json"
	// RawListingFile holds the verbatim listing pages of a type.
	RawListingFile = "raw-dump-get.json"
)

// ErrUnsafeName is returned when an object name or version cannot be used as
// a single path element.
var ErrUnsafeName = errors.Base("unsafe file name")

// 💾 DiskWriter writes records under <root>/<segment>/.
type DiskWriter struct {
	Root      endpoint.Endpoint
	Extension string // defaults to DefaultExtension
}

// FileName returns <name>[-<version>]<ext>.
func (w *DiskWriter) FileName(name, version string) string {
	ext := w.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if version != "" {
		name += "-" + version
	}
	return name + ext
}

// 📝 Write stores the cleaned record and, when present, the raw record.
// Records whose name or version would leave the type directory are refused.
func (w *DiskWriter) Write(ctx context.Context, task Task) report.Outcome {
	out := task.outcome()
	if err := checkFileName(task.Name, task.Version); err != nil {
		out.Message = err.Error()
		return out
	}

	dir := w.Root.TypeDir(task.Type)
	file := w.FileName(task.Name, task.Version)

	if task.Raw != nil {
		if err := writeObject(filepath.Join(dir, endpoint.RawDir, file), task.Raw); err != nil {
			out.Message = err.Error()
			return out
		}
	}

	path := filepath.Join(dir, file)
	if err := writeObject(path, task.Cleaned); err != nil {
		out.Message = err.Error()
		return out
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("wrote object")
	out.Success = true
	return out
}

// 📝 WriteListing dumps the raw listing pages to raw/raw-dump-get.json.
func (w *DiskWriter) WriteListing(ctx context.Context, t catalog.ObjectType, pages []json.RawMessage) error {
	if pages == nil {
		pages = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return errors.Errorf("encoding raw listing: %w", err)
	}

	path := filepath.Join(w.Root.TypeDir(t), endpoint.RawDir, RawListingFile)
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return errors.Errorf("writing raw listing: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("pages", len(pages)).Msg("wrote raw listing")
	return nil
}

// checkFileName rejects names and versions that are not one plain path
// element. An empty version is allowed and means no suffix.
func checkFileName(name, version string) error {
	if err := checkPathElement(name); err != nil {
		return errors.Errorf("name %q: %w", name, err)
	}
	if version == "" {
		return nil
	}
	if err := checkPathElement(version); err != nil {
		return errors.Errorf("version %q: %w", version, err)
	}
	return nil
}

func checkPathElement(s string) error {
	switch {
	case s == "":
		return errors.Errorf("%w: empty", ErrUnsafeName)
	case s == "." || s == "..":
		return errors.Errorf("%w: relative path element", ErrUnsafeName)
	case strings.ContainsAny(s, `/\`+"\x00"), strings.ContainsRune(s, filepath.Separator):
		return errors.Errorf("%w: contains a path separator", ErrUnsafeName)
	}
	return nil
}

func writeObject(path string, obj catalog.Object) error {
	data, err := obj.MarshalIndent()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes through a temp file in the same directory so a
// crash never leaves a half written record behind.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Errorf("setting mode of %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
