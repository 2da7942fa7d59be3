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

package catalog

import (
	"bytes"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// 📄 Object is one catalog record as it travels between endpoints.
//
// Only metadata, spec and status are ever inspected; every other key is carried
// through untouched. Numbers are decoded as json.Number so re-encoding never
// changes their textual form.
type Object map[string]any

// 🔍 DecodeObject parses a single JSON document into an Object.
func DecodeObject(data []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Errorf("decoding object: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Errorf("decoding object: %w", ErrNotAnObject)
	}

	return Object(obj), nil
}

// 🔍 DecodeObjects converts a list of raw JSON items into Objects.
func DecodeObjects(items []json.RawMessage) ([]Object, error) {
	objs := make([]Object, 0, len(items))
	for i, item := range items {
		obj, err := DecodeObject(item)
		if err != nil {
			return nil, errors.Errorf("item %d: %w", i, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// Metadata returns the metadata section, or nil when absent or malformed.
func (o Object) Metadata() map[string]any {
	return mapField(o, "metadata")
}

// Spec returns the spec section, or nil when absent or malformed.
func (o Object) Spec() map[string]any {
	return mapField(o, "spec")
}

// Name returns metadata.name, or "" when unset.
func (o Object) Name() string {
	return stringField(o.Metadata(), "name")
}

// Version returns spec.version, or "" for unversioned records.
func (o Object) Version() string {
	switch v := o.Spec()["version"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// MarshalIndent encodes the object the way it is persisted on disk.
func (o Object) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any(o), "", "  ")
	if err != nil {
		return nil, errors.Errorf("encoding object: %w", err)
	}
	return append(data, '\n'), nil
}

// DeepCopy returns a copy sharing no maps or slices with o.
func (o Object) DeepCopy() Object {
	if o == nil {
		return nil
	}
	return Object(copyValue(map[string]any(o)).(map[string]any))
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	default:
		return v
	}
}

// mapField safely extracts a nested object, returning nil if missing.
func mapField(obj map[string]any, field string) map[string]any {
	if v, ok := obj[field].(map[string]any); ok {
		return v
	}
	return nil
}

// stringField safely extracts a string field, returning "" if missing.
func stringField(obj map[string]any, field string) string {
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}
