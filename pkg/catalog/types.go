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
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultNamespace is the API group every catalog collection lives under.
	DefaultNamespace = "eaas.envmgmt.io"
	// ProfileNamespace is the API group of compute and service profiles.
	ProfileNamespace = "paas.envmgmt.io"
	// DefaultAPIVersion is the API version used to build collection URLs.
	DefaultAPIVersion = "v1"
)

// 📦 ObjectType describes one replicable catalog collection.
type ObjectType struct {
	Name       string // kebab-case selector, e.g. workflow-handler
	Segment    string // collection path segment, e.g. workflowhandlers
	Namespace  string // API group, e.g. eaas.envmgmt.io
	APIVersion string // API version, e.g. v1
	Versioned  bool   // whether a /versions sub-resource exists
}

func (t ObjectType) String() string {
	return t.Segment
}

// DefaultTypes returns the built in object type table in replication order.
func DefaultTypes() []ObjectType {
	versioned := func(name, segment string) ObjectType {
		return ObjectType{Name: name, Segment: segment, Namespace: DefaultNamespace, APIVersion: DefaultAPIVersion, Versioned: true}
	}
	profile := func(name, segment string) ObjectType {
		t := versioned(name, segment)
		t.Namespace = ProfileNamespace
		t.Versioned = false
		return t
	}

	return []ObjectType{
		versioned("workflow-handler", "workflowhandlers"),
		versioned("config-context", "configcontexts"),
		versioned("resource-template", "resourcetemplates"),
		versioned("environment-template", "environmenttemplates"),
		profile("compute-profile", "computeprofiles"),
		profile("service-profile", "serviceprofiles"),
	}
}

// 🗺️ Registry is an immutable, ordered set of object types.
type Registry struct {
	types []ObjectType
}

// NewRegistry builds a registry, rejecting duplicate names or segments.
func NewRegistry(types []ObjectType) (*Registry, error) {
	seen := map[string]bool{}
	for _, t := range types {
		if t.Name == "" || t.Segment == "" {
			return nil, errors.Errorf("object type %q: name and segment are required", t.Name)
		}
		for _, key := range []string{t.Name, t.Segment} {
			if seen[key] {
				return nil, errors.Errorf("duplicate object type %q", key)
			}
			seen[key] = true
		}
	}

	out := make([]ObjectType, len(types))
	copy(out, types)
	return &Registry{types: out}, nil
}

// DefaultRegistry returns a registry holding DefaultTypes.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultTypes())
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of every type in replication order.
func (r *Registry) All() []ObjectType {
	out := make([]ObjectType, len(r.types))
	copy(out, r.types)
	return out
}

// Lookup finds a type by its kebab-case name or its collection segment.
func (r *Registry) Lookup(selector string) (ObjectType, bool) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	for _, t := range r.types {
		if t.Name == selector || t.Segment == selector {
			return t, true
		}
	}
	return ObjectType{}, false
}

// Resolve maps selectors to types, keeping registry order and dropping
// duplicates. An empty selector list resolves to nothing.
func (r *Registry) Resolve(selectors []string) ([]ObjectType, error) {
	wanted := map[string]bool{}
	var unknown []string
	for _, s := range selectors {
		t, ok := r.Lookup(s)
		if !ok {
			unknown = append(unknown, s)
			continue
		}
		wanted[t.Segment] = true
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.Errorf("%w: %s (options: %s)", ErrUnknownType, strings.Join(unknown, ", "), strings.Join(r.Names(), ", "))
	}

	var out []ObjectType
	for _, t := range r.types {
		if wanted[t.Segment] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Names returns the kebab-case names of every type.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for _, t := range r.types {
		names = append(names, t.Name)
	}
	return names
}

// WithOverride returns a new registry where the named type uses the given
// namespace and API version. Empty values keep the current setting.
func (r *Registry) WithOverride(selector, namespace, apiVersion string) (*Registry, error) {
	t, ok := r.Lookup(selector)
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrUnknownType, selector)
	}

	out := r.All()
	for i := range out {
		if out[i].Segment != t.Segment {
			continue
		}
		if namespace != "" {
			out[i].Namespace = namespace
		}
		if apiVersion != "" {
			out[i].APIVersion = apiVersion
		}
	}
	return &Registry{types: out}, nil
}
