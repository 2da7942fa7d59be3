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
	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Filter selects objects by name with doublestar glob patterns.
// An empty include list matches every name; exclude always wins.
type Filter struct {
	Include []string
	Exclude []string
}

// NewFilter validates every pattern up front.
func NewFilter(include, exclude []string) (Filter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return Filter{}, errors.Errorf("invalid name pattern %q", p)
		}
	}
	return Filter{Include: include, Exclude: exclude}, nil
}

// Match reports whether name passes the filter.
func (f Filter) Match(name string) bool {
	for _, p := range f.Exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, p := range f.Include {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
