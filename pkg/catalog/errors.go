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

import "gitlab.com/tozd/go/errors"

var (
	// ErrNotAnObject is returned when a JSON document is valid but is not an object.
	ErrNotAnObject = errors.Base("json document is not an object")

	// ErrUnknownType is returned when an object type selector matches nothing.
	ErrUnknownType = errors.Base("unknown object type")
)
