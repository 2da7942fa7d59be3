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

	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/report"
)

// 📦 Task is one object version ready to be persisted.
type Task struct {
	Type    catalog.ObjectType
	Name    string
	Version string
	Cleaned catalog.Object
	Raw     catalog.Object // optional; only directory targets store it
}

// outcome starts an outcome for the task.
func (t Task) outcome() report.Outcome {
	return report.Outcome{Type: t.Type.Segment, Name: t.Name, Version: t.Version}
}

// 🔌 Writer persists one task and reports how it went. Writers never return
// errors; every failure is carried in the outcome.
type Writer interface {
	Write(ctx context.Context, task Task) report.Outcome
}

// 🔌 ListingWriter is implemented by writers that keep the raw listing of a
// type for auditing.
type ListingWriter interface {
	WriteListing(ctx context.Context, t catalog.ObjectType, pages []json.RawMessage) error
}
