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

// DefaultProject is the project every cleaned object is re-homed into.
const DefaultProject = "system-catalog"

var volatileMetadataFields = []string{
	"id",
	"modifiedAt",
	"createdAt",
	"projectID",
	"createdBy",
	"modifiedBy",
}

// 🧹 Clean returns a copy of obj with every environment specific field removed
// and metadata.project set to project. obj itself is never modified.
//
// Missing sections are skipped, and Clean(Clean(x)) == Clean(x).
func Clean(obj Object, project string) Object {
	cleaned := obj.DeepCopy()
	if cleaned == nil {
		cleaned = Object{}
	}

	meta := cleaned.Metadata()
	if meta == nil {
		meta = map[string]any{}
	}
	for _, field := range volatileMetadataFields {
		delete(meta, field)
	}
	meta["project"] = project
	cleaned["metadata"] = meta

	if spec := cleaned.Spec(); spec != nil {
		delete(spec, "sharing")
		delete(spec, "agents")
		stripHookAgents(spec)
	}

	delete(cleaned, "status")

	return cleaned
}

// stripHookAgents removes agents from every hook definition under spec.hooks.
func stripHookAgents(spec map[string]any) {
	hooks := mapField(spec, "hooks")
	for _, defs := range hooks {
		list, ok := defs.([]any)
		if !ok {
			continue
		}
		for _, def := range list {
			if hook, ok := def.(map[string]any); ok {
				delete(hook, "agents")
			}
		}
	}
}
