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

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: "catalogsync.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: "catalogsync.yml", want: &YAMLParser{}},
		{name: "upper_case", filename: "CATALOGSYNC.YAML", want: &YAMLParser{}},
		{name: "json_file", filename: "/etc/catalogsync/settings.json", want: &JSONParser{}},
		{name: "hcl_file", filename: "catalogsync.hcl", want: &HCLParser{}},
		{name: "no_extension", filename: "catalogsync", want: nil},
		{name: "unknown_extension", filename: "catalogsync.toml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()
	parsers = nil

	assert.Nil(t, GetParser("catalogsync.yaml"))
	Register(&YAMLParser{})
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.NotNil(t, GetParser("catalogsync.yaml"))
}

func TestHCLEnvironment(t *testing.T) {
	p := &HCLParser{Environ: func() []string {
		return []string{"TARGET_PROJECT=from-env", "BROKEN", "=skip"}
	}}

	f, err := p.Parse(context.Background(), []byte(`target_project = env.TARGET_PROJECT`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", f.TargetProject)

	_, err = p.Parse(context.Background(), []byte(`target_project = env.NOT_SET`))
	require.Error(t, err, "unknown env attributes should fail")
}
