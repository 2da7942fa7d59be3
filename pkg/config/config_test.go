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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/catalogsync/pkg/catalog"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "system-catalog", cfg.SourceProject)
	assert.Equal(t, "system-catalog", cfg.TargetProject)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, ".json", cfg.Extension)
	assert.Equal(t, "X-API-KEY", cfg.APIKeyHeader)
	assert.False(t, cfg.VerifyTLS, "certificates are not verified by default")
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml_full",
			file: "catalogsync.yaml",
			config: `
source_project: prod-catalog
target_project: staging-catalog
concurrency: 8
timeout: 1m
extension: .data
api_key_header: X-TOKEN
verify_tls: true
include: ["team-*"]
exclude: ["team-legacy"]
types:
  workflow-handler:
    version: v2
  computeprofiles:
    namespace: infra.envmgmt.io
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "prod-catalog", cfg.SourceProject)
				assert.Equal(t, "staging-catalog", cfg.TargetProject)
				assert.Equal(t, 8, cfg.Concurrency)
				assert.Equal(t, time.Minute, cfg.Timeout)
				assert.Equal(t, ".data", cfg.Extension)
				assert.Equal(t, "X-TOKEN", cfg.APIKeyHeader)
				assert.True(t, cfg.VerifyTLS)
				assert.Equal(t, []string{"team-*"}, cfg.Include)
				assert.Equal(t, []string{"team-legacy"}, cfg.Exclude)
				assert.Equal(t, TypeOverride{Version: "v2"}, cfg.Types["workflow-handler"])
				assert.Equal(t, TypeOverride{Namespace: "infra.envmgmt.io"}, cfg.Types["computeprofiles"])
			},
		},
		{
			name:   "yaml_minimal_keeps_defaults",
			file:   "catalogsync.yml",
			config: "target_project: other\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "system-catalog", cfg.SourceProject)
				assert.Equal(t, "other", cfg.TargetProject)
				assert.Equal(t, 5, cfg.Concurrency)
				assert.Equal(t, 30*time.Second, cfg.Timeout)
			},
		},
		{
			name:   "yaml_empty",
			file:   "catalogsync.yaml",
			config: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:        "yaml_unknown_field",
			file:        "catalogsync.yaml",
			config:      "projekt: typo\n",
			wantErr:     true,
			errContains: "projekt",
		},
		{
			name:   "json",
			file:   "catalogsync.json",
			config: `{"concurrency": 2, "timeout": "5s", "types": {"config-context": {"namespace": "x.io", "version": "v3"}}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2, cfg.Concurrency)
				assert.Equal(t, 5*time.Second, cfg.Timeout)
				assert.Equal(t, TypeOverride{Namespace: "x.io", Version: "v3"}, cfg.Types["config-context"])
			},
		},
		{
			name:        "json_unknown_field",
			file:        "catalogsync.json",
			config:      `{"concurrency": 2, "workers": 3}`,
			wantErr:     true,
			errContains: "workers",
		},
		{
			name: "hcl",
			file: "catalogsync.hcl",
			config: `
target_project = "staging-catalog"
verify_tls     = true
include        = ["a-*", "b-*"]

type "compute-profile" {
  namespace = "infra.envmgmt.io"
}

type "workflowhandlers" {
  version = "v2"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "staging-catalog", cfg.TargetProject)
				assert.True(t, cfg.VerifyTLS)
				assert.Equal(t, []string{"a-*", "b-*"}, cfg.Include)
				assert.Equal(t, TypeOverride{Namespace: "infra.envmgmt.io"}, cfg.Types["compute-profile"])
				assert.Equal(t, TypeOverride{Version: "v2"}, cfg.Types["workflowhandlers"])
			},
		},
		{
			name:        "hcl_syntax_error",
			file:        "catalogsync.hcl",
			config:      `target_project = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "hcl_duplicate_type",
			file:        "catalogsync.hcl",
			config:      "type \"compute-profile\" {}\ntype \"compute-profile\" {}\n",
			wantErr:     true,
			errContains: "duplicate type block",
		},
		{
			name:        "unknown_extension",
			file:        "catalogsync.toml",
			config:      `concurrency = 1`,
			wantErr:     true,
			errContains: "no parser found",
		},
		{
			name:        "bad_timeout",
			file:        "catalogsync.yaml",
			config:      "timeout: soon\n",
			wantErr:     true,
			errContains: "parsing timeout",
		},
		{
			name:        "negative_concurrency",
			file:        "catalogsync.yaml",
			config:      "concurrency: -1\n",
			wantErr:     true,
			errContains: "concurrency must be positive",
		},
		{
			name:        "unknown_type_override",
			file:        "catalogsync.yaml",
			config:      "types:\n  widgets:\n    version: v9\n",
			wantErr:     true,
			errContains: "widgets",
		},
		{
			name:        "bad_pattern",
			file:        "catalogsync.yaml",
			config:      "include: [\"[\"]\n",
			wantErr:     true,
			errContains: "pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.NewTestWriter(t))
			ctx := logger.WithContext(context.Background())

			cfg, err := Load(ctx, writeConfig(t, tt.file, tt.config))
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateUnknownTypeIsUnknownType(t *testing.T) {
	cfg := Default()
	cfg.Types["widgets"] = TypeOverride{Version: "v1"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownType)
}

func TestValidateExtension(t *testing.T) {
	for _, ext := range []string{"", "json", "."} {
		cfg := Default()
		cfg.Extension = ext
		assert.Error(t, cfg.Validate(), "extension %q should be rejected", ext)
	}
}

func TestRegistryOverrides(t *testing.T) {
	cfg := Default()
	cfg.Types["workflow-handler"] = TypeOverride{Version: "v2"}
	cfg.Types["serviceprofiles"] = TypeOverride{Namespace: "svc.io"}

	reg, err := cfg.Registry(catalog.DefaultRegistry())
	require.NoError(t, err)

	wh, ok := reg.Lookup("workflowhandlers")
	require.True(t, ok)
	assert.Equal(t, catalog.DefaultNamespace, wh.Namespace)
	assert.Equal(t, "v2", wh.APIVersion)

	sp, ok := reg.Lookup("service-profile")
	require.True(t, ok)
	assert.Equal(t, "svc.io", sp.Namespace)
	assert.Equal(t, catalog.DefaultAPIVersion, sp.APIVersion)

	cc, ok := reg.Lookup("configcontexts")
	require.True(t, ok)
	assert.Equal(t, catalog.DefaultNamespace, cc.Namespace, "untouched types keep defaults")

	cp, ok := reg.Lookup("computeprofiles")
	require.True(t, ok)
	assert.Equal(t, catalog.ProfileNamespace, cp.Namespace, "untouched profiles keep their own namespace")

	orig, _ := catalog.DefaultRegistry().Lookup("workflowhandlers")
	assert.Equal(t, catalog.DefaultAPIVersion, orig.APIVersion, "base registry should not change")
}

func TestApplyAppendsFilters(t *testing.T) {
	cfg := Default()
	cfg.Include = []string{"a"}
	require.NoError(t, cfg.Apply(&File{Include: []string{"b"}, Exclude: []string{"c"}}))
	assert.Equal(t, []string{"a", "b"}, cfg.Include)
	assert.Equal(t, []string{"c"}, cfg.Exclude)
	require.NoError(t, cfg.Apply(nil))
}

func TestClientOptions(t *testing.T) {
	cfg := Default()
	cfg.VerifyTLS = true
	cfg.Timeout = 3 * time.Second

	opts := cfg.ClientOptions("k", "run-1")
	assert.Equal(t, "k", opts.APIKey)
	assert.Equal(t, "X-API-KEY", opts.APIKeyHeader)
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.True(t, opts.VerifyTLS)
	assert.Equal(t, "run-1", opts.RunID)
}
