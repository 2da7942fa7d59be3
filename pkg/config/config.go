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
	"maps"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/remote"
	"github.com/walteh/catalogsync/pkg/replicate"
	"github.com/walteh/catalogsync/pkg/source"
	"github.com/walteh/catalogsync/pkg/target"
	"gitlab.com/tozd/go/errors"
)

// 🔧 TypeOverride changes where a type lives on the API.
type TypeOverride struct {
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// 📚 Config is the effective configuration of a run.
type Config struct {
	SourceProject string
	TargetProject string
	Concurrency   int
	Timeout       time.Duration
	Extension     string
	APIKeyHeader  string
	VerifyTLS     bool
	Include       []string
	Exclude       []string
	Types         map[string]TypeOverride
}

// 📄 File is a settings file as decoded, before it is merged onto defaults.
// Zero values mean "not set".
type File struct {
	SourceProject string                  `json:"source_project,omitempty" yaml:"source_project,omitempty"`
	TargetProject string                  `json:"target_project,omitempty" yaml:"target_project,omitempty"`
	Concurrency   int                     `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Timeout       string                  `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Extension     string                  `json:"extension,omitempty" yaml:"extension,omitempty"`
	APIKeyHeader  string                  `json:"api_key_header,omitempty" yaml:"api_key_header,omitempty"`
	VerifyTLS     bool                    `json:"verify_tls,omitempty" yaml:"verify_tls,omitempty"`
	Include       []string                `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude       []string                `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Types         map[string]TypeOverride `json:"types,omitempty" yaml:"types,omitempty"`
}

// 🏭 Default returns the built in configuration.
func Default() *Config {
	return &Config{
		SourceProject: catalog.DefaultProject,
		TargetProject: catalog.DefaultProject,
		Concurrency:   replicate.DefaultConcurrency,
		Timeout:       remote.DefaultTimeout,
		Extension:     target.DefaultExtension,
		APIKeyHeader:  remote.DefaultAPIKeyHeader,
		Types:         map[string]TypeOverride{},
	}
}

// 🎯 Load reads a settings file, merges it onto Default and validates the
// result. The format is chosen by file extension.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	f, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg := Default()
	if err := cfg.Apply(f); err != nil {
		return nil, errors.Errorf("applying %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔄 Apply overlays every set field of f.
func (cfg *Config) Apply(f *File) error {
	if f == nil {
		return nil
	}
	if f.SourceProject != "" {
		cfg.SourceProject = f.SourceProject
	}
	if f.TargetProject != "" {
		cfg.TargetProject = f.TargetProject
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return errors.Errorf("parsing timeout %q: %w", f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.Extension != "" {
		cfg.Extension = f.Extension
	}
	if f.APIKeyHeader != "" {
		cfg.APIKeyHeader = f.APIKeyHeader
	}
	if f.VerifyTLS {
		cfg.VerifyTLS = true
	}
	cfg.Include = append(cfg.Include, f.Include...)
	cfg.Exclude = append(cfg.Exclude, f.Exclude...)
	if cfg.Types == nil {
		cfg.Types = map[string]TypeOverride{}
	}
	for name, o := range f.Types {
		cfg.Types[name] = o
	}
	return nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Concurrency <= 0 {
		return errors.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}
	if cfg.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.SourceProject == "" || cfg.TargetProject == "" {
		return errors.Errorf("source and target projects are required")
	}
	if len(cfg.Extension) < 2 || cfg.Extension[0] != '.' {
		return errors.Errorf("extension must start with a dot, got %q", cfg.Extension)
	}
	if _, err := source.NewFilter(cfg.Include, cfg.Exclude); err != nil {
		return err
	}
	if _, err := cfg.Registry(catalog.DefaultRegistry()); err != nil {
		return err
	}
	return nil
}

// 🗺️ Registry applies the type overrides to base.
func (cfg *Config) Registry(base *catalog.Registry) (*catalog.Registry, error) {
	reg := base
	for _, name := range slices.Sorted(maps.Keys(cfg.Types)) {
		o := cfg.Types[name]
		next, err := reg.WithOverride(name, o.Namespace, o.Version)
		if err != nil {
			return nil, errors.Errorf("type override: %w", err)
		}
		reg = next
	}
	return reg, nil
}

// 🔍 Filter builds the name filter of the run.
func (cfg *Config) Filter() (source.Filter, error) {
	return source.NewFilter(cfg.Include, cfg.Exclude)
}

// 🌐 ClientOptions returns the HTTP client settings for one endpoint.
func (cfg *Config) ClientOptions(apiKey, runID string) remote.Options {
	return remote.Options{
		RunID:        runID,
		APIKey:       apiKey,
		APIKeyHeader: cfg.APIKeyHeader,
		Timeout:      cfg.Timeout,
		VerifyTLS:    cfg.VerifyTLS,
	}
}
