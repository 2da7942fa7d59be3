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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Expressions
// may read the process environment through the env object, e.g.
// target_project = env.TARGET_PROJECT.
type HCLParser struct {
	// Environ overrides os.Environ when set.
	Environ func() []string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

type hclType struct {
	Name      string `hcl:"name,label"`
	Namespace string `hcl:"namespace,optional"`
	Version   string `hcl:"version,optional"`
}

type hclConfig struct {
	SourceProject string    `hcl:"source_project,optional"`
	TargetProject string    `hcl:"target_project,optional"`
	Concurrency   int       `hcl:"concurrency,optional"`
	Timeout       string    `hcl:"timeout,optional"`
	Extension     string    `hcl:"extension,optional"`
	APIKeyHeader  string    `hcl:"api_key_header,optional"`
	VerifyTLS     bool      `hcl:"verify_tls,optional"`
	Include       []string  `hcl:"include,optional"`
	Exclude       []string  `hcl:"exclude,optional"`
	Types         []hclType `hcl:"type,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": p.env(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	f := &File{
		SourceProject: hclCfg.SourceProject,
		TargetProject: hclCfg.TargetProject,
		Concurrency:   hclCfg.Concurrency,
		Timeout:       hclCfg.Timeout,
		Extension:     hclCfg.Extension,
		APIKeyHeader:  hclCfg.APIKeyHeader,
		VerifyTLS:     hclCfg.VerifyTLS,
		Include:       hclCfg.Include,
		Exclude:       hclCfg.Exclude,
	}

	if len(hclCfg.Types) > 0 {
		f.Types = make(map[string]TypeOverride, len(hclCfg.Types))
		for _, t := range hclCfg.Types {
			if _, dup := f.Types[t.Name]; dup {
				return nil, errors.Errorf("decoding HCL: duplicate type block %q", t.Name)
			}
			f.Types[t.Name] = TypeOverride{Namespace: t.Namespace, Version: t.Version}
		}
	}

	return f, nil
}

// env exposes the environment as a cty object.
func (p *HCLParser) env() cty.Value {
	environ := os.Environ
	if p.Environ != nil {
		environ = p.Environ
	}

	vars := map[string]cty.Value{}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}
