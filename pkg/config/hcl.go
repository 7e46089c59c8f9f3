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

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// evalContext exposes the built-in defaults as variables,
// so a file can write exclude = default_exclude.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_root":       cty.StringVal(DefaultRoot),
			"default_extensions": stringList(DefaultExtensions),
			"default_exclude":    stringList(DefaultExclude),
		},
	}
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rewriterc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Path         string   `hcl:"path,optional"`
		Extensions   []string `hcl:"extensions,optional"`
		Exclude      []string `hcl:"exclude,optional"`
		ExcludeGlobs []string `hcl:"exclude_globs,optional"`
		Preset       string   `hcl:"preset,optional"`
		Rules        []struct {
			Token       string            `hcl:"token,optional"`
			Pattern     string            `hcl:"pattern,optional"`
			Replace     string            `hcl:"replace,optional"`
			Lookup      map[string]string `hcl:"lookup,optional"`
			Description string            `hcl:"description,optional"`
		} `hcl:"rule,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	f := &File{
		Path:         hclCfg.Path,
		Extensions:   hclCfg.Extensions,
		Exclude:      hclCfg.Exclude,
		ExcludeGlobs: hclCfg.ExcludeGlobs,
		Preset:       hclCfg.Preset,
	}
	for _, r := range hclCfg.Rules {
		f.Rules = append(f.Rules, RuleSpec{
			Token:       r.Token,
			Pattern:     r.Pattern,
			Replace:     r.Replace,
			Lookup:      r.Lookup,
			Description: r.Description,
		})
	}

	return f, nil
}
