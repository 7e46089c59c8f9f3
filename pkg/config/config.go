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
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🔀 Mode selects between planning and writing changes
type Mode int

const (
	ModePreview Mode = iota // report changes, never write
	ModeCommit              // write changed files in place
)

// String returns a string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeCommit:
		return "commit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Defaults used when neither a config file nor a flag sets a value
var (
	DefaultRoot       = "frontend/src"
	DefaultExtensions = []string{".jsx", ".tsx", ".js", ".ts"}
	DefaultExclude    = []string{"node_modules", "dist"}
)

// 📚 RunConfig is the configuration of a single run.
// It is passed by value; use Clone before sharing the slices.
type RunConfig struct {
	Root         string
	Mode         Mode
	Extensions   []string
	Exclude      []string // path component substrings
	ExcludeGlobs []string // doublestar patterns relative to Root
	Parallelism  int      // <= 1 processes files sequentially
	ShowDiff     bool
}

// 🏭 Default returns the default run configuration
func Default() RunConfig {
	return RunConfig{
		Root:       DefaultRoot,
		Mode:       ModePreview,
		Extensions: slices.Clone(DefaultExtensions),
		Exclude:    slices.Clone(DefaultExclude),
	}
}

// Clone returns a deep copy
func (c RunConfig) Clone() RunConfig {
	c.Extensions = slices.Clone(c.Extensions)
	c.Exclude = slices.Clone(c.Exclude)
	c.ExcludeGlobs = slices.Clone(c.ExcludeGlobs)
	return c
}

// 🔍 Validate checks if the run configuration is usable
func (c RunConfig) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.Errorf("root path is required")
	}
	if c.Mode != ModePreview && c.Mode != ModeCommit {
		return errors.Errorf("unknown mode %d", int(c.Mode))
	}
	if c.Parallelism < 0 {
		return errors.Errorf("parallelism must not be negative")
	}
	return nil
}

// 📝 String returns a string representation of the run configuration
func (c RunConfig) String() string {
	return fmt.Sprintf("%s %s [%s]", c.Mode, c.Root, strings.Join(c.Extensions, " "))
}

// 🔄 RuleSpec is a rule as written in a config file.
//
// Exactly one of Token or Pattern selects the text; Token matches a literal
// as a whole token, Pattern is a regular expression. Lookup alone matches any
// of its keys as tokens. Replace and Lookup are mutually exclusive.
type RuleSpec struct {
	Token       string            `json:"token,omitempty" yaml:"token,omitempty"`
	Pattern     string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Replace     string            `json:"replace,omitempty" yaml:"replace,omitempty"`
	Lookup      map[string]string `json:"lookup,omitempty" yaml:"lookup,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// Build compiles the spec into a rule
func (s RuleSpec) Build() (rule.Rule, error) {
	if s.Token != "" && s.Pattern != "" {
		return rule.Rule{}, errors.Errorf("token and pattern are mutually exclusive")
	}
	if len(s.Lookup) > 0 && s.Replace != "" {
		return rule.Rule{}, errors.Errorf("replace and lookup are mutually exclusive")
	}

	pattern := s.Pattern
	if s.Token != "" {
		pattern = rule.Token(s.Token)
	}

	if len(s.Lookup) > 0 {
		if pattern == "" {
			keys := make([]string, 0, len(s.Lookup))
			for k := range s.Lookup {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			pattern = rule.TokenAny(keys...)
		}
		return rule.New(pattern, rule.Lookup{Table: s.Lookup}, s.describe())
	}

	if pattern == "" {
		return rule.Rule{}, errors.Errorf("one of token, pattern or lookup is required")
	}
	return rule.New(pattern, rule.Literal{Text: s.Replace}, s.describe())
}

func (s RuleSpec) describe() string {
	if s.Description != "" {
		return s.Description
	}
	switch {
	case s.Token != "":
		return fmt.Sprintf("%s → %s", s.Token, s.Replace)
	case s.Pattern != "" && len(s.Lookup) == 0:
		return fmt.Sprintf("/%s/ → %s", s.Pattern, s.Replace)
	default:
		return fmt.Sprintf("lookup (%d entries)", len(s.Lookup))
	}
}

// 📦 File is the content of a rewriterc config file
type File struct {
	Path         string     `json:"path,omitempty" yaml:"path,omitempty"`
	Extensions   []string   `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Exclude      []string   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	ExcludeGlobs []string   `json:"exclude_globs,omitempty" yaml:"exclude_globs,omitempty"`
	Preset       string     `json:"preset,omitempty" yaml:"preset,omitempty"`
	Rules        []RuleSpec `json:"rules,omitempty" yaml:"rules,omitempty"`

	location string
}

// Location returns the path the file was loaded from
func (f *File) Location() string { return f.location }

// 🔍 Validate checks that every rule compiles and the preset is known
func (f *File) Validate() error {
	if _, err := presetRules(f.Preset); err != nil {
		return err
	}
	for i, r := range f.Rules {
		if _, err := r.Build(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// 🔧 Apply overlays the values set in the file onto c.
// A relative path is resolved against the directory of the config file.
func (f *File) Apply(c RunConfig) RunConfig {
	c = c.Clone()
	if f.Path != "" {
		c.Root = f.Path
		if f.location != "" && !filepath.IsAbs(f.Path) {
			c.Root = filepath.Join(filepath.Dir(f.location), f.Path)
		}
	}
	if len(f.Extensions) > 0 {
		c.Extensions = slices.Clone(f.Extensions)
	}
	if len(f.Exclude) > 0 {
		c.Exclude = slices.Clone(f.Exclude)
	}
	if len(f.ExcludeGlobs) > 0 {
		c.ExcludeGlobs = slices.Clone(f.ExcludeGlobs)
	}
	return c
}

// 📚 RuleSet builds the rule set described by the file: preset rules first,
// then the file's own rules in order. With neither, the theme preset is used.
func (f *File) RuleSet() (*rule.RuleSet, error) {
	preset := f.Preset
	if preset == "" && len(f.Rules) == 0 {
		preset = PresetTheme
	}

	rules, err := presetRules(preset)
	if err != nil {
		return nil, err
	}
	for i, spec := range f.Rules {
		r, err := spec.Build()
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}

	name := preset
	if f.location != "" {
		name = filepath.Base(f.location)
	}
	if name == "" {
		name = "custom"
	}
	return rule.NewRuleSet(name, rules...)
}

// Known presets
const (
	PresetTheme = "theme"
	PresetNone  = "none"
)

func presetRules(name string) ([]rule.Rule, error) {
	switch name {
	case "", PresetNone:
		return nil, nil
	case PresetTheme:
		return rule.ThemeRules().Rules(), nil
	default:
		return nil, errors.Errorf("unknown preset %q", name)
	}
}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load loads a config file; the format follows the file extension
func Load(ctx context.Context, path string) (*File, error) {
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
	f.location = path

	if err := f.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Int("rules", len(f.Rules)).Str("preset", f.Preset).Msg("configuration loaded")
	return f, nil
}
