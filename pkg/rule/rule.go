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

package rule

import (
	"regexp"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔍 Match is a single pattern match handed to an Action
type Match struct {
	Text   string   // Full matched text
	Groups []string // Capture groups, Groups[0] is Text
}

// 🎯 Action derives the replacement for a match
//
// The set of actions is closed: Literal, Computed and Lookup.
type Action interface {
	replace(m Match) string
	kind() string
}

// 📝 Literal replaces every match with fixed text, inserted verbatim
type Literal struct {
	Text string
}

func (a Literal) replace(Match) string { return a.Text }
func (a Literal) kind() string         { return "literal" }

// ⚙️ Computed derives the replacement from the matched text
type Computed struct {
	Fn func(m Match) string
}

func (a Computed) replace(m Match) string { return a.Fn(m) }
func (a Computed) kind() string           { return "computed" }

// 📖 Lookup replaces a matched token with its entry in Table.
// Tokens without an entry are left untouched.
type Lookup struct {
	Table map[string]string
}

func (a Lookup) replace(m Match) string {
	if to, ok := a.Table[m.Text]; ok {
		return to
	}
	return m.Text
}

func (a Lookup) kind() string { return "lookup" }

// 🔄 Rule is a single pattern → replacement transformation
type Rule struct {
	pattern     *regexp.Regexp
	action      Action
	description string
}

// 🏭 New compiles pattern and builds a rule
func New(pattern string, action Action, description string) (Rule, error) {
	if pattern == "" {
		return Rule{}, errors.Errorf("pattern is required")
	}
	if action == nil {
		return Rule{}, errors.Errorf("rule %q: action is required", pattern)
	}
	if c, ok := action.(Computed); ok && c.Fn == nil {
		return Rule{}, errors.Errorf("rule %q: computed action has no function", pattern)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}

	return Rule{
		pattern:     re,
		action:      action,
		description: description,
	}, nil
}

// MustNew is like New but panics on error. Meant for static rule tables.
func MustNew(pattern string, action Action, description string) Rule {
	r, err := New(pattern, action, description)
	if err != nil {
		panic(err)
	}
	return r
}

// 🔤 Token builds a pattern that matches lit only as a whole token.
//
// A word boundary is required on each side whose edge character is a word
// character, so "indigo-600" never matches inside "indigo-6000".
func Token(lit string) string {
	if lit == "" {
		return ""
	}
	var b strings.Builder
	if isWordByte(lit[0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(lit))
	if isWordByte(lit[len(lit)-1]) {
		b.WriteString(`\b`)
	}
	return b.String()
}

// TokenAny builds a pattern matching any of lits as a whole token.
// Longer tokens are tried first so overlapping alternatives do not shadow each other.
func TokenAny(lits ...string) string {
	sorted := make([]string, 0, len(lits))
	for _, l := range lits {
		if l != "" {
			sorted = append(sorted, l)
		}
	}
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len(b) - len(a)
	})
	parts := make([]string, len(sorted))
	for i, l := range sorted {
		parts[i] = "(?:" + Token(l) + ")"
	}
	return strings.Join(parts, "|")
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Pattern returns the source of the compiled pattern
func (r Rule) Pattern() string { return r.pattern.String() }

// Description returns the human readable description
func (r Rule) Description() string { return r.description }

// Kind returns the action kind: literal, computed or lookup
func (r Rule) Kind() string { return r.action.kind() }

// 🏃 Apply rewrites every match of the rule in content.
//
// Matches are collected from a single scan of the input, so the count never
// includes text produced by the replacement itself. A match whose replacement
// equals the matched text is not counted.
func (r Rule) Apply(content string) (string, int) {
	locs := r.pattern.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content))

	count := 0
	last := 0
	for _, loc := range locs {
		m := Match{
			Text:   content[loc[0]:loc[1]],
			Groups: make([]string, len(loc)/2),
		}
		for g := 0; g < len(loc)/2; g++ {
			if loc[2*g] >= 0 {
				m.Groups[g] = content[loc[2*g]:loc[2*g+1]]
			}
		}

		to := r.action.replace(m)
		if to == m.Text {
			continue
		}

		b.WriteString(content[last:loc[0]])
		b.WriteString(to)
		last = loc[1]
		count++
	}

	if count == 0 {
		return content, 0
	}

	b.WriteString(content[last:])
	return b.String(), count
}
