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
	"gitlab.com/tozd/go/errors"
)

// 📚 RuleSet is an ordered, immutable list of rules.
//
// Rules run in order and each one sees the output of the previous one. A
// general rule placed before a longer overlapping rule consumes the text the
// longer rule would have matched, so specific patterns go first.
type RuleSet struct {
	name  string
	rules []Rule
}

// 🏭 NewRuleSet builds a rule set. At least one rule is required.
func NewRuleSet(name string, rules ...Rule) (*RuleSet, error) {
	if len(rules) == 0 {
		return nil, errors.Errorf("rule set %q: at least one rule is required", name)
	}
	for i, r := range rules {
		if r.pattern == nil || r.action == nil {
			return nil, errors.Errorf("rule set %q: rule %d was not built with rule.New", name, i)
		}
	}
	return &RuleSet{
		name:  name,
		rules: append([]Rule(nil), rules...),
	}, nil
}

// Name returns the rule set name
func (s *RuleSet) Name() string { return s.name }

// Len returns the number of rules
func (s *RuleSet) Len() int { return len(s.rules) }

// Rules returns a copy of the rules in application order
func (s *RuleSet) Rules() []Rule { return append([]Rule(nil), s.rules...) }

// 📊 Count is the number of changes a single rule made
type Count struct {
	Index       int    // Position of the rule in the set
	Description string // Rule description
	Changes     int    // Number of positions the rule altered
}

// 📦 Result is the outcome of applying a rule set to some content
type Result struct {
	Content string  // Rewritten content
	Counts  []Count // Per-rule counts, only rules that changed something
	Total   int     // Sum of all per-rule changes
}

// Changed reports whether any rule altered the content
func (r Result) Changed() bool { return r.Total > 0 }

// 🏃 Apply runs every rule in order over content
func (s *RuleSet) Apply(content string) Result {
	res := Result{Content: content}
	for i, r := range s.rules {
		next, n := r.Apply(res.Content)
		if n == 0 {
			continue
		}
		res.Content = next
		res.Total += n
		res.Counts = append(res.Counts, Count{
			Index:       i,
			Description: r.description,
			Changes:     n,
		})
	}
	return res
}
