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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		action    Action
		wantError string
	}{
		{
			name:    "literal",
			pattern: Token("foo"),
			action:  Literal{Text: "bar"},
		},
		{
			name:    "computed",
			pattern: `f(o+)`,
			action:  Computed{Fn: func(m Match) string { return m.Groups[1] }},
		},
		{
			name:    "lookup",
			pattern: TokenAny("a", "b"),
			action:  Lookup{Table: map[string]string{"a": "b"}},
		},
		{
			name:      "empty_pattern",
			pattern:   "",
			action:    Literal{Text: "x"},
			wantError: "pattern is required",
		},
		{
			name:      "invalid_pattern",
			pattern:   `foo(`,
			action:    Literal{Text: "x"},
			wantError: "compiling pattern",
		},
		{
			name:      "nil_action",
			pattern:   "foo",
			wantError: "action is required",
		},
		{
			name:      "computed_without_function",
			pattern:   "foo",
			action:    Computed{},
			wantError: "computed action has no function",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.pattern, tt.action, tt.name)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, r.Pattern())
			assert.Equal(t, tt.name, r.Description())
		})
	}
}

func TestToken(t *testing.T) {
	tests := []struct {
		lit  string
		want string
	}{
		{lit: "indigo-600", want: `\bindigo-600\b`},
		{lit: "hover:bg-x", want: `\bhover:bg-x\b`},
		{lit: ":focus", want: `:focus\b`},
		{lit: "a.b", want: `\ba\.b\b`},
		{lit: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			assert.Equal(t, tt.want, Token(tt.lit))
		})
	}
}

func TestRule_Apply(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		content   string
		want      string
		wantCount int
	}{
		{
			name:      "literal_every_occurrence",
			rule:      MustNew(Token("indigo-600"), Literal{Text: "primary"}, ""),
			content:   "a indigo-600 b indigo-600",
			want:      "a primary b primary",
			wantCount: 2,
		},
		{
			name:      "literal_is_not_expanded",
			rule:      MustNew(`(foo)`, Literal{Text: "$1-bar"}, ""),
			content:   "foo",
			want:      "$1-bar",
			wantCount: 1,
		},
		{
			name:      "replacement_containing_pattern_counted_once",
			rule:      MustNew(Token("x"), Literal{Text: "x x"}, ""),
			content:   "x",
			want:      "x x",
			wantCount: 1,
		},
		{
			name: "computed_keeps_surrounding_text",
			rule: MustNew(`class="([^"]*)\bred\b([^"]*)"`, Computed{Fn: func(m Match) string {
				return `class="` + m.Groups[1] + "blue" + m.Groups[2] + `"`
			}}, ""),
			content:   `<a class="p-2 red m-1">`,
			want:      `<a class="p-2 blue m-1">`,
			wantCount: 1,
		},
		{
			name:      "computed_identity_not_counted",
			rule:      MustNew(`\w+`, Computed{Fn: func(m Match) string { return m.Text }}, ""),
			content:   "a b c",
			want:      "a b c",
			wantCount: 0,
		},
		{
			name:      "lookup_table",
			rule:      MustNew(TokenAny("red-500", "red-50"), Lookup{Table: map[string]string{"red-500": "danger", "red-50": "danger-50"}}, ""),
			content:   "red-50 red-500 red-5000",
			want:      "danger-50 danger red-5000",
			wantCount: 2,
		},
		{
			name:      "no_match",
			rule:      MustNew(Token("foo"), Literal{Text: "bar"}, ""),
			content:   "baz",
			want:      "baz",
			wantCount: 0,
		},
		{
			name:      "empty_content",
			rule:      MustNew(Token("foo"), Literal{Text: "bar"}, ""),
			content:   "",
			want:      "",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := tt.rule.Apply(tt.content)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestRule_TokenBoundaries(t *testing.T) {
	r := MustNew(Token("indigo-600"), Literal{Text: "X"}, "")

	tests := []struct {
		content string
		want    string
	}{
		{content: "indigo-600", want: "X"},
		{content: "indigo-6000", want: "indigo-6000"},
		{content: "indigo-600x", want: "indigo-600x"},
		{content: "mega-indigo-600x", want: "mega-indigo-600x"},
		{content: "xindigo-600", want: "xindigo-600"},
		{content: "_indigo-600", want: "_indigo-600"},
		{content: `"indigo-600"`, want: `"X"`},
		{content: "a indigo-600 b", want: "a X b"},
		{content: "indigo-600 indigo-600", want: "X X"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got, _ := r.Apply(tt.content)
			assert.Equal(t, tt.want, got)
		})
	}

	short := MustNew(Token("xyz-6"), Literal{Text: "X"}, "")
	got, n := short.Apply("xyz-600 xyz-60 xyz-6")
	assert.Equal(t, "xyz-600 xyz-60 X", got)
	assert.Equal(t, 1, n)
}

func TestNewRuleSet(t *testing.T) {
	_, err := NewRuleSet("empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one rule is required")

	_, err = NewRuleSet("zero", Rule{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 0 was not built with rule.New")

	rules := []Rule{MustNew("a", Literal{Text: "b"}, "first")}
	rs, err := NewRuleSet("one", rules...)
	require.NoError(t, err)

	// mutating the caller's slice does not leak into the set
	rules[0] = MustNew("c", Literal{Text: "d"}, "other")
	assert.Equal(t, "first", rs.Rules()[0].Description())
	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, "one", rs.Name())
}

func TestRuleSet_Apply(t *testing.T) {
	rs, err := NewRuleSet("test",
		MustNew(Token("a"), Literal{Text: "b"}, "a to b"),
		MustNew(Token("b"), Literal{Text: "c"}, "b to c"),
		MustNew(Token("zzz"), Literal{Text: "y"}, "unused"),
	)
	require.NoError(t, err)

	res := rs.Apply("a b")
	assert.Equal(t, "c c", res.Content, "later rules see earlier output")
	assert.Equal(t, 3, res.Total)
	assert.True(t, res.Changed())
	assert.Equal(t, []Count{
		{Index: 0, Description: "a to b", Changes: 1},
		{Index: 1, Description: "b to c", Changes: 2},
	}, res.Counts)
}

func TestRuleSet_OrderSensitivity(t *testing.T) {
	general := MustNew(Token("bg-indigo-600"), Literal{Text: "bg-primary"}, "general")
	specific := MustNew(Token("hover:bg-indigo-600"), Literal{Text: "hover:bg-primary-hover"}, "specific")
	content := `<button class="hover:bg-indigo-600">`

	generalFirst, err := NewRuleSet("general_first", general, specific)
	require.NoError(t, err)
	res := generalFirst.Apply(content)
	assert.Equal(t, `<button class="hover:bg-primary">`, res.Content)
	require.Len(t, res.Counts, 1)
	assert.Equal(t, "general", res.Counts[0].Description, "specific rule never matches")

	specificFirst, err := NewRuleSet("specific_first", specific, general)
	require.NoError(t, err)
	res = specificFirst.Apply(content)
	assert.Equal(t, `<button class="hover:bg-primary-hover">`, res.Content)
	require.Len(t, res.Counts, 1)
	assert.Equal(t, "specific", res.Counts[0].Description)
}

func TestThemeRules(t *testing.T) {
	rs := ThemeRules()

	t.Run("end_to_end_example", func(t *testing.T) {
		res := rs.Apply(`<div class="bg-indigo-600 hover:bg-indigo-700 text-gray-900">`)
		assert.Equal(t, `<div class="bg-primary hover:bg-primary-hover text-text-main">`, res.Content)
		assert.Equal(t, 3, res.Total)

		again := rs.Apply(res.Content)
		assert.Equal(t, 0, again.Total)
		assert.Equal(t, res.Content, again.Content)
	})

	t.Run("class_name_context", func(t *testing.T) {
		res := rs.Apply(`<button className='px-4 bg-indigo-600 text-white'>`)
		assert.Equal(t, `<button className="px-4 bg-primary text-white">`, res.Content)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Counts, 1)
		assert.Equal(t, "Button primary background", res.Counts[0].Description)
	})

	t.Run("active_nav_context", func(t *testing.T) {
		res := rs.Apply(`isActive ? 'bg-indigo-600 text-white' : 'text-gray-600'`)
		assert.Equal(t, `isActive ? 'bg-primary text-white' : 'text-text-secondary'`, res.Content)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("class_name_leaves_variants_alone", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
			want  string
			total int
		}{
			{
				name:  "bare_and_hover",
				input: `<a className="px-4 bg-indigo-600 hover:bg-indigo-600">`,
				want:  `<a className="px-4 bg-primary hover:bg-primary-hover">`,
				total: 2,
			},
			{
				name:  "hover_before_bare",
				input: `<a className="hover:bg-indigo-600 bg-indigo-600">`,
				want:  `<a className="hover:bg-primary-hover bg-primary">`,
				total: 2,
			},
			{
				name:  "hover_only",
				input: `<a className="hover:bg-indigo-600">`,
				want:  `<a className="hover:bg-primary-hover">`,
				total: 1,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := rs.Apply(tt.input)
				assert.Equal(t, tt.want, res.Content)
				assert.Equal(t, tt.total, res.Total)
				assert.Zero(t, rs.Apply(res.Content).Total, "second pass is a no-op")
			})
		}
	})

	t.Run("active_nav_leaves_variants_alone", func(t *testing.T) {
		res := rs.Apply(`isActive ? 'bg-indigo-600 hover:bg-indigo-600' : ''`)
		assert.Equal(t, `isActive ? 'bg-primary hover:bg-primary-hover' : ''`, res.Content)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("prefixed_variants_win", func(t *testing.T) {
		res := rs.Apply("hover:bg-indigo-600 focus:ring-indigo-500 ring-indigo-500")
		assert.Equal(t, "hover:bg-primary-hover focus:ring-primary ring-primary", res.Content)
	})

	t.Run("idempotent_over_every_token", func(t *testing.T) {
		var b strings.Builder
		for _, tok := range themeTokens {
			b.WriteString(tok.from)
			b.WriteString(" ")
		}
		first := rs.Apply(b.String())
		assert.Equal(t, len(themeTokens), first.Total)

		second := rs.Apply(first.Content)
		assert.Equal(t, 0, second.Total)
	})
}
