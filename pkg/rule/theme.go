package rule

import (
	"regexp"
)

// 🎨 tokenRule is a row of the theme migration table
type tokenRule struct {
	from, to, description string
}

// Prefixed variants (hover:, active:, focus:) come before the bare token they
// contain, otherwise the bare rule would rewrite them first.
var themeTokens = []tokenRule{
	// backgrounds
	{"hover:bg-indigo-700", "hover:bg-primary-hover", "Primary hover state"},
	{"hover:bg-indigo-600", "hover:bg-primary-hover", "Primary hover state"},
	{"active:bg-indigo-800", "active:bg-primary-active", "Primary active state"},
	{"active:bg-indigo-700", "active:bg-primary-active", "Primary active state"},
	{"bg-indigo-600", "bg-primary", "Primary button/active state background"},
	{"bg-indigo-500", "bg-primary", "Primary background"},
	{"bg-indigo-100", "bg-primary-light", "Light primary background"},
	{"bg-indigo-50", "bg-primary-50", "Lightest primary background"},

	// text
	{"hover:text-indigo-700", "hover:text-primary-hover", "Primary text hover"},
	{"hover:text-indigo-600", "hover:text-primary-hover", "Primary text hover"},
	{"text-indigo-600", "text-primary", "Primary text color"},
	{"text-indigo-500", "text-primary", "Primary text color"},
	{"text-indigo-700", "text-primary", "Primary text color (dark)"},

	// gray backgrounds
	{"hover:bg-gray-100", "hover:bg-bg-hover", "Gray hover state"},
	{"hover:bg-gray-50", "hover:bg-bg-secondary", "Light gray hover"},
	{"bg-gray-900", "bg-text-main", "Dark background (tooltips, etc)"},
	{"bg-gray-800", "bg-text-main", "Dark background"},
	{"bg-gray-100", "bg-bg-hover", "Light gray background"},
	{"bg-gray-50", "bg-bg-secondary", "Lightest gray background"},

	// gray text
	{"hover:text-gray-900", "hover:text-text-main", "Text hover"},
	{"text-gray-900", "text-text-main", "Primary text (dark gray)"},
	{"text-gray-800", "text-text-main", "Primary text"},
	{"text-gray-700", "text-text-main", "Primary text"},
	{"text-gray-600", "text-text-secondary", "Secondary text"},
	{"text-gray-500", "text-text-secondary", "Secondary text"},
	{"text-gray-400", "text-text-muted", "Muted text"},

	// borders
	{"border-gray-300", "border-border-light", "Light border"},
	{"border-gray-200", "border-border-light", "Light border"},
	{"border-gray-100", "border-border-light", "Very light border"},
	{"border-gray-400", "border-border-medium", "Medium border"},

	// focus
	{"focus:ring-indigo-500", "focus:ring-primary", "Focus ring primary"},
	{"focus:ring-indigo-600", "focus:ring-primary", "Focus ring primary"},
	{"focus:border-indigo-500", "focus:border-primary", "Focus border primary"},
	{"focus:border-indigo-600", "focus:border-primary", "Focus border primary"},

	// shadows
	{"shadow-2xl", "shadow-soft-xl", "Extra large soft shadow"},
	{"shadow-xl", "shadow-soft-lg", "Large soft shadow"},
	{"shadow-lg", "shadow-soft-md", "Medium-large soft shadow"},
	{"shadow-md", "shadow-soft", "Small-medium soft shadow"},

	// rings
	{"ring-indigo-500", "ring-primary", "Ring color primary"},
	{"ring-indigo-600", "ring-primary", "Ring color primary"},

	// gradients
	{"from-indigo-50", "from-primary-50", "Gradient from primary light"},
	{"via-blue-50", "via-white", "Gradient via white"},
	{"to-purple-50", "to-white", "Gradient to white"},
}

// primaryToken is bg-indigo-600 as a bare class, never a variant like hover:bg-indigo-600
var primaryToken = regexp.MustCompile(`(^|[\s'"])bg-indigo-600\b`)

// 🎨 ThemeRules returns the indigo/gray → semantic token migration table.
//
// The contextual className and nav rules run first; they only touch the
// primary background inside the attribute or ternary they match.
func ThemeRules() *RuleSet {
	rules := []Rule{
		MustNew(`className=['"]((?:[^'"]*\s)?)bg-indigo-600\b([^'"]*)['"]`, Computed{Fn: func(m Match) string {
			return `className="` + m.Groups[1] + "bg-primary" + m.Groups[2] + `"`
		}}, "Button primary background"),
		MustNew(`isActive\s*\?[^:]*'bg-indigo-600[^']*'`, Computed{Fn: func(m Match) string {
			return primaryToken.ReplaceAllString(m.Text, "${1}bg-primary")
		}}, "Active nav state"),
	}

	for _, t := range themeTokens {
		rules = append(rules, MustNew(Token(t.from), Literal{Text: t.to}, t.description))
	}

	rs, err := NewRuleSet("theme", rules...)
	if err != nil {
		panic(err)
	}
	return rs
}
