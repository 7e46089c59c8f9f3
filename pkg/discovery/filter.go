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

package discovery

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// 🔍 Filter decides whether a discovered file is a candidate.
// rel is the slash separated path relative to the discovery root.
type Filter interface {
	Match(rel string) bool
}

// ✂️ Pruner is implemented by filters that can reject a whole directory.
// Discover skips a directory when any pruner rejects it.
type Pruner interface {
	Prune(relDir string) bool
}

// 🌳 RootFilter is implemented by filters that also judge the absolute path
// of the discovery root. Discover yields nothing for a rejected root.
type RootFilter interface {
	MatchRoot(absRoot string) bool
}

// FilterFunc adapts a function to Filter
type FilterFunc func(rel string) bool

// Match implements Filter
func (f FilterFunc) Match(rel string) bool { return f(rel) }

type allFilter []Filter

// 🔗 All combines filters; a file passes only if every filter matches
func All(filters ...Filter) Filter {
	out := make(allFilter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (a allFilter) Match(rel string) bool {
	for _, f := range a {
		if !f.Match(rel) {
			return false
		}
	}
	return true
}

func (a allFilter) Prune(relDir string) bool {
	for _, f := range a {
		if p, ok := f.(Pruner); ok && p.Prune(relDir) {
			return true
		}
	}
	return false
}

func (a allFilter) MatchRoot(absRoot string) bool {
	for _, f := range a {
		if r, ok := f.(RootFilter); ok && !r.MatchRoot(absRoot) {
			return false
		}
	}
	return true
}

type extensionFilter map[string]struct{}

// 📄 Extensions matches files whose suffix is one of exts.
// Suffixes are compared case-insensitively; a leading dot is optional.
// With no extensions every file matches.
func Extensions(exts ...string) Filter {
	f := make(extensionFilter, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		f[e] = struct{}{}
	}
	return f
}

func (f extensionFilter) Match(rel string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[strings.ToLower(filepath.Ext(rel))]
	return ok
}

type substringFilter []string

// 🚫 ExcludeSubstrings rejects a file when any component of its full path,
// the root included, contains any of subs, e.g. "node_modules" or "dist".
func ExcludeSubstrings(subs ...string) Filter {
	f := make(substringFilter, 0, len(subs))
	for _, s := range subs {
		if s != "" {
			f = append(f, s)
		}
	}
	return f
}

func (f substringFilter) Match(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if f.contains(part) {
			return false
		}
	}
	return true
}

func (f substringFilter) MatchRoot(absRoot string) bool {
	return f.Match(filepath.ToSlash(absRoot))
}

func (f substringFilter) Prune(relDir string) bool {
	return f.contains(pathBase(relDir))
}

func (f substringFilter) contains(part string) bool {
	for _, s := range f {
		if strings.Contains(part, s) {
			return true
		}
	}
	return false
}

type globFilter []string

// 🌟 ExcludeGlobs rejects files matching any doublestar pattern,
// e.g. "**/*.test.jsx" or "legacy/**".
func ExcludeGlobs(patterns ...string) Filter {
	f := make(globFilter, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			f = append(f, filepath.ToSlash(p))
		}
	}
	return f
}

func (f globFilter) Match(rel string) bool {
	for _, pattern := range f {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return false
		}
	}
	return true
}

// Prune only fires for "<dir>/**" patterns, which exclude everything below dir.
func (f globFilter) Prune(relDir string) bool {
	for _, pattern := range f {
		dir, ok := strings.CutSuffix(pattern, "/**")
		if !ok {
			continue
		}
		if ok, err := doublestar.Match(dir, relDir); err == nil && ok {
			return true
		}
	}
	return false
}

func pathBase(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[i+1:]
	}
	return rel
}
