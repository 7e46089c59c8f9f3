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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🧪 writeTree creates files (with parent dirs) under a temp root
func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	tree := []string{
		"App.jsx",
		"main.js",
		"styles.css",
		"components/Header.tsx",
		"components/Header.test.tsx",
		"components/legacy/Old.jsx",
		"node_modules/react/index.js",
		"dist/bundle.js",
		"distribution/keep.js",
		"lib/UPPER.JSX",
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "extensions_only",
			filter: Extensions(".jsx", ".tsx"),
			want: []string{
				"App.jsx",
				"components/Header.test.tsx",
				"components/Header.tsx",
				"components/legacy/Old.jsx",
				"lib/UPPER.JSX",
			},
		},
		{
			name:   "extensions_and_substrings",
			filter: All(Extensions("jsx", "tsx", "js", "ts"), ExcludeSubstrings("node_modules", "dist")),
			want: []string{
				"App.jsx",
				"components/Header.test.tsx",
				"components/Header.tsx",
				"components/legacy/Old.jsx",
				"lib/UPPER.JSX",
				"main.js",
			},
		},
		{
			name:   "globs",
			filter: All(Extensions(".jsx", ".tsx"), ExcludeGlobs("**/*.test.tsx", "components/legacy/**")),
			want: []string{
				"App.jsx",
				"components/Header.tsx",
				"lib/UPPER.JSX",
			},
		},
		{
			name:   "no_filter",
			filter: nil,
			want: []string{
				"App.jsx",
				"components/Header.test.tsx",
				"components/Header.tsx",
				"components/legacy/Old.jsx",
				"dist/bundle.js",
				"distribution/keep.js",
				"lib/UPPER.JSX",
				"main.js",
				"node_modules/react/index.js",
				"styles.css",
			},
		},
		{
			name:   "custom_func",
			filter: FilterFunc(func(rel string) bool { return filepath.Base(rel) == "main.js" }),
			want:   []string{"main.js"},
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tree...)

			got, err := Discover(ctx, root, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, root, got))

			again, err := Discover(ctx, root, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, got, again, "discovery should be restartable")
		})
	}
}

func TestDiscover_PathNotFound(t *testing.T) {
	_, err := Discover(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathNotFound), "error should be ErrPathNotFound")
}

func TestDiscover_EmptyResult(t *testing.T) {
	root := writeTree(t, "README.md")

	got, err := Discover(context.Background(), root, Extensions(".jsx"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_FileRoot(t *testing.T) {
	root := writeTree(t, "App.jsx")
	file := filepath.Join(root, "App.jsx")

	got, err := Discover(context.Background(), file, Extensions(".jsx"))
	require.NoError(t, err)
	assert.Equal(t, []string{file}, got)

	got, err = Discover(context.Background(), file, Extensions(".tsx"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_Cancelled(t *testing.T) {
	root := writeTree(t, "a.js", "b.js")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, root, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func lockDir(t *testing.T, dir string) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })
}

func TestWalk_UnreadableDirectory(t *testing.T) {
	root := writeTree(t, "App.jsx", "locked/Hidden.jsx", "zeta/Last.jsx")
	lockDir(t, filepath.Join(root, "locked"))

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	report, err := Walk(ctx, root, Extensions(".jsx"))
	require.NoError(t, err, "an unreadable subdirectory does not stop the walk")
	assert.Equal(t, []string{"App.jsx", "zeta/Last.jsx"}, relAll(t, root, report.Files))
	require.Len(t, report.Failures, 1)
	assert.Equal(t, filepath.Join(root, "locked"), report.Failures[0].Path)
	assert.ErrorIs(t, report.Failures[0].Err, os.ErrPermission)

	files, err := Discover(ctx, root, Extensions(".jsx"))
	require.NoError(t, err)
	assert.Equal(t, report.Files, files)
}

func TestWalk_PrunedUnreadableDirectory(t *testing.T) {
	root := writeTree(t, "App.jsx", "node_modules/dep/index.js")
	lockDir(t, filepath.Join(root, "node_modules"))

	report, err := Walk(context.Background(), root, ExcludeSubstrings("node_modules"))
	require.NoError(t, err)
	assert.Equal(t, []string{"App.jsx"}, relAll(t, root, report.Files))
	assert.Empty(t, report.Failures, "excluded directories are never opened")
}

func TestDiscover_ExcludedRoot(t *testing.T) {
	base := writeTree(t, "dist-build/src/App.jsx", "app/src/App.jsx")

	tests := []struct {
		name   string
		root   string
		filter Filter
		want   int
	}{
		{
			name:   "root_component_excluded",
			root:   filepath.Join(base, "dist-build", "src"),
			filter: All(Extensions(".jsx"), ExcludeSubstrings("node_modules", "dist")),
			want:   0,
		},
		{
			name:   "root_file_excluded",
			root:   filepath.Join(base, "dist-build", "src", "App.jsx"),
			filter: ExcludeSubstrings("dist"),
			want:   0,
		},
		{
			name:   "clean_root",
			root:   filepath.Join(base, "app", "src"),
			filter: All(Extensions(".jsx"), ExcludeSubstrings("node_modules", "dist")),
			want:   1,
		},
		{
			name:   "globs_stay_root_relative",
			root:   filepath.Join(base, "dist-build", "src"),
			filter: ExcludeGlobs("dist-build/**"),
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(context.Background(), tt.root, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestFilters(t *testing.T) {
	t.Run("substring_matches_any_component", func(t *testing.T) {
		f := ExcludeSubstrings("dist")
		assert.False(t, f.Match("dist/a.js"))
		assert.False(t, f.Match("a/distribution/b.js"))
		assert.False(t, f.Match("a/dist.js"))
		assert.True(t, f.Match("a/b.js"))
	})

	t.Run("substring_prunes_directories", func(t *testing.T) {
		p, ok := ExcludeSubstrings("node_modules").(Pruner)
		require.True(t, ok)
		assert.True(t, p.Prune("a/node_modules"))
		assert.False(t, p.Prune("src/components"))
	})

	t.Run("glob_prunes_directories", func(t *testing.T) {
		p, ok := ExcludeGlobs("legacy/**", "src/*").(Pruner)
		require.True(t, ok)
		assert.True(t, p.Prune("legacy"))
		assert.False(t, p.Prune("src"))
		assert.False(t, p.Prune("src/nested"), "single star patterns never prune")
	})

	t.Run("substring_checks_the_root", func(t *testing.T) {
		r, ok := All(Extensions(".js"), ExcludeSubstrings("dist")).(RootFilter)
		require.True(t, ok)
		assert.False(t, r.MatchRoot("/work/dist-build/src"))
		assert.True(t, r.MatchRoot("/work/app/src"))
	})

	t.Run("empty_extensions_match_all", func(t *testing.T) {
		assert.True(t, Extensions().Match("a.go"))
	})

	t.Run("all_ignores_nil", func(t *testing.T) {
		assert.True(t, All(nil, Extensions(".go")).Match("a.go"))
	})
}
