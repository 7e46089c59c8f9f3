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

// Package discovery finds the candidate files of a rewrite run.
package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrPathNotFound is returned when the discovery root does not exist
var ErrPathNotFound = errors.Base("path not found")

// Failure is a path below the root that could not be read during the walk
type Failure struct {
	Path string
	Err  error
}

// 📋 Report is the outcome of a walk
type Report struct {
	Files    []string  // Matching regular files, in lexical order
	Failures []Failure // Unreadable entries below the root, in walk order
}

// 📁 Discover walks root recursively and returns every regular file that
// passes filter, in lexical order. No matches is not an error. Unreadable
// entries below the root are skipped; use Walk to see them.
func Discover(ctx context.Context, root string, filter Filter) ([]string, error) {
	r, err := Walk(ctx, root, filter)
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// 🚶 Walk is Discover that also reports the entries it could not read.
// Only a missing or unreadable root and context cancellation are errors.
func Walk(ctx context.Context, root string, filter Filter) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	if filter == nil {
		filter = All()
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return nil, errors.Errorf("stat %s: %w", root, err)
	}

	report := &Report{}

	if rf, ok := filter.(RootFilter); ok {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", root, err)
		}
		if !rf.MatchRoot(abs) {
			logger.Debug().Str("root", abs).Msg("root is excluded")
			return report, nil
		}
	}

	if !info.IsDir() {
		if filter.Match(filepath.ToSlash(filepath.Base(root))) {
			report.Files = []string{root}
		}
		return report, nil
	}

	pruner, _ := filter.(Pruner)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && pruner != nil && pruner.Prune(rel) {
				logger.Trace().Str("dir", rel).Msg("pruned directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if filter.Match(rel) {
			report.Files = append(report.Files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	logger.Debug().Str("root", root).Int("files", len(report.Files)).Int("failures", len(report.Failures)).Msg("discovered files")
	return report, nil
}
