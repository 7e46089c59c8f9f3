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

// Package text applies rule sets to file contents.
package text

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/rule"
	"github.com/walteh/rewriterc/pkg/status"
)

// ✏️ Rewriter applies a rule set to one file at a time
type Rewriter struct {
	files status.FileManager
}

// 🏭 NewRewriter creates a rewriter reading and writing through files
func NewRewriter(files status.FileManager) *Rewriter {
	return &Rewriter{files: files}
}

// Rewrite applies rules to content held in memory.
// Content must be valid UTF-8.
func Rewrite(content []byte, rules *rule.RuleSet) (rule.Result, error) {
	if !utf8.Valid(content) {
		return rule.Result{}, ErrEncoding
	}
	return rules.Apply(string(content)), nil
}

// 🔄 Process reads path, applies rules and, in commit mode, writes the result
// back. Failures are reported in the returned result, never as a panic or a
// separate error, so one bad file does not stop a run.
func (r *Rewriter) Process(ctx context.Context, path string, rules *rule.RuleSet, mode config.Mode) status.FileResult {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	res := status.FileResult{Path: path, Status: status.StatusFailed}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	content, err := r.files.ReadFile(ctx, path)
	if err != nil {
		res.Err = &FileError{Path: path, Kind: ErrIO, Err: err}
		logger.Warn().Err(err).Msg("read failed")
		return res
	}

	out, err := Rewrite(content, rules)
	if err != nil {
		res.Err = &FileError{Path: path, Kind: ErrEncoding}
		logger.Warn().Msg("skipping file with invalid encoding")
		return res
	}

	res.Counts = out.Counts
	res.Changes = out.Total

	if !out.Changed() {
		res.Status = status.StatusUnchanged
		logger.Trace().Msg("no matches")
		return res
	}

	res.Original = content
	res.Rewritten = []byte(out.Content)

	if mode == config.ModePreview {
		res.Status = status.StatusPreview
		logger.Debug().Int("changes", out.Total).Msg("would rewrite")
		return res
	}

	if err := r.files.WriteFile(ctx, path, res.Rewritten); err != nil {
		res.Err = &FileError{Path: path, Kind: ErrIO, Err: err}
		logger.Warn().Err(err).Msg("write failed")
		return res
	}

	res.Status = status.StatusModified
	logger.Debug().Int("changes", out.Total).Msg("rewrote file")
	return res
}
