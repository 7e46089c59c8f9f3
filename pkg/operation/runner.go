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

package operation

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/discovery"
	"github.com/walteh/rewriterc/pkg/rule"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrUserCancelled is returned by a Confirmer when the user declines or
// interrupts the prompt. The runner turns it into a cancelled summary.
var ErrUserCancelled = errors.Base("cancelled by user")

// 🚦 State is a phase of a run
type State int

const (
	StateIdle State = iota
	StateConfirming
	StateDiscovering
	StateProcessing
	StateReporting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateDiscovering:
		return "discovering"
	case StateProcessing:
		return "processing"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ❓ Confirmer asks whether a commit run may write files
type Confirmer func(ctx context.Context, cfg config.RunConfig) (bool, error)

// Options configures a Runner
type Options struct {
	Config    config.RunConfig   // Root, mode, filters, parallelism
	Rules     *rule.RuleSet      // Rules applied to every file
	Files     status.FileManager // Defaults to the OS file system
	Reporter  *status.Reporter   // Required
	Confirm   Confirmer          // Required for commit runs unless AssumeYes
	AssumeYes bool               // Skip the confirmation gate
}

// 🏃 Runner drives one rewrite run through its states
type Runner struct {
	opts     Options
	rewriter *text.Rewriter

	mu      sync.Mutex
	state   State
	history []State
}

// 🏗️ New creates a runner
func New(opts Options) (*Runner, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("invalid config: %w", err)
	}
	if opts.Rules == nil {
		return nil, errors.New("rules are required")
	}
	if opts.Reporter == nil {
		return nil, errors.New("reporter is required")
	}
	if opts.Config.Mode == config.ModeCommit && !opts.AssumeYes && opts.Confirm == nil {
		return nil, errors.New("commit runs need a confirmer or AssumeYes")
	}
	if opts.Files == nil {
		opts.Files = status.NewOSFileManager()
	}

	return &Runner{
		opts:     opts,
		rewriter: text.NewRewriter(opts.Files),
		state:    StateIdle,
		history:  []State{StateIdle},
	}, nil
}

// State returns the current state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// History returns every state the runner has been in, in order
func (r *Runner) History() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.history...)
}

func (r *Runner) enter(ctx context.Context, s State) {
	r.mu.Lock()
	r.state = s
	r.history = append(r.history, s)
	r.mu.Unlock()
	zerolog.Ctx(ctx).Trace().Stringer("state", s).Msg("run state")
}

// 🏃 Run executes the run. A declined confirmation returns a summary with
// Cancelled set and no error. A missing root is returned as
// discovery.ErrPathNotFound. Per-file failures, unreadable directories
// included, are counted, never returned.
func (r *Runner) Run(ctx context.Context) (*status.Summary, error) {
	if r.State() != StateIdle {
		return nil, errors.New("runner already used")
	}
	defer r.enter(ctx, StateDone)

	cfg := r.opts.Config
	rep := r.opts.Reporter

	if cfg.Mode == config.ModeCommit && !r.opts.AssumeYes {
		r.enter(ctx, StateConfirming)
		ok, err := r.opts.Confirm(ctx, cfg)
		if err != nil && !errors.Is(err, ErrUserCancelled) {
			return nil, errors.Errorf("confirming run: %w", err)
		}
		if !ok || err != nil {
			rep.Cancelled(ctx)
			return &status.Summary{Cancelled: true}, nil
		}
	}

	r.enter(ctx, StateDiscovering)
	found, err := discovery.Walk(ctx, cfg.Root, discovery.All(
		discovery.Extensions(cfg.Extensions...),
		discovery.ExcludeSubstrings(cfg.Exclude...),
		discovery.ExcludeGlobs(cfg.ExcludeGlobs...),
	))
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	rep.Start(ctx, r.opts.Rules)
	rep.Discovered(ctx, len(found.Files))

	r.enter(ctx, StateProcessing)
	results, err := r.process(ctx, found.Files)
	if err != nil {
		return nil, err
	}
	for _, f := range found.Failures {
		results = append(results, status.FileResult{
			Path:   f.Path,
			Status: status.StatusFailed,
			Err:    &text.FileError{Path: f.Path, Kind: text.ErrIO, Err: f.Err},
		})
	}

	r.enter(ctx, StateReporting)
	for _, res := range results {
		rep.ReportFile(ctx, res)
	}
	summary := status.Fold(results)
	if err := rep.Finish(ctx, summary); err != nil {
		return &summary, err
	}
	return &summary, nil
}

// process rewrites files, in parallel when configured. Each file owns one
// result slot, so the returned slice is in discovery order.
func (r *Runner) process(ctx context.Context, files []string) ([]status.FileResult, error) {
	results := make([]status.FileResult, len(files))
	var done atomic.Int64

	one := func(i int) {
		results[i] = r.rewriter.Process(ctx, files[i], r.opts.Rules, r.opts.Config.Mode)
		r.opts.Reporter.Progress(ctx, int(done.Add(1)), len(files))
	}

	if r.opts.Config.Parallelism <= 1 {
		for i := range files {
			if err := ctx.Err(); err != nil {
				return nil, errors.Errorf("processing files: %w", err)
			}
			one(i)
		}
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Config.Parallelism)
	for i := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			one(i)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("processing files: %w", err)
	}
	return results, nil
}
