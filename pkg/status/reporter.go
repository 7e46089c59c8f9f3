package status

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 📣 Reporter renders the progress and outcome of a run
type Reporter struct {
	logger    *log.Logger
	formatter FileFormatter
	cfg       config.RunConfig
}

// 🏭 NewReporter creates a reporter for one run
func NewReporter(logger *log.Logger, cfg config.RunConfig) *Reporter {
	return &Reporter{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		cfg:       cfg,
	}
}

// 📝 Start prints the run header and the mode banner
func (r *Reporter) Start(ctx context.Context, rules *rule.RuleSet) {
	r.logger.Header(fmt.Sprintf("%s mode • %s • %d rules from %s",
		r.cfg.Mode, r.cfg.Root, rules.Len(), rules.Name()))

	if r.cfg.Mode == config.ModePreview {
		r.logger.Warning("DRY RUN - no files will be modified")
	} else {
		r.logger.Info("Applying changes to files")
	}
	r.logger.LogNewline()
}

// 📝 Discovered records how many files will be processed
func (r *Reporter) Discovered(ctx context.Context, count int) {
	r.logger.Infof("Found %d files to process", count)
}

// 📝 ReportFile prints one processed file.
// Unchanged files only reach the debug log.
func (r *Reporter) ReportFile(ctx context.Context, res FileResult) {
	display := r.displayPath(res.Path)

	if res.Status == StatusUnchanged {
		zerolog.Ctx(ctx).Debug().Str("file", display).Msg("no changes")
		return
	}

	r.logger.LogFileOperation(ctx, log.FileOperation{
		Path:       display,
		Mode:       r.cfg.Mode.String(),
		Status:     r.formatter.FormatFileResult(res),
		Changes:    res.Changes,
		IsModified: res.Status == StatusModified,
		IsPreview:  res.Status == StatusPreview,
		IsFailed:   res.Status == StatusFailed,
	})

	switch res.Status {
	case StatusFailed:
		r.logger.Detail(r.formatter.FormatError(res.Err))
	case StatusPreview:
		for _, c := range res.Counts {
			if c.Changes > 0 {
				r.logger.Detail(r.formatter.FormatRuleCount(c))
			}
		}
		r.logger.Detail(fmt.Sprintf("Would make %d changes", res.Changes))
		if r.cfg.ShowDiff {
			r.printDiff(ctx, display, res)
		}
	case StatusModified:
		zerolog.Ctx(ctx).Debug().Msgf("%s - %d changes", display, res.Changes)
	}
}

// 📝 Progress records processing progress in the debug log
func (r *Reporter) Progress(ctx context.Context, current, total int) {
	zerolog.Ctx(ctx).Debug().Msg(r.formatter.FormatProgress(current, total))
}

// 📝 Cancelled reports a run declined at the confirmation gate
func (r *Reporter) Cancelled(ctx context.Context) {
	r.logger.Warning("Operation cancelled, no files were touched")
}

// 📝 Finish prints the summary table and the closing hint
func (r *Reporter) Finish(ctx context.Context, s Summary) error {
	r.logger.LogNewline()
	r.logger.Separator()

	table, err := SummaryTable(s, r.cfg.Mode)
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	r.logger.Raw(table)
	r.logger.Separator()

	zerolog.Ctx(ctx).Info().
		Int("files_scanned", s.FilesScanned).
		Int("files_modified", s.FilesModified).
		Int("files_failed", s.FilesFailed).
		Int("total_changes", s.TotalChanges).
		Msg("run complete")

	if s.FilesFailed > 0 {
		r.logger.Warningf("%d files could not be processed", s.FilesFailed)
	}

	switch {
	case r.cfg.Mode == config.ModePreview && s.TotalChanges > 0:
		r.logger.Info("Run without --dry-run to apply changes.")
	case r.cfg.Mode == config.ModePreview:
		r.logger.Success("Nothing to migrate")
	default:
		r.logger.Successf("Updated %d files with %d changes", s.FilesModified, s.TotalChanges)
	}
	return nil
}

// SummaryTable renders the summary as a table
func SummaryTable(s Summary, mode config.Mode) (string, error) {
	modified := "Files modified"
	if mode == config.ModePreview {
		modified = "Files to modify"
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithData(pterm.TableData{
			{"Metric", "Value"},
			{"Files scanned", fmt.Sprint(s.FilesScanned)},
			{modified, fmt.Sprint(s.FilesModified)},
			{"Files failed", fmt.Sprint(s.FilesFailed)},
			{"Total changes", fmt.Sprint(s.TotalChanges)},
		}).
		Srender()
}

func (r *Reporter) printDiff(ctx context.Context, display string, res FileResult) {
	diff, err := UnifiedDiff(display, res.Original, res.Rewritten)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", display).Msg("diff failed")
		return
	}
	if diff != "" {
		r.logger.Raw(diff)
	}
}

// UnifiedDiff renders a unified diff between two versions of a file
func UnifiedDiff(name string, before, after []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  1,
	})
	if err != nil {
		return "", errors.Errorf("computing diff: %w", err)
	}
	return diff, nil
}

func (r *Reporter) displayPath(path string) string {
	rel, err := filepath.Rel(r.cfg.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
