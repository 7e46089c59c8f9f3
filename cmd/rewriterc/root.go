package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/discovery"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rule"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const defaultConfigFile = ".rewriterc.yaml"

// rootOpts holds the command line flags
type rootOpts struct {
	configFile string
	path       string
	dryRun     bool
	yes        bool
	diff       bool
	parallel   int
	debug      bool
}

// newRootCmd creates the rewriterc command. Human output goes to console,
// structured logs to logs.
func newRootCmd(console, logs io.Writer, confirm operation.Confirmer) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Rewrite design tokens across a source tree",
		Long: `rewriterc rewrites class name tokens in frontend sources using an ordered
rule set. The built-in theme rules migrate indigo and gray utility classes to
semantic tokens; a config file can add or replace rules.

Without --dry-run files are rewritten in place after a confirmation.`,
		Example: `  rewriterc --dry-run
  rewriterc --dry-run --diff --path web/src
  rewriterc --config rules.hcl --yes --parallel 8`,
		Version:       GetVersionInfo().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), logs, opts.debug)
			return run(ctx, cmd, opts, console, confirm)
		},
	}
	cmd.SetVersionTemplate(FormatVersion())
	cmd.SetOut(console)

	addRootFlags(cmd, opts)
	return cmd
}

// addRootFlags adds the flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", defaultConfigFile, "config file path (.yaml, .json or .hcl)")
	cmd.Flags().StringVarP(&opts.path, "path", "p", config.DefaultRoot, "root directory to rewrite")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "preview changes without writing files")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "show unified diffs in preview")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "number of files processed at once")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}

// loadRunConfig merges defaults, the config file and flags, in that order
func loadRunConfig(ctx context.Context, cmd *cobra.Command, opts *rootOpts) (config.RunConfig, *rule.RuleSet, error) {
	cfg := config.Default()
	rules := rule.ThemeRules()

	explicit := cmd.Flags().Changed("config")
	if _, err := os.Stat(opts.configFile); err == nil || explicit {
		f, err := config.Load(ctx, opts.configFile)
		if err != nil {
			return cfg, nil, errors.Errorf("loading config: %w", err)
		}
		cfg = f.Apply(cfg)
		if rules, err = f.RuleSet(); err != nil {
			return cfg, nil, errors.Errorf("building rules: %w", err)
		}
	} else {
		zerolog.Ctx(ctx).Debug().Str("config", opts.configFile).Msg("no config file, using theme rules")
	}

	if cmd.Flags().Changed("path") {
		cfg.Root = opts.path
	}
	cfg.Mode = config.ModeCommit
	if opts.dryRun {
		cfg.Mode = config.ModePreview
	}
	cfg.ShowDiff = opts.diff
	cfg.Parallelism = opts.parallel

	if err := cfg.Validate(); err != nil {
		return cfg, nil, errors.Errorf("invalid flags: %w", err)
	}
	return cfg, rules, nil
}

func run(ctx context.Context, cmd *cobra.Command, opts *rootOpts, console io.Writer, confirm operation.Confirmer) error {
	cfg, rules, err := loadRunConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	logger := log.New(console, *zerolog.Ctx(ctx))
	ctx = log.NewContext(ctx, logger)

	zerolog.Ctx(ctx).Debug().Stringer("run", cfg).Int("rules", rules.Len()).Msg("starting")

	// a missing root is reported, not treated as a failure
	if _, err := os.Stat(cfg.Root); errors.Is(err, os.ErrNotExist) {
		logger.Errorf("Path not found: %s", cfg.Root)
		return nil
	}

	runner, err := operation.New(operation.Options{
		Config:    cfg,
		Rules:     rules,
		Reporter:  status.NewReporter(logger, cfg),
		Confirm:   confirm,
		AssumeYes: opts.yes,
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, discovery.ErrPathNotFound) {
			logger.Errorf("Path not found: %s", cfg.Root)
			return nil
		}
		return errors.Errorf("running rewrite: %w", err)
	}
	return nil
}
