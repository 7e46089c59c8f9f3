package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ptermConfirm asks on the terminal before files are rewritten.
// The prompt has no timeout.
func ptermConfirm(ctx context.Context, cfg config.RunConfig) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(fmt.Sprintf("This will modify files in %s. Continue?", cfg.Root)).
		WithDefaultValue(false).
		Show()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("confirmation prompt failed")
		return false, errors.Errorf("reading answer: %w", operation.ErrUserCancelled)
	}
	return ok, nil
}
