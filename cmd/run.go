package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pisaph/pisaph/internal/advisor"
	"github.com/pisaph/pisaph/internal/app"
	"github.com/pisaph/pisaph/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	deps, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	cat, err := loadCatalog(deps.cfg)
	if err != nil {
		return err
	}

	opts := app.Options{
		Catalog:    cat,
		Evaluation: deps.evaluation(),
		Runs:       deps.store.RunRepo(),
		Log:        deps.log,
	}

	advisorCfg := advisor.DefaultConfig()
	if deps.cfg.LLM.Timeout > 0 {
		advisorCfg.Timeout = deps.cfg.LLM.Timeout
	}
	provider, err := llm.NewProvider(ctx, deps.cfg.LLM, deps.store.EventRepo(), deps.log)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		deps.log.Info("no llm provider configured")
		opts.Advisor = advisor.NewService(nil, cat, advisorCfg, deps.log)
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "The advisor will show the standard recommendations.")
		deps.log.Warn("llm provider", zap.Error(err))
		opts.Advisor = advisor.NewService(nil, cat, advisorCfg, deps.log)
	default:
		opts.Advisor = advisor.NewService(provider, cat, advisorCfg, deps.log)
	}

	return app.Run(opts)
}
