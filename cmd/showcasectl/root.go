package main

import (
	"os"

	"github.com/phambaophuc/showcase/internal/app"
	"github.com/phambaophuc/showcase/internal/config"
	"github.com/phambaophuc/showcase/internal/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "showcasectl",
		Short:         "Create, inspect and export before/after showcases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline activity to stdout")

	cmd.AddCommand(
		newCreateCmd(opts),
		newShowCmd(opts),
		newExportCmd(opts),
		newCategoriesCmd(),
		newEventsCmd(opts),
	)
	return cmd
}

// open builds the pipeline from the environment. Only warnings are logged
// unless --verbose is set.
func (o *rootOptions) open() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	preferDurableStore(cfg, os.LookupEnv)
	if !o.verbose {
		cfg.Log.Level = "warn"
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, zl)
}

// preferDurableStore switches to the sqlite backend unless STORE_BACKEND is
// set explicitly, so records survive between invocations.
func preferDurableStore(cfg *config.Config, lookup func(string) (string, bool)) {
	if _, ok := lookup("STORE_BACKEND"); !ok {
		cfg.Store.Backend = config.BackendSQLite
	}
}
