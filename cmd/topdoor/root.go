package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/topdoor/internal/app"
	"github.com/MrSnakeDoc/topdoor/internal/config"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

// coreFactory builds the shared services. serve is true for the
// long-running server, which logs at the configured level; one-shot
// commands stay quiet unless --verbose is set.
type coreFactory func(ctx context.Context, serve, verbose bool) (*app.Core, error)

func defaultCore(ctx context.Context, serve, verbose bool) (*app.Core, error) {
	cfg := config.Load()

	level := cfg.LogLevel
	if !serve && !verbose {
		level = "warn"
	}
	return app.NewCore(ctx, cfg, logger.New(level, cfg.PrettyLog))
}

// env is shared by every command. The core is built on first use so that
// `version` and `--help` never touch the configuration directory.
type env struct {
	newCore coreFactory
	verbose bool
	core    *app.Core
}

func (e *env) load(cmd *cobra.Command) (*app.Core, error) {
	if e.core != nil {
		return e.core, nil
	}
	core, err := e.newCore(cmd.Context(), cmd.Name() == "serve", e.verbose)
	if err != nil {
		return nil, err
	}
	e.core = core
	return core, nil
}

func (e *env) close() {
	if e.core == nil {
		return
	}
	if err := e.core.Close(); err != nil {
		e.core.Logger.Warn("failed to close redis", logger.Error(err))
	}
	e.core = nil
}

// newRootCmd returns the command tree and a cleanup func releasing
// whatever the executed command opened.
func newRootCmd(newCore coreFactory) (*cobra.Command, func()) {
	e := &env{newCore: newCore}

	cmd := &cobra.Command{
		Use:   "topdoor",
		Short: "Open whole groups of links, files and apps at once",
		Long: `topdoor keeps named groups of URLs, files and applications in
config.json and opens every item of a group with one command.

Groups can be edited from the command line, through the local HTTP API
(topdoor serve) or synchronised from a Scrapbox page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log at the configured level")

	cmd.AddCommand(
		newServeCmd(e),
		newListCmd(e),
		newShowCmd(e),
		newOpenCmd(e),
		newAddCmd(e),
		newRemoveCmd(e),
		newMoveCmd(e),
		newResetCmd(e),
		newSyncCmd(e),
		newImportHomepageCmd(e),
		newPathCmd(e),
		newVersionCmd(),
	)
	return cmd, e.close
}
