package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/topdoor/internal/sources/homepage"
)

var errNoPage = errors.New("no Scrapbox page recorded, pass a page URL")

func newSyncCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [PAGE_URL]",
		Short: "replace the groups with the content of a Scrapbox page",
		Long: `Replace the groups with the content of a Scrapbox page and remember the
page. Without an argument the remembered page is fetched again.

Example:
  topdoor sync https://scrapbox.io/myproject/Links`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}

			pageURL := core.Manager.Snapshot().ScrapboxPageURL
			if len(args) == 1 {
				pageURL = args[0]
			}
			if pageURL == "" {
				return errNoPage
			}

			res, err := core.Sync(cmd.Context(), pageURL)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "synced %d group(s) from %s", len(res.Groups), res.PageURL)
			return nil
		},
	}
}

func newImportHomepageCmd(e *env) *cobra.Command {
	var services bool

	cmd := &cobra.Command{
		Use:   "import-homepage FILE",
		Short: "append groups from a Homepage bookmarks.yaml or services.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := homepage.KindBookmarks
			if services {
				kind = homepage.KindServices
			}

			groups, err := homepage.Load(args[0], kind)
			if err != nil {
				return err
			}
			core, err := e.load(cmd)
			if err != nil {
				return err
			}
			added, err := core.Manager.Import(cmd.Context(), groups)
			if err != nil {
				return err
			}
			for _, g := range added {
				printSuccess(cmd.OutOrStdout(), "imported %s with %d item(s)", g.ID, len(g.Items))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&services, "services", false, "read a services.yaml instead of bookmarks.yaml")
	return cmd
}
