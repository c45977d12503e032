package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

func newOpenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "open GROUP_ID|QUERY",
		Short: "open every item of a group",
		Long: `Open every item of a group. The argument is matched against group ids
first, then fuzzily against names; frequently launched groups win ties.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			g, ok := core.Manager.Group(query)
			if !ok {
				g, ok = domain.FindBestGroup(query, core.Manager.Snapshot().Groups, core.Index.Usage())
			}
			if !ok {
				return fmt.Errorf("%w: nothing matches %q", domain.ErrGroupNotFound, query)
			}

			report := core.Launcher.LaunchGroup(cmd.Context(), g)

			out := cmd.OutOrStdout()
			for _, res := range report.Results {
				if res.Err != nil {
					printFailure(out, "%s: %v", res.Item, res.Err)
					continue
				}
				printSuccess(out, "%s", res.Item)
			}

			if n := report.Failed(); n > 0 {
				return fmt.Errorf("%d of %d item(s) of %s could not be opened", n, len(report.Results), g.ID)
			}
			return nil
		},
	}
}
