package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
)

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "list groups in display order",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}

			snap := core.Manager.Snapshot()
			out := cmd.OutOrStdout()
			if len(snap.Groups) == 0 {
				printWarning(out, "no groups, add one with `topdoor add`")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tNAME\tITEMS\tLAUNCHES")
			for i, g := range snap.Groups {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n",
					i, g.ID, g.Name, len(g.Items), core.Index.Counter(g.ID))
			}
			return tw.Flush()
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show GROUP_ID",
		Short: "show the items of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}

			g, ok := core.Manager.Group(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, args[0])
			}

			out := cmd.OutOrStdout()
			color.Fprintf(out, "<bold>%s</> (%s)\n", g.Name, g.ID)
			if g.OpenWith != "" {
				fmt.Fprintf(out, "open with: %s\n", g.OpenWith)
			}
			if g.SourcePageURL != "" {
				fmt.Fprintf(out, "source:    %s\n", g.SourcePageURL)
			}
			if last, ok := core.Index.LastLaunched(g.ID); ok {
				fmt.Fprintf(out, "launched:  %d times, last %s\n",
					core.Index.Counter(g.ID), last.Format("2006-01-02 15:04"))
			}
			for _, item := range g.Items {
				fmt.Fprintf(out, "  [%s] %s\n", domain.ClassifyItem(item), item)
			}
			return nil
		},
	}
}

func newAddCmd(e *env) *cobra.Command {
	var (
		id       string
		openWith string
	)

	cmd := &cobra.Command{
		Use:   "add NAME [ITEM...]",
		Short: "add a group",
		Long: `Add a group. Items are URLs (https://...), file:// URLs or filesystem
paths and are opened in the order given.

Examples:
  topdoor add "Morning" https://mail.example.com https://calendar.example.com
  topdoor add Xcode ~/src/app/App.xcodeproj --open-with Xcode`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}

			g, err := core.Manager.Add(cmd.Context(), domain.LinkGroup{
				ID:       id,
				Name:     args[0],
				Items:    args[1:],
				OpenWith: openWith,
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "added %s with %d item(s)", g.ID, len(g.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "group id (derived from the name when empty)")
	cmd.Flags().StringVar(&openWith, "open-with", "", "application used for file items")
	return cmd
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm GROUP_ID",
		Short:   "remove a group",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}
			if err := core.Manager.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "removed %s", args[0])
			return nil
		},
	}
}

func newMoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mv GROUP_ID INDEX",
		Short: "move a group to a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}

			core, err := e.load(cmd)
			if err != nil {
				return err
			}
			if err := core.Manager.Move(cmd.Context(), args[0], to); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "moved %s", args[0])
			return nil
		},
	}
}

func newResetCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "replace every group with the sample configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every group, pass --yes to confirm")
			}
			core, err := e.load(cmd)
			if err != nil {
				return err
			}
			if err := core.Manager.Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "configuration reset")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func newPathCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := e.load(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Manager.Store().Path())
			return nil
		},
	}
}
