// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	catalogpkg "github.com/kusari-oss/imgquest/internal/core/catalog"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command
func NewCatalogCmd(a *app.App) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the configuration item catalog",
	}

	catalogCmd.AddCommand(newStatsCmd(a))
	catalogCmd.AddCommand(newShowCmd(a))
	catalogCmd.AddCommand(newCheckCmd(a))
	catalogCmd.AddCommand(newInitCmd())

	return catalogCmd
}

func newStatsCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count catalog items by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := catalogpkg.ComputeStats(a.Catalog)
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), stats); ok || err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := a.Config.CatalogPath
			if source == "" {
				source = "embedded"
			}
			fmt.Fprintf(out, "%s %d items (%s)\n", a.Styles.Title.Render("Catalog:"), stats.Total, source)
			for _, key := range stats.PriorityKeys() {
				fmt.Fprintf(out, "  %-4s %d\n", key, stats.ByPriority[key])
			}
			return nil
		},
	}
}

func newShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, ok := a.Catalog.Get(args[0])
			if !ok {
				return errors.NewItemNotFound(args[0])
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), item); ok || err != nil {
				return err
			}
			printItem(cmd, a, item)
			return nil
		},
	}
}

func printItem(cmd *cobra.Command, a *app.App, item models.ConfigItem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", a.Styles.Key.Render(item.ID), a.Styles.Title.Render(item.Title))
	fmt.Fprintf(out, "  Priority: %s\n", item.Priority.Effective())
	if item.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", item.Description)
	}
	if len(item.DependsOn) > 0 {
		fmt.Fprintf(out, "  Depends on: %s\n", strings.Join(item.DependsOn, ", "))
	}
	if len(item.Produces) > 0 {
		fmt.Fprintf(out, "  Produces: %s\n", strings.Join(item.Produces, ", "))
	}
	visible := "no"
	if item.ModeVisible {
		visible = "yes"
	}
	fmt.Fprintf(out, "  Beginner mode: %s\n", visible)
	for _, in := range item.Inputs {
		line := fmt.Sprintf("  - %s (%s)", in.Name, in.Type)
		if len(in.Options) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(in.Options, ", "))
		}
		fmt.Fprintln(out, line)
	}
}

func newCheckCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report dependencies on unknown items and dependency cycles",
		Long: `Report catalog problems the resolver tolerates silently. An item that depends
on an unknown id can never become READY. Items in a dependency cycle are treated
as satisfied. The command fails when any problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			diag := engine.Diagnose(a.Catalog)
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), diag); err != nil {
				return err
			} else if !ok {
				out := cmd.OutOrStdout()
				for _, m := range diag.MissingReferents {
					fmt.Fprintf(out, "%s %s depends on unknown item %s\n", a.Styles.Error.Render("missing:"), m.ItemID, m.DependencyID)
				}
				for _, c := range diag.Cycles {
					fmt.Fprintf(out, "%s %s\n", a.Styles.Warning.Render("cycle:"), engine.FormatCycle(c))
				}
				if diag.Clean() {
					fmt.Fprintf(out, "%s %d items, no problems found\n", a.Styles.Success.Render("ok:"), len(a.Catalog))
				}
			}
			if !diag.Clean() {
				return fmt.Errorf("catalog check failed: %s", diag.String())
			}
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write the built-in catalog to a file for editing",
		Long: `Write the built-in catalog to a file. Point catalog_path or --catalog at the
file, or at a directory of catalog files, to use the edited copy.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{app.SkipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := catalogpkg.WriteDefault(args[0], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog written to %s\n", args[0])
			return nil
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return initCmd
}
