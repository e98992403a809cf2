// SPDX-License-Identifier: Apache-2.0

package backlog

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/spf13/cobra"
)

// NewBacklogCmd creates the backlog command
func NewBacklogCmd(a *app.App) *cobra.Command {
	backlogCmd := &cobra.Command{
		Use:   "backlog",
		Short: "Inspect and adjust a project's backlog",
	}

	backlogCmd.AddCommand(newListCmd(a))
	backlogCmd.AddCommand(newSummaryCmd(a))
	backlogCmd.AddCommand(newGraphCmd(a))
	backlogCmd.AddCommand(newSetStatusCmd(a))

	return backlogCmd
}

func newListCmd(a *app.App) *cobra.Command {
	var status string

	listCmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List backlog entries ordered by priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.Service.Backlog(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), items); ok || err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backlog entries match.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tPRIORITY\tSTATUS\tANSWERED\tTITLE\tBLOCKED BY")
			for _, bi := range items {
				title, priority := "(not in catalog)", "-"
				if bi.Item != nil {
					title, priority = bi.Item.Title, string(bi.Item.Priority.Effective())
				}
				blockedBy := "-"
				if len(bi.BlockedBy) > 0 {
					blockedBy = strings.Join(bi.BlockedBy, ", ")
				}
				answered := "no"
				if bi.Entry.Answered {
					answered = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					bi.Entry.ConfigItemID, priority, bi.Entry.Status, answered, title, blockedBy)
			}
			return w.Flush()
		},
	}

	listCmd.Flags().StringVarP(&status, "status", "s", "", "only list entries with this status (PENDING, BLOCKED, READY, DONE)")
	return listCmd
}

func newSummaryCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <project-id>",
		Short: "Count backlog entries by status and priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.Service.BacklogSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), summary); ok || err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d items, %.1f%% complete\n", a.Styles.Title.Render("Backlog:"), summary.Total, summary.CompletionPercentage)
			fmt.Fprintln(out, "By status:")
			for _, st := range models.AllStatuses() {
				fmt.Fprintf(out, "  %-8s %d\n", st, summary.ByStatus[st])
			}
			fmt.Fprintln(out, "By priority:")
			for _, p := range models.KnownPriorities() {
				if n, ok := summary.ByPriority[string(p)]; ok {
					fmt.Fprintf(out, "  %-8s %d\n", p, n)
				}
			}
			var other []string
			for key := range summary.ByPriority {
				if !models.Priority(key).IsKnown() {
					other = append(other, key)
				}
			}
			sort.Strings(other)
			for _, key := range other {
				fmt.Fprintf(out, "  %-8s %d\n", key, summary.ByPriority[key])
			}
			return nil
		},
	}
}

func newGraphCmd(a *app.App) *cobra.Command {
	var mermaid bool

	graphCmd := &cobra.Command{
		Use:   "graph <project-id>",
		Short: "Show the dependency graph of the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.Service.Graph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), g); ok || err != nil {
				return err
			}
			if mermaid {
				writeMermaid(cmd.OutOrStdout(), g)
				return nil
			}

			out := cmd.OutOrStdout()
			for _, n := range g.Nodes {
				fmt.Fprintf(out, "%s [%s] %s\n", n.ID, n.Status, n.Label)
			}
			if len(g.Edges) > 0 {
				fmt.Fprintln(out)
			}
			for _, e := range g.Edges {
				fmt.Fprintf(out, "%s -> %s\n", e.From, e.To)
			}
			return nil
		},
	}

	graphCmd.Flags().BoolVar(&mermaid, "mermaid", false, "print a Mermaid flowchart")
	return graphCmd
}

// writeMermaid prints g as a Mermaid flowchart with one class per status.
func writeMermaid(out io.Writer, g *engine.Graph) {
	id := func(s string) string { return strings.NewReplacer("-", "_", " ", "_").Replace(s) }

	fmt.Fprintln(out, "flowchart TD")
	for _, n := range g.Nodes {
		fmt.Fprintf(out, "    %s[\"%s: %s\"]:::%s\n", id(n.ID), n.ID, strings.ReplaceAll(n.Label, `"`, `'`), strings.ToLower(string(n.Status)))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(out, "    %s --> %s\n", id(e.From), id(e.To))
	}
	fmt.Fprintln(out, "    classDef done fill:#c8e6c9")
	fmt.Fprintln(out, "    classDef ready fill:#bbdefb")
	fmt.Fprintln(out, "    classDef blocked fill:#ffcdd2")
	fmt.Fprintln(out, "    classDef pending fill:#eeeeee")
}

func newSetStatusCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <project-id> <item-id> <status>",
		Short: "Override the status of one backlog entry",
		Long: `Override the status of one backlog entry. The override is recomputed from
the answers the next time the backlog is read: answered items are DONE, the
rest READY or BLOCKED.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.Service.SetStatus(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), entry); ok || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", entry.ConfigItemID, a.Styles.Status(entry.Status))
			return nil
		},
	}
}
