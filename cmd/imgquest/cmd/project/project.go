// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	"github.com/kusari-oss/imgquest/internal/prompt"
	"github.com/kusari-oss/imgquest/internal/wizard"
	"github.com/spf13/cobra"
)

// NewProjectCmd creates the project command
func NewProjectCmd(a *app.App) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Create and manage implementation projects",
	}

	projectCmd.AddCommand(newCreateCmd(a))
	projectCmd.AddCommand(newListCmd(a))
	projectCmd.AddCommand(newShowCmd(a))
	projectCmd.AddCommand(newUpdateCmd(a))
	projectCmd.AddCommand(newDeleteCmd(a))

	return projectCmd
}

func newCreateCmd(a *app.App) *cobra.Command {
	var in wizard.CreateProjectInput

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project and seed its backlog",
		Long: `Create a project. The backlog starts with every P0 catalog item plus the items
whose seed rules match the project's country, industry and company count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.Service.CreateProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			summary, err := a.Service.GetProject(cmd.Context(), state.Project.ID)
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), summary); ok || err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", a.Styles.Success.Render("Created project"), state.Project.ID)
			printSummary(out, a, summary)
			return nil
		},
	}

	createCmd.Flags().StringVarP(&in.Name, "name", "n", "", "project name")
	createCmd.Flags().StringVarP(&in.Mode, "mode", "m", "", "wizard mode: EXPERT or BEGINNER (default from config)")
	createCmd.Flags().StringVar(&in.Country, "country", "", "country code, e.g. JP")
	createCmd.Flags().StringVar(&in.Currency, "currency", "", "currency code, e.g. JPY")
	createCmd.Flags().StringVar(&in.Industry, "industry", "", "industry, e.g. retail")
	createCmd.Flags().IntVar(&in.CompanyCount, "company-count", 1, "number of company codes")
	createCmd.Flags().StringVar(&in.Description, "description", "", "free text description")
	_ = createCmd.MarkFlagRequired("name")

	return createCmd
}

func newListCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.Service.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), projects); ok || err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found. Create one with 'imgquest project create --name <name>'.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMODE\tDONE\tREADY\tBLOCKED\tCREATED")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%d\t%s\n",
					p.Project.ID, p.Project.Name, p.Project.Mode,
					p.Stats.Done, p.Stats.Total, p.Stats.Ready, p.Stats.Blocked,
					p.Project.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its backlog counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.Service.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), summary); ok || err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), a, summary)
			return nil
		},
	}
}

func newUpdateCmd(a *app.App) *cobra.Command {
	var (
		name, mode, country, currency, industry, description string
		companyCount                                          int
	)

	updateCmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update project settings",
		Long: `Update project settings. Only the flags given are changed. Changing the mode
re-resolves the backlog; items already DONE stay DONE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u wizard.ProjectUpdate
			changed := cmd.Flags().Changed
			if changed("name") {
				u.Name = &name
			}
			if changed("mode") {
				u.Mode = &mode
			}
			if changed("country") {
				u.Country = &country
			}
			if changed("currency") {
				u.Currency = &currency
			}
			if changed("industry") {
				u.Industry = &industry
			}
			if changed("company-count") {
				u.CompanyCount = &companyCount
			}
			if changed("description") {
				u.Description = &description
			}

			if _, err := a.Service.UpdateProject(cmd.Context(), args[0], u); err != nil {
				return err
			}
			summary, err := a.Service.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), summary); ok || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.Styles.Success.Render("Updated project"), args[0])
			printSummary(cmd.OutOrStdout(), a, summary)
			return nil
		},
	}

	updateCmd.Flags().StringVarP(&name, "name", "n", "", "project name")
	updateCmd.Flags().StringVarP(&mode, "mode", "m", "", "wizard mode: EXPERT or BEGINNER")
	updateCmd.Flags().StringVar(&country, "country", "", "country code")
	updateCmd.Flags().StringVar(&currency, "currency", "", "currency code")
	updateCmd.Flags().StringVar(&industry, "industry", "", "industry")
	updateCmd.Flags().IntVar(&companyCount, "company-count", 0, "number of company codes")
	updateCmd.Flags().StringVar(&description, "description", "", "free text description")

	return updateCmd
}

func newDeleteCmd(a *app.App) *cobra.Command {
	var yes bool

	deleteCmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with its answers, decisions and artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				if !prompt.ShouldPrompt() {
					return fmt.Errorf("refusing to delete %s without --yes in a non-interactive session", id)
				}
				confirmed, err := prompt.Confirm(fmt.Sprintf("Delete project %s?", id), false)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := a.Service.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", id)
			return nil
		},
	}

	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without confirmation")
	return deleteCmd
}

func printSummary(out io.Writer, a *app.App, s *wizard.ProjectSummary) {
	p := s.Project
	fmt.Fprintln(out, a.Styles.Title.Render(p.Name))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "  Mode:\t%s\n", p.Mode)
	if p.Country != "" {
		fmt.Fprintf(w, "  Country:\t%s\n", p.Country)
	}
	if p.Currency != "" {
		fmt.Fprintf(w, "  Currency:\t%s\n", p.Currency)
	}
	if p.Industry != "" {
		fmt.Fprintf(w, "  Industry:\t%s\n", p.Industry)
	}
	fmt.Fprintf(w, "  Companies:\t%d\n", p.CompanyCount)
	fmt.Fprintf(w, "  Backlog:\t%d items (%d done, %d ready, %d blocked)\n",
		s.Stats.Total, s.Stats.Done, s.Stats.Ready, s.Stats.Blocked)
	_ = w.Flush()
}
