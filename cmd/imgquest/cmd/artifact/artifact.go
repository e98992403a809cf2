// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"text/tabwriter"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	reports "github.com/kusari-oss/imgquest/internal/artifact"
	"github.com/kusari-oss/imgquest/internal/core/format"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/wizard"
	"github.com/spf13/cobra"
)

// NewArtifactCmd creates the artifact command
func NewArtifactCmd(a *app.App) *cobra.Command {
	artifactCmd := &cobra.Command{
		Use:   "artifact",
		Short: "Generate and export project reports",
		Long: `Generate the decision log, configuration workbook, test view and migration
view from a project's current state. Undecided items are marked TBD.`,
	}

	artifactCmd.AddCommand(newGenerateCmd(a))
	artifactCmd.AddCommand(newListCmd(a))
	artifactCmd.AddCommand(newShowCmd(a))
	artifactCmd.AddCommand(newExportCmd(a))

	return artifactCmd
}

func newGenerateCmd(a *app.App) *cobra.Command {
	var (
		types        []string
		outputDir    string
		pathTemplate string
		write        bool
	)

	generateCmd := &cobra.Command{
		Use:   "generate <project-id>",
		Short: "Render reports and store them with the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := wizard.ParseArtifactTypes(types)
			if err != nil {
				return err
			}
			generated, err := a.Service.GenerateArtifacts(cmd.Context(), args[0], parsed...)
			if err != nil {
				return err
			}

			var paths []string
			if write || outputDir != "" {
				dir := outputDir
				if dir == "" {
					dir = a.Config.ArtifactsDir
				}
				paths, err = reports.NewWriter(dir).WithPathTemplate(pathTemplate).Write(generated)
				if err != nil {
					return fmt.Errorf("error writing artifacts: %w", err)
				}
			}

			if ok, err := a.PrintStructured(cmd.OutOrStdout(), summaries(generated)); ok || err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TYPE\tTBD\tDIGEST\tPATH")
			for i, art := range generated {
				path := "-"
				if i < len(paths) {
					path = paths[i]
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", art.Type, art.TBDCount, shortDigest(art.Digest), path)
			}
			return w.Flush()
		},
	}

	generateCmd.Flags().StringSliceVarP(&types, "type", "t", nil, "artifact types to generate (default all): decision-log, config-workbook, test-view, migration-view")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "write the reports below this directory")
	generateCmd.Flags().BoolVarP(&write, "write", "w", false, "write the reports below the configured artifacts directory")
	generateCmd.Flags().StringVar(&pathTemplate, "path-template", reports.DefaultPathTemplate, "relative path of each report; sees .project_id and .type")

	return generateCmd
}

func newListCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the stored reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artifacts, err := a.Service.Artifacts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), summaries(artifacts)); ok || err != nil {
				return err
			}
			if len(artifacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No artifacts yet. Run 'imgquest artifact generate' first.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TYPE\tTBD\tGENERATED\tDIGEST")
			for _, art := range artifacts {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", art.Type, art.TBDCount, art.CreatedAt.Format("2006-01-02 15:04"), shortDigest(art.Digest))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id> <type>",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := wizard.ParseArtifactTypes(args[1:])
			if err != nil {
				return err
			}
			art, err := a.Service.Artifact(cmd.Context(), args[0], types[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), art); ok || err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), art.Content)
			return nil
		},
	}
}

func newExportCmd(a *app.App) *cobra.Command {
	var (
		formatName string
		outputFile string
	)

	exportCmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export the project's decisions and configuration as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.ParseFormat(formatName)
			if err != nil {
				return err
			}
			exp, err := a.Service.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := format.Encode(exp, f)
			if err != nil {
				return fmt.Errorf("error encoding export: %w", err)
			}

			if outputFile == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := format.WriteBytes(outputFile, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export saved to %s\n", outputFile)
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&formatName, "format", "f", "json", "export format (json or yaml)")
	exportCmd.Flags().StringVar(&outputFile, "file", "", "write the export to this file instead of stdout")

	return exportCmd
}

// artifactSummary is an artifact without its content, for listings.
type artifactSummary struct {
	Type      models.ArtifactType `json:"artifact_type" yaml:"artifact_type"`
	TBDCount  int                 `json:"tbd_count" yaml:"tbd_count"`
	Digest    string              `json:"digest" yaml:"digest"`
	CreatedAt string              `json:"created_at" yaml:"created_at"`
}

func summaries(artifacts []models.Artifact) []artifactSummary {
	out := make([]artifactSummary, len(artifacts))
	for i, art := range artifacts {
		out[i] = artifactSummary{
			Type:      art.Type,
			TBDCount:  art.TBDCount,
			Digest:    art.Digest,
			CreatedAt: art.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return out
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
