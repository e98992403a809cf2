// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	coreconfig "github.com/kusari-oss/imgquest/internal/core/config"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command
func NewConfigCmd(a *app.App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the imgquest configuration file",
	}

	configCmd.AddCommand(newInitCmd())
	configCmd.AddCommand(newShowCmd(a))
	configCmd.AddCommand(newDiagnoseCmd(a))

	return configCmd
}

// configFilePath returns the file named by --config, or the global config path.
func configFilePath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return coreconfig.ExpandPathWithTilde(path), nil
	}
	return coreconfig.GlobalConfigFilePath()
}

func newInitCmd() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Long: `Write a config file with the default settings. Without a path the file named
by --config is written, or ~/.imgquest/config.yaml.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{app.SkipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = coreconfig.ExpandPathWithTilde(args[0])
			} else {
				var err error
				if path, err = configFilePath(cmd); err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := coreconfig.SaveConfig(coreconfig.NewDefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return initCmd
}

func newShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long:  `Print the configuration after the config file and flags are applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), a.Config); ok || err != nil {
				return err
			}
			data, err := coreconfig.Marshal(a.Config)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// Diagnostics describes where imgquest reads and writes its files.
type Diagnostics struct {
	ConfigFile       string   `json:"config_file" yaml:"config_file"`
	ConfigFileExists bool     `json:"config_file_exists" yaml:"config_file_exists"`
	Storage          string   `json:"storage" yaml:"storage"`
	DataDir          string   `json:"data_dir" yaml:"data_dir"`
	DataDirExists    bool     `json:"data_dir_exists" yaml:"data_dir_exists"`
	Catalog          string   `json:"catalog" yaml:"catalog"`
	CatalogItems     int      `json:"catalog_items" yaml:"catalog_items"`
	CatalogProblems  []string `json:"catalog_problems,omitempty" yaml:"catalog_problems,omitempty"`
	ArtifactsDir     string   `json:"artifacts_dir" yaml:"artifacts_dir"`
}

func newDiagnoseCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Show which files imgquest uses and whether they exist",
		Long: `Show the config file, project storage, catalog source and artifacts
directory in effect, whether they exist, and any catalog problems.

Use this command when projects or catalog items are not where you expect them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			diag := Diagnostics{
				Storage:      a.Config.Storage,
				DataDir:      a.Config.DataDir,
				Catalog:      a.Config.CatalogPath,
				CatalogItems: len(a.Catalog),
				ArtifactsDir: a.Config.ArtifactsDir,
			}
			if path, err := configFilePath(cmd); err == nil {
				diag.ConfigFile = path
				diag.ConfigFileExists = exists(path)
			}
			diag.DataDirExists = exists(a.Config.DataDir)
			if diag.Catalog == "" {
				diag.Catalog = "embedded"
			}

			d := engine.Diagnose(a.Catalog)
			for _, m := range d.MissingReferents {
				diag.CatalogProblems = append(diag.CatalogProblems, fmt.Sprintf("%s depends on unknown item %s", m.ItemID, m.DependencyID))
			}
			for _, c := range d.Cycles {
				diag.CatalogProblems = append(diag.CatalogProblems, "cycle "+engine.FormatCycle(c))
			}

			if ok, err := a.PrintStructured(cmd.OutOrStdout(), diag); ok || err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.Styles.Title.Render("imgquest configuration"))
			fmt.Fprintf(out, "  Config file:   %s %s\n", diag.ConfigFile, found(a, diag.ConfigFileExists))
			fmt.Fprintf(out, "  Storage:       %s\n", diag.Storage)
			if diag.Storage == coreconfig.StorageFile {
				fmt.Fprintf(out, "  Data dir:      %s %s\n", diag.DataDir, found(a, diag.DataDirExists))
			}
			fmt.Fprintf(out, "  Catalog:       %s (%d items)\n", diag.Catalog, diag.CatalogItems)
			fmt.Fprintf(out, "  Artifacts dir: %s\n", diag.ArtifactsDir)
			for _, p := range diag.CatalogProblems {
				fmt.Fprintf(out, "  %s %s\n", a.Styles.Warning.Render("catalog:"), p)
			}
			return nil
		},
	}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func found(a *app.App, ok bool) string {
	if ok {
		return a.Styles.Success.Render("(found)")
	}
	return a.Styles.Muted.Render("(not found)")
}
