// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/artifact"
	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/backlog"
	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/catalog"
	configcmd "github.com/kusari-oss/imgquest/cmd/imgquest/cmd/config"
	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/project"
	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/wizard"
	"github.com/kusari-oss/imgquest/internal/core/config"
	"github.com/kusari-oss/imgquest/internal/version"

	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags. Set flags override the config file.
type rootFlags struct {
	configFile  string
	dataDir     string
	catalogPath string
	storage     string
	logLevel    string
	logFormat   string
	metricsFile string
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the imgquest command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(app.New())
}

func newRootCmd(a *app.App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "imgquest",
		Short: "Configuration wizard for ERP implementation projects",
		Long: `imgquest walks an implementation project through a catalog of configuration
items. It tracks which items are blocked by unanswered prerequisites, asks the
next most urgent question, records every answer as a decision and renders the
decision log, configuration workbook, test view and migration view.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[app.SkipInit] != "" {
				return nil
			}
			cfg, err := config.LoadConfig(flags.configFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, cfg)
			return a.Init(cfg, cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.WriteMetrics(flags.metricsFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is ~/.imgquest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory holding project files")
	rootCmd.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "catalog file or directory (default is the embedded catalog)")
	rootCmd.PersistentFlags().StringVar(&flags.storage, "storage", "", "project storage: file or memory")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().StringVarP(&a.Output, "output", "o", app.OutputText, "output format: text, json or yaml")

	rootCmd.AddCommand(project.NewProjectCmd(a))
	rootCmd.AddCommand(wizard.NewWizardCmd(a))
	rootCmd.AddCommand(backlog.NewBacklogCmd(a))
	rootCmd.AddCommand(artifact.NewArtifactCmd(a))
	rootCmd.AddCommand(catalog.NewCatalogCmd(a))
	rootCmd.AddCommand(configcmd.NewConfigCmd(a))

	return rootCmd
}

func applyFlags(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = config.ExpandPathWithTilde(flags.dataDir)
	}
	if changed("catalog") {
		cfg.CatalogPath = config.ExpandPathWithTilde(flags.catalogPath)
	}
	if changed("storage") {
		cfg.Storage = flags.storage
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
}
