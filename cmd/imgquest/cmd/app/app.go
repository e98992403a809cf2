// SPDX-License-Identifier: Apache-2.0

// Package app holds the state shared by every imgquest command: the loaded
// configuration, the wizard service and the output settings.
package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kusari-oss/imgquest/internal/core/catalog"
	"github.com/kusari-oss/imgquest/internal/core/config"
	"github.com/kusari-oss/imgquest/internal/core/format"
	"github.com/kusari-oss/imgquest/internal/core/log"
	"github.com/kusari-oss/imgquest/internal/core/metrics"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/prompt"
	"github.com/kusari-oss/imgquest/internal/store"
	"github.com/kusari-oss/imgquest/internal/wizard"
)

// SkipInit marks commands that run without loading the config, catalog or store.
const SkipInit = "imgquest.skip-init"

// Output values accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// App is populated by the root command before any subcommand runs.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Registry *prometheus.Registry
	Catalog  models.Catalog
	Service  *wizard.Service

	// Asker drives "wizard run".
	Asker prompt.Asker
	// Output selects text, json or yaml rendering of command results.
	Output string

	Styles Styles
}

// New returns an App that prompts through huh forms.
func New() *App {
	return &App{Asker: prompt.Form{}, Output: OutputText, Styles: DefaultStyles()}
}

// Init builds the logger, catalog, store and service from cfg.
func (a *App) Init(cfg *config.Config, logOutput io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := a.structured(); err != nil {
		return err
	}
	a.Config = cfg
	a.Logger = log.New(log.Config{
		Level:  log.ParseLevel(cfg.Log.Level),
		Format: log.ParseFormat(cfg.Log.Format),
		Output: logOutput,
	})

	cat, err := catalog.NewLoader(a.Logger).Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	a.Catalog = cat

	st, err := store.New(cfg.Storage, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("error opening project store: %w", err)
	}

	mode, err := models.ParseMode(cfg.DefaultMode)
	if err != nil {
		return fmt.Errorf("invalid default mode: %w", err)
	}

	a.Registry = prometheus.NewRegistry()
	a.Service, err = wizard.New(wizard.Options{
		Store:       st,
		Catalog:     cat,
		Logger:      a.Logger,
		Metrics:     metrics.NewMetrics(a.Registry),
		DefaultMode: mode,
	})
	if err != nil {
		return fmt.Errorf("error creating wizard service: %w", err)
	}

	a.Logger.Debug("initialized",
		"storage", cfg.Storage, "data_dir", cfg.DataDir, "catalog_items", len(cat), "default_mode", mode)
	return nil
}

// structured returns the encoding for --output json|yaml, or "" for text.
func (a *App) structured() (format.Format, error) {
	switch strings.ToLower(a.Output) {
	case "", OutputText:
		return "", nil
	case OutputJSON:
		return format.JSON, nil
	case OutputYAML, "yml":
		return format.YAML, nil
	default:
		return "", fmt.Errorf("unsupported output %q: must be text, json or yaml", a.Output)
	}
}

// PrintStructured writes v as JSON or YAML when --output asks for it and
// reports whether it did.
func (a *App) PrintStructured(w io.Writer, v interface{}) (bool, error) {
	f, err := a.structured()
	if err != nil || f == "" {
		return false, err
	}
	out, err := format.FormatData(v, f)
	if err != nil {
		return true, fmt.Errorf("error formatting output: %w", err)
	}
	fmt.Fprint(w, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(w)
	}
	return true, nil
}

// WriteMetrics dumps the registry in the Prometheus text format to path.
func (a *App) WriteMetrics(path string) error {
	if path == "" || a.Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(config.ExpandPathWithTilde(path), a.Registry); err != nil {
		return fmt.Errorf("error writing metrics file: %w", err)
	}
	return nil
}
