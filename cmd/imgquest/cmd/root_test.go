// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/schema"
	"github.com/kusari-oss/imgquest/internal/wizard"
)

// scriptedAsker answers every input with the first value its type allows.
type scriptedAsker struct {
	asked []string
}

func (s *scriptedAsker) Ask(q wizard.Question, _ map[string]interface{}) (map[string]interface{}, error) {
	s.asked = append(s.asked, q.ConfigItemID)
	values := make(map[string]interface{}, len(q.Inputs))
	for _, in := range q.Inputs {
		switch in.Type {
		case schema.TypeSelect:
			values[in.Name] = in.Options[0]
		case schema.TypeMultiSelect:
			values[in.Name] = []interface{}{in.Options[0]}
		case schema.TypeBoolean:
			values[in.Name] = true
		case schema.TypeNumber:
			values[in.Name] = float64(1)
		default:
			values[in.Name] = "x"
		}
	}
	return values, nil
}

type harness struct {
	t       *testing.T
	dataDir string
	asker   *scriptedAsker
}

func newHarness(t *testing.T) *harness {
	t.Setenv("IMGQUEST_HOME", t.TempDir())
	return &harness{t: t, dataDir: t.TempDir(), asker: &scriptedAsker{}}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := app.New()
	a.Asker = h.asker

	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", h.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "imgquest %s", strings.Join(args, " "))
	return out
}

func (h *harness) createProject(args ...string) string {
	h.t.Helper()
	out := h.mustRun(append([]string{"project", "create", "-o", "json"}, args...)...)
	var summary wizard.ProjectSummary
	require.NoError(h.t, json.Unmarshal([]byte(out), &summary))
	require.NotEmpty(h.t, summary.Project.ID)
	return summary.Project.ID
}

func TestProjectLifecycle(t *testing.T) {
	h := newHarness(t)
	id := h.createProject("--name", "Acme", "--country", "jp", "--industry", "Retail")

	out := h.mustRun("project", "show", id)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Country:")
	assert.Contains(t, out, "JP")

	out = h.mustRun("project", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "EXPERT")

	out = h.mustRun("project", "update", id, "--mode", "beginner")
	assert.Contains(t, out, "BEGINNER")

	_, err := h.run("project", "update", id, "--mode", "guru")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidMode))

	h.mustRun("project", "delete", id, "--yes")
	_, err = h.run("project", "show", id)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProjectNotFound))
}

func TestProjectCreateRequiresName(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("project", "create")
	assert.Error(t, err)
}

func TestWizardCommands(t *testing.T) {
	h := newHarness(t)
	id := h.createProject("--name", "Acme")

	out := h.mustRun("wizard", "next", id)
	assert.Contains(t, out, "FI-CORE-001")
	assert.Contains(t, out, "fiscal_year_start (select)")

	out = h.mustRun("wizard", "answer", id, "FI-CORE-001", "fiscal_year_start=04", "special_periods=4")
	assert.Contains(t, out, "Recorded 2 answer(s) for FI-CORE-001")
	assert.Contains(t, out, "FI-CORE-002: BLOCKED -> ")

	out = h.mustRun("wizard", "answers", id, "FI-CORE-001")
	assert.Equal(t, "fiscal_year_start=04\nspecial_periods=4\n", out)

	_, err := h.run("wizard", "answer", id, "FI-CORE-001", "fiscal_year_start=13")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidAnswer))

	_, err = h.run("wizard", "answer", id, "FI-CORE-001", "special_periods=many")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidAnswer))

	_, err = h.run("wizard", "answer", id, "NOPE-001", "x=y")
	assert.True(t, errors.HasCode(err, errors.ErrCodeItemNotFound))

	out = h.mustRun("wizard", "decisions", id)
	assert.Contains(t, out, "fiscal_year_start: 04; special_periods: 4")

	out = h.mustRun("wizard", "progress", id, "-o", "json")
	var progress wizard.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &progress))
	assert.Equal(t, 1, progress.Answered)
}

func TestWizardRun(t *testing.T) {
	h := newHarness(t)
	id := h.createProject("--name", "Acme")

	out := h.mustRun("wizard", "run", id, "--max", "2")
	assert.Equal(t, []string{"FI-CORE-001", "FI-CORE-002"}, h.asker.asked)
	assert.Contains(t, out, "Answered 2 question(s) this session")

	h.mustRun("wizard", "run", id)
	out = h.mustRun("wizard", "next", id)
	assert.Contains(t, out, "No more questions")

	out = h.mustRun("backlog", "list", id, "--status", "blocked")
	assert.Contains(t, out, "No backlog entries match.")
}

func TestBacklogCommands(t *testing.T) {
	h := newHarness(t)
	id := h.createProject("--name", "Acme")

	out := h.mustRun("backlog", "list", id, "--status", "ready")
	assert.Contains(t, out, "FI-CORE-001")
	assert.NotContains(t, out, "FI-CORE-002")

	out = h.mustRun("backlog", "list", id)
	assert.Contains(t, out, "FI-CORE-002")
	assert.Contains(t, out, "BLOCKED BY")

	_, err := h.run("backlog", "list", id, "--status", "stuck")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidStatus))

	out = h.mustRun("backlog", "summary", id)
	assert.Contains(t, out, "READY")
	assert.Contains(t, out, "P0")

	out = h.mustRun("backlog", "graph", id)
	assert.Contains(t, out, "FI-CORE-001 -> FI-CORE-002")

	out = h.mustRun("backlog", "graph", id, "--mermaid")
	assert.Contains(t, out, "FI_CORE_001 --> FI_CORE_002")

	out = h.mustRun("backlog", "set-status", id, "FI-CORE-001", "done")
	assert.Contains(t, out, "FI-CORE-001 is now")

	out = h.mustRun("backlog", "list", id, "--status", "done", "-o", "json")
	var items []wizard.BacklogItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Empty(t, items)

	out = h.mustRun("wizard", "next", id)
	assert.Contains(t, out, "FI-CORE-001")

	h.mustRun("wizard", "answer", id, "FI-CORE-001", "fiscal_year_start=04")
	h.mustRun("backlog", "set-status", id, "FI-CORE-001", "ready")
	out = h.mustRun("backlog", "list", id, "--status", "done", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "FI-CORE-001", items[0].Entry.ConfigItemID)
	assert.Equal(t, models.StatusDone, items[0].Entry.Status)
}

func TestArtifactCommands(t *testing.T) {
	h := newHarness(t)
	id := h.createProject("--name", "Acme")
	h.mustRun("wizard", "answer", id, "FI-CORE-001", "fiscal_year_start=04")

	_, err := h.run("artifact", "show", id, "test-view")
	assert.True(t, errors.HasCode(err, errors.ErrCodeArtifactNotFound))

	outDir := t.TempDir()
	out := h.mustRun("artifact", "generate", id, "--output-dir", outDir)
	for _, typ := range []string{"DECISION_LOG", "CONFIG_WORKBOOK", "TEST_VIEW", "MIGRATION_VIEW"} {
		assert.Contains(t, out, typ)
	}
	data, err := os.ReadFile(filepath.Join(outDir, id, "config_workbook.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "fiscal_year_start=04")

	out = h.mustRun("artifact", "show", id, "config-workbook")
	assert.Equal(t, string(data), out)

	out = h.mustRun("artifact", "list", id)
	assert.Contains(t, out, "MIGRATION_VIEW")

	_, err = h.run("artifact", "generate", id, "--type", "spreadsheet")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArtifactType))

	out = h.mustRun("artifact", "export", id, "--format", "yaml")
	assert.Contains(t, out, "config_items:")
	assert.Contains(t, out, "answered: 1")

	exportFile := filepath.Join(t.TempDir(), "export.json")
	h.mustRun("artifact", "export", id, "--file", exportFile)
	data, err = os.ReadFile(exportFile)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestCatalogCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("catalog", "check")
	assert.Contains(t, out, "no problems found")

	out = h.mustRun("catalog", "show", "FI-CORE-002")
	assert.Contains(t, out, "Depends on: FI-CORE-001")

	_, err := h.run("catalog", "show", "NOPE")
	assert.True(t, errors.HasCode(err, errors.ErrCodeItemNotFound))

	out = h.mustRun("catalog", "stats", "-o", "json")
	var stats struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 15, stats.Total)

	broken := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(`
- id: A
  title: A
  depends_on: [B]
- id: B
  title: B
  depends_on: [A]
- id: C
  title: C
  depends_on: [GONE]
`), 0644))
	out, err = h.run("--catalog", broken, "catalog", "check")
	require.Error(t, err)
	assert.Contains(t, out, "C depends on unknown item GONE")
	assert.Contains(t, out, "A -> B -> A")
}

func TestRootFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("-o", "xml", "catalog", "stats")
	assert.Error(t, err)

	_, err = h.run("--storage", "sqlite", "catalog", "stats")
	assert.Error(t, err)

	id := h.createProject("--name", "Acme")
	metricsFile := filepath.Join(t.TempDir(), "imgquest.prom")
	h.mustRun("--metrics-file", metricsFile, "wizard", "progress", id)
	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "imgquest_backlog_recomputes_total")

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("default_mode: BEGINNER\n"), 0644))
	out := h.mustRun("--config", configFile, "project", "create", "--name", "Novice")
	assert.Contains(t, out, "BEGINNER")
}

func TestCatalogInit(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "base.yml")

	out := h.mustRun("catalog", "init", path)
	assert.Contains(t, out, "Catalog written to")

	_, err := h.run("catalog", "init", path)
	assert.Error(t, err)
	h.mustRun("catalog", "init", path, "--force")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.yml"), []byte(`
- id: LOCAL-001
  title: Local extension
  priority: P2
  depends_on: [FI-CORE-001]
`), 0644))
	out = h.mustRun("--catalog", dir, "catalog", "stats", "-o", "json")
	var stats struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 16, stats.Total)

	out = h.mustRun("--catalog", dir, "catalog", "check")
	assert.Contains(t, out, "16 items, no problems found")
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "imgquest.yaml")

	out := h.mustRun("--config", path, "config", "init")
	assert.Contains(t, out, "Config written to "+path)
	_, err := h.run("--config", path, "config", "init")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("default_mode: BEGINNER\nquestion_limit: 3\n"), 0644))
	out = h.mustRun("--config", path, "config", "show")
	assert.Contains(t, out, "default_mode: BEGINNER")
	assert.Contains(t, out, "question_limit: 3")
	assert.Contains(t, out, "data_dir: "+h.dataDir)

	out = h.mustRun("--config", path, "config", "diagnose", "-o", "json")
	var diag struct {
		ConfigFile       string `json:"config_file"`
		ConfigFileExists bool   `json:"config_file_exists"`
		Catalog          string `json:"catalog"`
		CatalogItems     int    `json:"catalog_items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &diag))
	assert.Equal(t, path, diag.ConfigFile)
	assert.True(t, diag.ConfigFileExists)
	assert.Equal(t, "embedded", diag.Catalog)
	assert.Equal(t, 15, diag.CatalogItems)
}
