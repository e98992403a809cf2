// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

const (
	timestampLayout = "2006-01-02 15:04:05"

	// otherPriority heads the workbook section for non-standard priorities.
	otherPriority = "Other"
)

var migrationSteps = []string{
	"Extract master data from the legacy system",
	"Cleanse and transform the data",
	"Load test data",
	"Reconcile and verify consistency",
	"Migrate production data",
}

var statusIcons = map[models.Status]string{
	models.StatusDone:    "✅",
	models.StatusReady:   "🟢",
	models.StatusBlocked: "🔴",
	models.StatusPending: "⚪",
}

type header struct {
	Title     string
	Project   string
	Generated string
}

func newHeader(title string, s Snapshot) header {
	return header{
		Title:     title,
		Project:   s.Project.Name,
		Generated: s.GeneratedAt.UTC().Format(timestampLayout) + " UTC",
	}
}

// trackedItem pairs a backlog entry with its catalog definition.
type trackedItem struct {
	Entry models.BacklogEntry
	Item  models.ConfigItem
}

// tracked returns the backlog entries that still have a catalog item, in
// backlog order.
func tracked(s Snapshot) []trackedItem {
	out := make([]trackedItem, 0, len(s.Backlog))
	for _, e := range s.Backlog {
		item, ok := s.Catalog.Get(e.ConfigItemID)
		if !ok {
			continue
		}
		out = append(out, trackedItem{Entry: e, Item: item})
	}
	return out
}

// answerPairs renders the answers of an item as name=value strings.
func answerPairs(answers []models.Answer) []string {
	parts := make([]string, 0, len(answers))
	for _, a := range answers {
		parts = append(parts, a.InputName+"="+models.FormatValue(a.Value))
	}
	return parts
}

type decisionRow struct {
	Index        int
	Title        string
	ConfigItemID string
	Priority     string
	DecidedAt    string
	Status       string
	Rationale    string
	Impact       string
}

type decisionLog struct {
	Header    header
	Decisions []decisionRow
}

func decisionLogView(s Snapshot) interface{} {
	decisions := append([]models.Decision(nil), s.Decisions...)
	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].CreatedAt.After(decisions[j].CreatedAt)
	})

	rows := make([]decisionRow, 0, len(decisions))
	for i, d := range decisions {
		row := decisionRow{
			Index:        i + 1,
			Title:        d.Title,
			ConfigItemID: d.ConfigItemID,
			DecidedAt:    d.CreatedAt.UTC().Format(timestampLayout),
			Status:       d.Status,
			Rationale:    d.Rationale,
			Impact:       d.Impact,
		}
		if item, ok := s.Catalog.Get(d.ConfigItemID); ok {
			row.Priority = string(item.Priority.Effective())
		}
		rows = append(rows, row)
	}
	return decisionLog{Header: newHeader("Decision Log", s), Decisions: rows}
}

type workbookRow struct {
	ID         string
	Title      string
	Status     string
	StatusIcon string
	DependsOn  string
	Value      string
	TBD        bool
}

type workbookSection struct {
	Priority string
	Rows     []workbookRow
}

type workbook struct {
	Header      header
	Total       int
	Done        int
	Ready       int
	Blocked     int
	DonePercent string
	Sections    []workbookSection
}

func workbookView(s Snapshot) interface{} {
	wb := workbook{Header: newHeader("Config Workbook", s), Total: len(s.Backlog)}
	for _, e := range s.Backlog {
		switch e.Status {
		case models.StatusDone:
			wb.Done++
		case models.StatusReady:
			wb.Ready++
		case models.StatusBlocked:
			wb.Blocked++
		}
	}
	wb.DonePercent = "0.0"
	if wb.Total > 0 {
		wb.DonePercent = fmt.Sprintf("%.1f", float64(wb.Done)/float64(wb.Total)*100)
	}

	answers := models.AnswersByItem(s.Answers)
	byPriority := make(map[string][]workbookRow)
	for _, t := range tracked(s) {
		key := otherPriority
		if p := t.Item.Priority.Effective(); p.IsKnown() {
			key = string(p)
		}

		row := workbookRow{
			ID:         t.Item.ID,
			Title:      t.Item.Title,
			Status:     string(t.Entry.Status),
			StatusIcon: statusIcon(t.Entry.Status),
			DependsOn:  "-",
			TBD:        !t.Entry.Answered,
		}
		if len(t.Item.DependsOn) > 0 {
			row.DependsOn = strings.Join(t.Item.DependsOn, ", ")
		}
		if t.Entry.Answered {
			row.Value = "set"
			if parts := answerPairs(answers[t.Item.ID]); len(parts) > 0 {
				row.Value = strings.Join(parts, "; ")
			}
		}
		byPriority[key] = append(byPriority[key], row)
	}

	keys := make([]string, 0, len(models.KnownPriorities())+1)
	for _, p := range models.KnownPriorities() {
		keys = append(keys, string(p))
	}
	keys = append(keys, otherPriority)
	for _, key := range keys {
		if rows, ok := byPriority[key]; ok {
			wb.Sections = append(wb.Sections, workbookSection{Priority: key, Rows: rows})
		}
	}
	return wb
}

func statusIcon(s models.Status) string {
	if icon, ok := statusIcons[s]; ok {
		return icon
	}
	return "❓"
}

type testItem struct {
	ID       string
	Title    string
	Answered bool
	Cases    []string
}

type testReport struct {
	Header    header
	Tested    int
	Total     int
	Cases     int
	Undecided int
	Items     []testItem
}

func testView(s Snapshot) interface{} {
	report := testReport{Header: newHeader("Test View", s), Total: len(s.Backlog)}
	answers := models.AnswersByItem(s.Answers)

	for _, t := range tracked(s) {
		ti := testItem{ID: t.Item.ID, Title: t.Item.Title, Answered: t.Entry.Answered}
		if t.Entry.Answered {
			ti.Cases = TestCases(t.Item, answers[t.Item.ID])
			report.Cases += len(ti.Cases)
			report.Tested++
		}
		report.Items = append(report.Items, ti)
	}
	report.Undecided = report.Total - report.Tested
	return report
}

type migrationRow struct {
	Title    string
	Object   string
	Answered bool
	Notes    string
}

type migrationReport struct {
	Header header
	Rows   []migrationRow
	Steps  []string
}

func migrationView(s Snapshot) interface{} {
	report := migrationReport{Header: newHeader("Migration View", s), Steps: migrationSteps}
	answers := models.AnswersByItem(s.Answers)

	for _, t := range tracked(s) {
		if !t.Item.HasProduct(string(models.ArtifactMigrationView)) {
			continue
		}
		row := migrationRow{
			Title:    t.Item.Title,
			Object:   MigrationObject(t.Item),
			Answered: t.Entry.Answered,
			Notes:    "-",
		}
		if t.Entry.Answered {
			if parts := answerPairs(answers[t.Item.ID]); len(parts) > 0 {
				row.Notes = strings.Join(parts, "; ")
			}
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}
