// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"strings"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// testPerspectives lists the item specific checks for the core catalog.
var testPerspectives = map[string][]string{
	"FI-CORE-001": {
		"Verify the fiscal year is set and split into twelve posting periods",
		"Verify postings across the year boundary land in the right period",
		"Verify special (adjustment) periods can be used",
		"Verify year-end balance carry forward runs",
	},
	"FI-CORE-002": {
		"Verify postings in the company code are recorded in the local currency",
		"Verify exchange rates are applied to foreign currency postings",
		"Verify the country setting links the right tax procedure",
		"Verify intercompany postings between company codes",
	},
	"FI-CORE-003": {
		"Verify regular users cannot post after the period is closed",
		"Verify opening and closing periods switches correctly",
		"Verify exception permissions work as configured",
		"Verify unposted documents are flagged before close",
	},
	"FI-CORE-004": {
		"Verify each document type gets sequential numbers",
		"Verify numbering restarts at the fiscal year change",
		"Verify the company code, year and type key combination",
		"Verify no duplicate numbers under concurrent posting",
	},
	"FI-CORE-005": {
		"Verify balance sheet and P&L classification",
		"Verify open item managed accounts show uncleared items",
		"Verify direct posting to reconciliation accounts is blocked",
		"Verify account group classification",
	},
	"FI-APAR-001": {
		"Verify business partners can be created, changed and displayed",
		"Verify customer and vendor roles are assigned",
		"Verify business partner numbering",
		"Verify duplicate business partner detection",
	},
	"FI-APAR-002": {
		"Verify reconciliation account and subledger balances match",
		"Verify changes to reconciliation accounts are reflected",
		"Verify reconciliation account assignment per partner group",
		"Verify direct posting to reconciliation accounts is blocked",
	},
	"FI-APAR-003": {
		"Verify due dates follow the payment terms",
		"Verify full and partial clearing",
		"Verify switching payment methods",
		"Verify due date calculation across cut-off dates",
	},
	"FI-TAX-001": {
		"Verify standard and reduced tax rates are calculated",
		"Verify tax inclusive and exclusive entry",
		"Verify tax rounding rules",
		"Verify exempt and zero-rated transactions",
		"Verify qualified invoice requirements",
	},
	"FI-DIFF-001": {
		"Verify differences within tolerance clear automatically",
		"Verify differences above tolerance go to manual clearing",
		"Verify automatic posting to the difference account",
		"Verify currency rounding follows the setting",
	},
	"FI-DIFF-002": {
		"Verify residual items are created for partial payments",
		"Verify overpayment handling (credit memo or refund)",
		"Verify underpayment residual handling",
		"Verify bulk clearing of multiple line items",
	},
	"FI-CLOSE-001": {
		"Verify exception postings require approval",
		"Verify exception operations are written to the audit log",
		"Verify exception postings without approval are rejected",
		"Verify the audit log retention period",
		"Verify exception permissions during year-end close",
	},
	"FI-RPT-001": {
		"Verify the trial balance debits and credits match",
		"Verify the open item list shows the right line items",
		"Verify aging buckets",
		"Verify report output formats",
		"Verify scheduled monthly and weekly report runs",
	},
}

// Perspectives returns the item specific checks for id, or nil.
func Perspectives(id string) []string {
	return testPerspectives[id]
}

// TestCases lists the checks for an answered item: one per recorded answer,
// then the item specific perspectives or a description based fallback.
func TestCases(item models.ConfigItem, answers []models.Answer) []string {
	cases := make([]string, 0, len(answers)+4)
	for _, a := range answers {
		cases = append(cases, fmt.Sprintf("Verify **%s** value `%s` is applied", a.InputName, models.FormatValue(a.Value)))
	}

	if specific := Perspectives(item.ID); len(specific) > 0 {
		return append(cases, specific...)
	}
	if item.Description != "" {
		cases = append(cases, fmt.Sprintf("Verify behavior described by: %s", item.Description))
	}
	return append(cases, "Verify the related screens and functions")
}

// MigrationObject names the master data an item migrates. The catalog's
// migration_object wins; otherwise the title is matched on fixed keywords.
func MigrationObject(item models.ConfigItem) string {
	if item.MigrationObject != "" {
		return item.MigrationObject
	}

	title := item.Title
	switch {
	case strings.Contains(title, "会社"):
		return "Company code master"
	case strings.Contains(title, "勘定科目"):
		return "Chart of accounts master"
	case strings.Contains(strings.ToLower(title), "bp") || strings.Contains(title, "得意先") || strings.Contains(title, "仕入先"):
		return "Business partner master"
	case strings.Contains(title, "年度"):
		return "Fiscal year settings"
	default:
		return title
	}
}
