// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	goerrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kusari-oss/imgquest/cmd/imgquest/cmd/app"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/schema"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/kusari-oss/imgquest/internal/prompt"
	"github.com/kusari-oss/imgquest/internal/wizard"
	"github.com/spf13/cobra"
)

// NewWizardCmd creates the wizard command
func NewWizardCmd(a *app.App) *cobra.Command {
	wizardCmd := &cobra.Command{
		Use:   "wizard",
		Short: "Answer configuration questions",
		Long: `Answer configuration questions in priority order. Each answer is recorded as a
decision and unblocks the items that depend on it.`,
	}

	wizardCmd.AddCommand(newNextCmd(a))
	wizardCmd.AddCommand(newQuestionCmd(a))
	wizardCmd.AddCommand(newAnswersCmd(a))
	wizardCmd.AddCommand(newAnswerCmd(a))
	wizardCmd.AddCommand(newRunCmd(a))
	wizardCmd.AddCommand(newProgressCmd(a))
	wizardCmd.AddCommand(newDecisionsCmd(a))

	return wizardCmd
}

func newNextCmd(a *app.App) *cobra.Command {
	var limit int

	nextCmd := &cobra.Command{
		Use:   "next <project-id>",
		Short: "Show the next questions to answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.Config.QuestionLimit
			}
			questions, err := a.Service.NextQuestions(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), questions); ok || err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No more questions. Generate the artifacts with 'imgquest artifact generate'.")
				return nil
			}
			for i, q := range questions {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printQuestion(cmd.OutOrStdout(), a, q)
			}
			return nil
		},
	}

	nextCmd.Flags().IntVarP(&limit, "limit", "l", 1, "maximum number of questions (default from config)")
	return nextCmd
}

func newQuestionCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "question <project-id> <item-id>",
		Short: "Show the question for one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.Service.Question(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), q); ok || err != nil {
				return err
			}
			printQuestion(cmd.OutOrStdout(), a, *q)
			return nil
		},
	}
}

func newAnswersCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "answers <project-id> <item-id>",
		Short: "Show the recorded answers for one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := a.Service.Answers(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), values); ok || err != nil {
				return err
			}
			if len(values) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No answers recorded for %s\n", args[1])
				return nil
			}
			names := make([]string, 0, len(values))
			for name := range values {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, models.FormatValue(values[name]))
			}
			return nil
		},
	}
}

func newAnswerCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <project-id> <item-id> <name=value>...",
		Short: "Record answers for one item",
		Long: `Record answers for one item. Values are converted to the input's type; a
multiselect takes a comma separated list or a JSON array.

Example:
  imgquest wizard answer 3f2c... FI-CORE-002 fiscal_year_variant=K4 periods=12`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, itemID := args[0], args[1]
			item, ok := a.Service.Catalog().Get(itemID)
			if !ok {
				return errors.NewItemNotFound(itemID)
			}

			raw, err := schema.ParseAssignments(args[2:])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidAnswer, "invalid answer", err)
			}
			values, err := schema.CoerceValues(item, raw)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidAnswer, "invalid answer", err)
			}

			result, err := a.Service.SubmitAnswer(cmd.Context(), id, itemID, values)
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), result); ok || err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), a, itemID, result)
			return nil
		},
	}
}

func newRunCmd(a *app.App) *cobra.Command {
	var maxAnswers int

	runCmd := &cobra.Command{
		Use:   "run <project-id>",
		Short: "Answer questions interactively until none are left",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, isForm := a.Asker.(prompt.Form); isForm && !prompt.ShouldPrompt() {
				return fmt.Errorf("wizard run needs an interactive terminal; use 'imgquest wizard answer' instead")
			}

			out := cmd.OutOrStdout()
			answered := 0
			for maxAnswers <= 0 || answered < maxAnswers {
				q, err := a.Service.NextQuestion(cmd.Context(), id)
				if errors.HasCode(err, errors.ErrCodeNoMoreQuestions) {
					fmt.Fprintln(out, a.Styles.Success.Render("All questions answered."))
					break
				}
				if err != nil {
					return err
				}

				previous, err := a.Service.Answers(cmd.Context(), id, q.ConfigItemID)
				if err != nil {
					return err
				}
				values, err := a.Asker.Ask(*q, previous)
				if goerrors.Is(err, prompt.ErrAborted) {
					fmt.Fprintln(out, "Stopped. Run the wizard again to continue.")
					return nil
				}
				if err != nil {
					return err
				}

				result, err := a.Service.SubmitAnswer(cmd.Context(), id, q.ConfigItemID, values)
				if err != nil {
					return err
				}
				printResult(out, a, q.ConfigItemID, result)
				answered++
			}

			progress, err := a.Service.Progress(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Answered %d question(s) this session. Progress: %d/%d (%.1f%%)\n",
				answered, progress.Answered, progress.Total, progress.Percentage)
			return nil
		},
	}

	runCmd.Flags().IntVar(&maxAnswers, "max", 0, "stop after this many answers (0 means no limit)")
	return runCmd
}

func newProgressCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <project-id>",
		Short: "Show answered and remaining questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Service.Progress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), p); ok || err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %.1f%%\n", a.Styles.Title.Render("Progress"), bar(p.Percentage, 30), p.Percentage)
			fmt.Fprintf(cmd.OutOrStdout(), "Answered %d of %d (%d ready, %d blocked, %d done)\n",
				p.Answered, p.Total, p.Ready, p.Blocked, p.Done)
			return nil
		},
	}
}

func newDecisionsCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "decisions <project-id>",
		Short: "List recorded decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decisions, err := a.Service.Decisions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := a.PrintStructured(cmd.OutOrStdout(), decisions); ok || err != nil {
				return err
			}
			if len(decisions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No decisions recorded yet.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "DATE\tITEM\tSTATUS\tRATIONALE")
			for _, d := range decisions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.CreatedAt.Format("2006-01-02 15:04"), d.ConfigItemID, d.Status, d.Rationale)
			}
			return w.Flush()
		},
	}
}

func printQuestion(out io.Writer, a *app.App, q wizard.Question) {
	fmt.Fprintf(out, "%s %s %s\n",
		a.Styles.Muted.Render(fmt.Sprintf("[%d/%d]", q.Progress, q.Total)),
		a.Styles.Key.Render(q.ConfigItemID),
		a.Styles.Title.Render(q.Title))
	fmt.Fprintf(out, "  Priority: %s\n", q.Priority)
	if q.Description != "" {
		fmt.Fprintf(out, "  %s\n", q.Description)
	}
	if q.Why != "" {
		fmt.Fprintf(out, "  Why: %s\n", q.Why)
	}
	for _, in := range q.Inputs {
		line := fmt.Sprintf("  - %s (%s): %s", in.Name, in.Type, in.Label)
		if len(in.Options) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(in.Options, ", "))
		}
		if in.Recommended != nil {
			line += fmt.Sprintf(" recommended: %s", models.FormatValue(in.Recommended))
		}
		fmt.Fprintln(out, line)
	}
}

func printResult(out io.Writer, a *app.App, itemID string, r *wizard.SubmitResult) {
	fmt.Fprintf(out, "%s %d answer(s) for %s (decision %s)\n",
		a.Styles.Success.Render("Recorded"), r.AnswersCount, itemID, r.DecisionID)
	for _, c := range statusChanges(r.Changes) {
		fmt.Fprintf(out, "  %s: %s -> %s\n", c.ItemID, c.FromStatus, a.Styles.Status(c.ToStatus))
	}
	for _, added := range r.Added {
		fmt.Fprintf(out, "  added %s to the backlog\n", added)
	}
}

func statusChanges(changes []engine.Change) []engine.Change {
	out := make([]engine.Change, 0, len(changes))
	for _, c := range changes {
		if c.StatusChanged() {
			out = append(out, c)
		}
	}
	return out
}

func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
