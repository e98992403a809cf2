// SPDX-License-Identifier: Apache-2.0

// Package prompt asks wizard questions interactively with huh forms.
package prompt

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/schema"
	"github.com/kusari-oss/imgquest/internal/wizard"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = huh.ErrUserAborted

// Asker collects answer values for one question.
type Asker interface {
	Ask(q wizard.Question, previous map[string]interface{}) (map[string]interface{}, error)
}

// Form asks questions through a huh form.
type Form struct {
	Accessible bool
}

var _ Asker = Form{}

// Ask renders one field per input, prefilled with previous values or the
// input's recommended and default values, and returns the typed answers.
func (f Form) Ask(q wizard.Question, previous map[string]interface{}) (map[string]interface{}, error) {
	bindings := Bind(q.Inputs, previous)
	if len(bindings) == 0 {
		return nil, fmt.Errorf("question %s has no inputs", q.ConfigItemID)
	}

	fields := make([]huh.Field, len(bindings))
	for i, b := range bindings {
		fields[i] = b.field()
	}

	description := q.Description
	if q.Why != "" {
		description = strings.TrimSpace(description + "\n\n" + q.Why)
	}
	form := huh.NewForm(
		huh.NewGroup(fields...).
			Title(fmt.Sprintf("[%s] %s (%d/%d)", q.Priority, q.Title, q.Progress, q.Total)).
			Description(description),
	).WithAccessible(f.Accessible)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return Values(q, bindings)
}

// Binding holds the editable value of one input while a form runs.
type Binding struct {
	Def     models.InputDef
	Text    string
	Choices []string
	Flag    bool
}

// Bind prepares one binding per input. A previous answer wins over the
// recommended value, which wins over the default.
func Bind(inputs []models.InputDef, previous map[string]interface{}) []*Binding {
	bindings := make([]*Binding, 0, len(inputs))
	for _, in := range inputs {
		b := &Binding{Def: in}
		initial, ok := previous[in.Name]
		if !ok || initial == nil {
			initial = in.Recommended
		}
		if initial == nil {
			initial = in.Default
		}
		b.set(initial)
		bindings = append(bindings, b)
	}
	return bindings
}

func (b *Binding) set(v interface{}) {
	if v == nil {
		return
	}
	switch strings.ToLower(b.Def.Type) {
	case schema.TypeMultiSelect:
		switch list := v.(type) {
		case []interface{}:
			for _, item := range list {
				b.Choices = append(b.Choices, models.FormatValue(item))
			}
		case []string:
			b.Choices = append(b.Choices, list...)
		default:
			b.Choices = []string{models.FormatValue(v)}
		}
	case schema.TypeBoolean:
		switch val := v.(type) {
		case bool:
			b.Flag = val
		default:
			b.Flag, _ = strconv.ParseBool(models.FormatValue(v))
		}
	default:
		b.Text = models.FormatValue(v)
	}
}

// Raw returns the binding's value in the text form CoerceValues accepts.
func (b *Binding) Raw() string {
	switch strings.ToLower(b.Def.Type) {
	case schema.TypeMultiSelect:
		return strings.Join(b.Choices, ",")
	case schema.TypeBoolean:
		return strconv.FormatBool(b.Flag)
	default:
		return b.Text
	}
}

func (b *Binding) title() string {
	if b.Def.Label != "" {
		return b.Def.Label
	}
	return b.Def.Name
}

func (b *Binding) options() []huh.Option[string] {
	opts := make([]huh.Option[string], len(b.Def.Options))
	for i, o := range b.Def.Options {
		label := o
		if l, ok := b.Def.OptionLabels[o]; ok && l != "" {
			label = l
		}
		opts[i] = huh.NewOption(label, o)
	}
	return opts
}

func (b *Binding) field() huh.Field {
	switch strings.ToLower(b.Def.Type) {
	case schema.TypeSelect:
		return huh.NewSelect[string]().
			Key(b.Def.Name).
			Title(b.title()).
			Options(b.options()...).
			Value(&b.Text)
	case schema.TypeMultiSelect:
		return huh.NewMultiSelect[string]().
			Key(b.Def.Name).
			Title(b.title()).
			Options(b.options()...).
			Value(&b.Choices)
	case schema.TypeBoolean:
		return huh.NewConfirm().
			Key(b.Def.Name).
			Title(b.title()).
			Affirmative("Yes").
			Negative("No").
			Value(&b.Flag)
	case schema.TypeNumber:
		return huh.NewInput().
			Key(b.Def.Name).
			Title(b.title()).
			Value(&b.Text).
			Validate(func(s string) error {
				if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
					return fmt.Errorf("enter a number")
				}
				return nil
			})
	default:
		return huh.NewInput().
			Key(b.Def.Name).
			Title(b.title()).
			Value(&b.Text)
	}
}

// Values converts the bindings into typed answers for q. Empty text inputs
// are left out.
func Values(q wizard.Question, bindings []*Binding) (map[string]interface{}, error) {
	raw := make(map[string]string, len(bindings))
	for _, b := range bindings {
		value := b.Raw()
		if strings.TrimSpace(value) == "" && strings.ToLower(b.Def.Type) != schema.TypeMultiSelect {
			continue
		}
		raw[b.Def.Name] = value
	}
	return schema.CoerceValues(models.ConfigItem{ID: q.ConfigItemID, Inputs: q.Inputs}, raw)
}

// Confirm displays a yes/no confirmation prompt.
func Confirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt reports whether forms can be shown: never under CI, and only
// when stdin is a terminal.
func ShouldPrompt() bool {
	for _, env := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		if os.Getenv(env) != "" {
			return false
		}
	}
	return IsInteractive()
}
