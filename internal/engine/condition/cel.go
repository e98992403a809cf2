// SPDX-License-Identifier: Apache-2.0

// Package condition evaluates CEL predicates over project attributes.
package condition

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// ProjectVar is the variable predicates use to reach project attributes.
const ProjectVar = "project"

// CELEvaluator compiles and evaluates predicates. Compiled programs are cached
// per expression, so an evaluator can be shared between goroutines.
type CELEvaluator struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewCELEvaluator creates a new CEL evaluator
func NewCELEvaluator() (*CELEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(ProjectVar, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	return &CELEvaluator{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile parses and type-checks expression, returning a cached program.
func (e *CELEvaluator) Compile(expression string) (cel.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prg, ok := e.programs[expression]; ok {
		return prg, nil
	}

	ast, issues := e.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error parsing expression: %w", issues.Err())
	}

	checked, issues := e.env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error type-checking expression: %w", issues.Err())
	}

	prg, err := e.env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("error compiling expression: %w", err)
	}

	e.programs[expression] = prg
	return prg, nil
}

// EvaluateExpression evaluates expression with project bound to the given attributes.
func (e *CELEvaluator) EvaluateExpression(expression string, project map[string]interface{}) (bool, error) {
	prg, err := e.Compile(expression)
	if err != nil {
		return false, err
	}

	result, _, err := prg.Eval(map[string]interface{}{ProjectVar: project})
	if err != nil {
		return false, fmt.Errorf("error evaluating expression: %w", err)
	}

	if result.Type() != types.BoolType {
		return false, fmt.Errorf("expression did not evaluate to a boolean")
	}

	return result.Value().(bool), nil
}
