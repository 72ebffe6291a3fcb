// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"fmt"

	"github.com/recipekit/recipekit/internal/dag"
)

type (
	// Step names a node of a Pipeline.
	Step string

	// StepFunc is the body of a step.
	StepFunc func(ctx context.Context) error

	// Pipeline runs named steps in dependency order. Hooks are steps that
	// declare the step they run after.
	Pipeline struct {
		graph *dag.Graph[Step]
		funcs map[Step]StepFunc
	}
)

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{graph: dag.New[Step](), funcs: make(map[Step]StepFunc)}
}

// Add registers step to run after every step in after. Registering the same
// step twice replaces its body and adds the new edges.
func (p *Pipeline) Add(step Step, fn StepFunc, after ...Step) {
	p.graph.AddNode(step)
	p.funcs[step] = fn
	for _, a := range after {
		p.graph.AddEdge(a, step)
	}
}

// Order returns the execution order.
func (p *Pipeline) Order() ([]Step, error) {
	order, err := p.graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	for _, s := range order {
		if p.funcs[s] == nil {
			return nil, fmt.Errorf("step %q is referenced but never added", s)
		}
	}
	return order, nil
}

// Run executes every step in order and stops at the first error.
func (p *Pipeline) Run(ctx context.Context) error {
	order, err := p.Order()
	if err != nil {
		return err
	}
	for _, s := range order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		if err := p.funcs[s](ctx); err != nil {
			return err
		}
	}
	return nil
}
