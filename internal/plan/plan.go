// SPDX-License-Identifier: MPL-2.0

// Package plan reads HCL build plans: files of `build` blocks, each one
// configuration of the recipe to build and install, ordered by their
// `after` references.
//
//	build "cpu" {
//	  spec   = ["~kokkos", "build_type=Debug"]
//	  prefix = "${env.HOME}/opt/lightning-cpu"
//	}
//
//	build "kokkos" {
//	  prefix    = "/opt/lightning-kokkos"
//	  run_tests = true
//	  after     = ["cpu"]
//
//	  dependency "kokkos" {
//	    prefix  = "/opt/kokkos"
//	    version = "3.7.00"
//	  }
//	}
package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/recipekit/recipekit/internal/dag"
	"github.com/recipekit/recipekit/pkg/recipe"
)

// ErrInvalidPlan is wrapped by every plan parsing and validation error.
var ErrInvalidPlan = errors.New("invalid build plan")

type (
	// Plan is a parsed plan file.
	Plan struct {
		File   string
		Builds []Build
	}

	// Build is one `build` block with relative paths resolved against the
	// plan file's directory.
	Build struct {
		Name   string
		Spec   []string
		Prefix string
		Source string
		// Fetch and RunTests are nil when the block leaves them to the
		// command line and configuration.
		Fetch        *bool
		RunTests     *bool
		After        []string
		Dependencies map[string]recipe.Provided
		Range        hcl.Range
	}

	// Error carries the HCL diagnostics of a plan that failed to parse.
	Error struct {
		File  string
		Diags hcl.Diagnostics
	}

	hclFile struct {
		Builds []*hclBuild `hcl:"build,block"`
	}

	hclBuild struct {
		Name         string           `hcl:"name,label"`
		Spec         []string         `hcl:"spec,optional"`
		Prefix       string           `hcl:"prefix"`
		Source       string           `hcl:"source,optional"`
		Fetch        *bool            `hcl:"fetch,optional"`
		RunTests     *bool            `hcl:"run_tests,optional"`
		After        []string         `hcl:"after,optional"`
		Dependencies []*hclDependency `hcl:"dependency,block"`
		DefRange     hcl.Range        `hcl:",def_range"`
	}

	hclDependency struct {
		Name    string `hcl:"name,label"`
		Prefix  string `hcl:"prefix"`
		Version string `hcl:"version,optional"`
	}
)

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Diags.Error())
}

// Unwrap returns ErrInvalidPlan.
func (e *Error) Unwrap() error { return ErrInvalidPlan }

// Parse reads the plan at path. env is exposed to expressions as `env`.
func Parse(path string, env map[string]string) (*Plan, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan at %s: %w", path, err)
	}
	return ParseBytes(src, path, env)
}

// ParseBytes parses plan source. filename names the file in diagnostics and
// anchors relative paths.
func ParseBytes(src []byte, filename string, env map[string]string) (*Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &Error{File: filename, Diags: diags}
	}

	var decoded hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &decoded); diags.HasErrors() {
		return nil, &Error{File: filename, Diags: diags}
	}

	base := filepath.Dir(filename)
	p := &Plan{File: filename, Builds: make([]Build, 0, len(decoded.Builds))}
	for _, b := range decoded.Builds {
		build := Build{
			Name:     b.Name,
			Spec:     b.Spec,
			Prefix:   resolve(base, b.Prefix),
			Source:   resolve(base, b.Source),
			Fetch:    b.Fetch,
			RunTests: b.RunTests,
			After:    b.After,
			Range:    b.DefRange,
		}
		if len(b.Dependencies) > 0 {
			build.Dependencies = make(map[string]recipe.Provided, len(b.Dependencies))
		}
		for _, d := range b.Dependencies {
			if _, dup := build.Dependencies[d.Name]; dup {
				return nil, fmt.Errorf("%w: build %q declares dependency %q twice", ErrInvalidPlan, b.Name, d.Name)
			}
			build.Dependencies[d.Name] = recipe.Provided{Prefix: resolve(base, d.Prefix), Version: d.Version}
		}
		p.Builds = append(p.Builds, build)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Names lists the build names in file order.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Builds))
	for i, b := range p.Builds {
		names[i] = b.Name
	}
	return names
}

// Build looks up a build by name.
func (p *Plan) Build(name string) (Build, bool) {
	i := slices.IndexFunc(p.Builds, func(b Build) bool { return b.Name == name })
	if i < 0 {
		return Build{}, false
	}
	return p.Builds[i], true
}

// Order returns the builds so that each one follows those it names in
// `after`. Unrelated builds keep file order.
func (p *Plan) Order() ([]Build, error) {
	g := dag.New[string]()
	for _, b := range p.Builds {
		g.AddNode(b.Name)
	}
	for _, b := range p.Builds {
		for _, dep := range b.After {
			g.AddEdge(dep, b.Name)
		}
	}
	names, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	out := make([]Build, 0, len(names))
	for _, n := range names {
		b, _ := p.Build(n)
		out = append(out, b)
	}
	return out, nil
}

func (p *Plan) validate() error {
	var errs []error
	seen := make(map[string]bool, len(p.Builds))
	for _, b := range p.Builds {
		if seen[b.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate build %q", b.Range, b.Name))
		}
		seen[b.Name] = true
	}
	for _, b := range p.Builds {
		if b.Prefix == "" {
			errs = append(errs, fmt.Errorf("%s: build %q has an empty prefix", b.Range, b.Name))
		}
		for _, dep := range b.After {
			switch {
			case dep == b.Name:
				errs = append(errs, fmt.Errorf("%s: build %q runs after itself", b.Range, b.Name))
			case !seen[dep]:
				errs = append(errs, fmt.Errorf("%s: build %q runs after unknown build %q", b.Range, b.Name, dep))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, errors.Join(errs...))
	}
	return nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		vals := make(map[string]cty.Value, len(env))
		for k, v := range env {
			vals[k] = cty.StringVal(v)
		}
		envVal = cty.MapVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
