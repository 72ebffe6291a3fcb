// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	"errors"
	"slices"

	"github.com/recipekit/recipekit/pkg/recipe"
)

// Dependencies whose prefix is written into the CMake arguments must be
// provided explicitly. The rest are found on PATH when not provided.
var prefixRequired = []string{kokkosDep, kokkosKernelsDep}

// DependencyStatus is the outcome of checking one active dependency edge.
type DependencyStatus struct {
	Dependency recipe.Dependency
	Provided   recipe.Provided
	Found      bool
	Err        error
}

// CheckDependencies evaluates every dependency edge active for sel against
// deps, in declaration order.
func CheckDependencies(r *recipe.Recipe, sel *recipe.Selections, deps Prefixes) []DependencyStatus {
	active := r.ActiveDependencies(sel)
	out := make([]DependencyStatus, 0, len(active))
	for _, d := range active {
		p, found := deps[d.Name]
		st := DependencyStatus{Dependency: d, Provided: p, Found: found}
		if found || slices.Contains(prefixRequired, d.Name) {
			st.Err = d.Check(p, found)
		}
		out = append(out, st)
	}
	return out
}

// VerifyDependencies is CheckDependencies folded into one error.
func VerifyDependencies(r *recipe.Recipe, sel *recipe.Selections, deps Prefixes) error {
	var errs []error
	for _, st := range CheckDependencies(r, sel, deps) {
		if st.Err != nil {
			errs = append(errs, st.Err)
		}
	}
	return errors.Join(errs...)
}
