// SPDX-License-Identifier: MPL-2.0

package recipe

// Provided is an installed package handed to a build: where it lives and,
// when known, which version it is.
type Provided struct {
	Prefix  string `json:"prefix" mapstructure:"prefix" toml:"prefix"`
	Version string `json:"version,omitempty" mapstructure:"version" toml:"version,omitempty"`
}

// ActiveDependencies returns the dependency edges whose condition holds for
// sel, in declaration order.
func (r *Recipe) ActiveDependencies(sel *Selections) []Dependency {
	var out []Dependency
	for _, d := range r.Dependencies {
		if holds(d.When, sel) {
			out = append(out, d)
		}
	}
	return out
}

// ApplicablePatches returns the patches whose condition holds for sel.
func (r *Recipe) ApplicablePatches(sel *Selections) []Patch {
	var out []Patch
	for _, p := range r.Patches {
		if holds(p.When, sel) {
			out = append(out, p)
		}
	}
	return out
}

func holds(when string, sel *Selections) bool {
	cond, err := ParseCondition(when)
	if err != nil {
		return false
	}
	return cond.Holds(sel)
}

// Check verifies a provided installation against the edge. A provided
// package without a version is accepted; the constraint cannot be checked.
func (d Dependency) Check(p Provided, ok bool) error {
	if !ok || p.Prefix == "" {
		return &UnsatisfiedDependencyError{Dependency: d.Name, Constraint: d.Constraint, Reason: "no installation prefix provided"}
	}
	if p.Version == "" {
		return nil
	}
	c, err := ParseConstraint(d.Constraint)
	if err != nil {
		return err
	}
	if !c.Check(p.Version) {
		return &UnsatisfiedDependencyError{Dependency: d.Name, Constraint: c.String(), Version: p.Version}
	}
	return nil
}
