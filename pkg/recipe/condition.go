// SPDX-License-Identifier: MPL-2.0

package recipe

import "strings"

type (
	// Condition is a parsed "when" clause. Every clause must hold; the empty
	// condition always holds.
	Condition struct {
		raw     string
		clauses []clause
	}

	clause struct {
		kind       itemKind
		name       string
		value      string
		constraint Constraint
	}
)

// ParseCondition parses a condition such as "+openmp %apple-clang" or
// "@0.28.2". Package names are not allowed in conditions.
func ParseCondition(s string) (Condition, error) {
	c := Condition{raw: strings.TrimSpace(s)}
	for _, tok := range strings.Fields(s) {
		items, err := lexToken(tok)
		if err != nil {
			return Condition{}, &InvalidConditionError{Condition: s, Reason: err.Error()}
		}
		for _, it := range items {
			cl := clause{kind: it.kind, name: it.name, value: it.value}
			switch it.kind {
			case itemPackage:
				return Condition{}, &InvalidConditionError{Condition: s, Reason: "unexpected package name " + it.name}
			case itemVersion, itemCompiler:
				constraint, err := ParseConstraint(it.value)
				if err != nil {
					return Condition{}, &InvalidConditionError{Condition: s, Reason: err.Error()}
				}
				cl.constraint = constraint
			}
			c.clauses = append(c.clauses, cl)
		}
	}
	return c, nil
}

// String returns the condition as written.
func (c Condition) String() string { return c.raw }

// IsEmpty reports whether the condition has no clauses.
func (c Condition) IsEmpty() bool { return len(c.clauses) == 0 }

// Variants returns the variant names the condition refers to.
func (c Condition) Variants() []string {
	var names []string
	for _, cl := range c.clauses {
		switch cl.kind {
		case itemEnable, itemDisable, itemSet:
			names = append(names, cl.name)
		}
	}
	return names
}

// Holds evaluates the condition against sel.
func (c Condition) Holds(sel *Selections) bool {
	for _, cl := range c.clauses {
		if !cl.holds(sel) {
			return false
		}
	}
	return true
}

func (cl clause) holds(sel *Selections) bool {
	switch cl.kind {
	case itemEnable:
		return sel.Enabled(cl.name)
	case itemDisable:
		v, ok := sel.Value(cl.name)
		return ok && v.IsBool() && !v.Bool()
	case itemSet:
		v, ok := sel.Value(cl.name)
		if !ok {
			return false
		}
		if v.IsBool() {
			b, valid := parseBool(cl.value)
			return valid && b == v.Bool()
		}
		return v.String() == cl.value
	case itemVersion:
		return cl.constraint.Check(sel.Version)
	case itemCompiler:
		if sel.Compiler != cl.name {
			return false
		}
		if cl.constraint.IsAny() {
			return true
		}
		return sel.CompilerVersion != "" && cl.constraint.Check(sel.CompilerVersion)
	}
	return false
}
