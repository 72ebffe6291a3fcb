// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Constraint is a parsed recipe version constraint.
//
// The syntax is a comma-separated list of alternatives. Each alternative is
// either a version prefix ("3.7.00" admits 3.7.0 and 3.7.0.x) or a range
// "lo:hi" with either end optional. Upper bounds admit every version they
// prefix, so ":3.24" admits 3.24.9. Non-numeric alternatives such as "master"
// only match the identical version ID.
//
// Numeric alternatives are compiled to Masterminds semver constraints.
type Constraint struct {
	raw      string
	literals []string
	semver   *semver.Constraints
}

// Any is the constraint that admits every version.
var Any = Constraint{}

// ParseConstraint parses s. The empty string yields Any.
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == ":" {
		return Any, nil
	}

	c := Constraint{raw: s}
	var clauses []string
	for _, alt := range strings.Split(s, ",") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return Constraint{}, &InvalidConstraintError{Constraint: s, Reason: "empty alternative"}
		}

		if !strings.Contains(alt, ":") {
			if _, err := versionParts(alt); err != nil {
				c.literals = append(c.literals, alt)
				continue
			}
			clause, err := prefixClause(alt)
			if err != nil {
				return Constraint{}, &InvalidConstraintError{Constraint: s, Reason: err.Error()}
			}
			clauses = append(clauses, clause)
			continue
		}

		lo, hi, _ := strings.Cut(alt, ":")
		clause, err := rangeClause(strings.TrimSpace(lo), strings.TrimSpace(hi))
		if err != nil {
			return Constraint{}, &InvalidConstraintError{Constraint: s, Reason: err.Error()}
		}
		clauses = append(clauses, clause)
	}

	if len(clauses) > 0 {
		compiled, err := semver.NewConstraint(strings.Join(clauses, " || "))
		if err != nil {
			return Constraint{}, &InvalidConstraintError{Constraint: s, Reason: err.Error()}
		}
		c.semver = compiled
	}
	return c, nil
}

// MustParseConstraint is ParseConstraint that panics on error. For tests and
// package-level tables.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the constraint as written.
func (c Constraint) String() string {
	if c.raw == "" {
		return ":"
	}
	return c.raw
}

// IsAny reports whether c admits every version.
func (c Constraint) IsAny() bool { return c.raw == "" }

// Check reports whether version satisfies c.
func (c Constraint) Check(version string) bool {
	if c.IsAny() {
		return true
	}
	for _, lit := range c.literals {
		if lit == version {
			return true
		}
	}
	if c.semver == nil {
		return false
	}
	v, err := semver.NewVersion(normalizeVersion(version))
	if err != nil {
		return false
	}
	return c.semver.Check(v)
}

// prefixClause turns "3.7.00" into ">=3.7.0, <3.7.1".
func prefixClause(v string) (string, error) {
	parts, err := versionParts(v)
	if err != nil {
		return "", err
	}
	return ">=" + joinParts(parts) + ", <" + joinParts(bump(parts)), nil
}

// rangeClause turns "3.21:3.24" into ">=3.21.0, <3.25.0".
func rangeClause(lo, hi string) (string, error) {
	var clause []string
	if lo != "" {
		parts, err := versionParts(lo)
		if err != nil {
			return "", err
		}
		clause = append(clause, ">="+joinParts(parts))
	}
	if hi != "" {
		parts, err := versionParts(hi)
		if err != nil {
			return "", err
		}
		clause = append(clause, "<"+joinParts(bump(parts)))
	}
	if len(clause) == 0 {
		return ">=0.0.0", nil
	}
	return strings.Join(clause, ", "), nil
}

// versionParts splits a dotted numeric version. Only the first three
// components take part in semver comparison.
func versionParts(v string) ([]uint64, error) {
	fields := strings.Split(strings.TrimPrefix(v, "v"), ".")
	if len(fields) > 3 {
		fields = fields[:3]
	}
	parts := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric version component %q in %q", f, v)
		}
		parts = append(parts, n)
	}
	return parts, nil
}

func bump(parts []uint64) []uint64 {
	out := append([]uint64(nil), parts...)
	out[len(out)-1]++
	return out
}

func joinParts(parts []uint64) string {
	full := [3]uint64{}
	copy(full[:], parts)
	return strconv.FormatUint(full[0], 10) + "." + strconv.FormatUint(full[1], 10) + "." + strconv.FormatUint(full[2], 10)
}

// normalizeVersion rewrites "3.7.00" as "3.7.0" and drops components past the
// third so Masterminds accepts it.
func normalizeVersion(v string) string {
	parts, err := versionParts(v)
	if err != nil {
		return v
	}
	return joinParts(parts)
}

// compareVersions orders two version IDs numerically. Non-numeric IDs sort
// before numeric ones and compare lexically among themselves.
func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(normalizeVersion(a))
	vb, errB := semver.NewVersion(normalizeVersion(b))
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}
