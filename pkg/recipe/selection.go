// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"slices"
	"strings"
)

// Selections is the resolved, immutable view of a build request: one value
// per declared variant plus the chosen version and compiler.
type Selections struct {
	Package         string
	Version         string
	Compiler        string
	CompilerVersion string

	values map[string]Value
	order  []string
}

// Defaults resolves the empty request: every variant at its default and the
// preferred version.
func Defaults(r *Recipe) *Selections {
	sel, err := Resolve(r, Request{})
	if err != nil {
		// An empty request touches only recipe data, which Validate has checked.
		panic(err)
	}
	return sel
}

// Resolve applies req on top of the recipe's defaults. Settings are applied in
// order, so a later setting of the same variant wins.
func Resolve(r *Recipe, req Request) (*Selections, error) {
	if req.Package != "" && req.Package != r.Name {
		return nil, &InvalidSpecError{Token: req.Package, Reason: "recipe describes " + r.Name}
	}

	sel := &Selections{
		Package:         r.Name,
		Compiler:        req.Compiler,
		CompilerVersion: req.CompilerVersion,
		values:          make(map[string]Value, len(r.Variants)),
		order:           make([]string, 0, len(r.Variants)),
	}

	for _, v := range r.Variants {
		sel.values[v.Name] = v.DefaultValue()
		sel.order = append(sel.order, v.Name)
	}

	for _, s := range req.Settings {
		variant, ok := r.Variant(s.Name)
		if !ok {
			return nil, &UnknownVariantError{Package: r.Name, Variant: s.Name}
		}
		value, err := settingValue(variant, s)
		if err != nil {
			return nil, err
		}
		sel.values[s.Name] = value
	}

	if req.Version == "" {
		sel.Version = r.PreferredVersion().ID
	} else {
		if _, ok := r.Version(req.Version); !ok {
			return nil, &UnknownVersionError{Package: r.Name, Version: req.Version}
		}
		sel.Version = req.Version
	}

	return sel, nil
}

func settingValue(v Variant, s Setting) (Value, error) {
	if v.IsBool() {
		b, ok := parseBool(s.Value)
		if !ok {
			return Value{}, &InvalidVariantValueError{Variant: v.Name, Value: s.Value, Allowed: []string{"true", "false"}}
		}
		return BoolValue(b), nil
	}
	if s.Toggle {
		return Value{}, &InvalidVariantValueError{Variant: v.Name, Value: s.Value, Allowed: v.Values}
	}
	if !v.Allows(s.Value) {
		return Value{}, &InvalidVariantValueError{Variant: v.Name, Value: s.Value, Allowed: v.Values}
	}
	return StringValue(s.Value), nil
}

// Value returns the resolved value of a variant.
func (s *Selections) Value(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Enabled reports whether a bool variant is on. Unknown and non-bool variants
// are never enabled.
func (s *Selections) Enabled(name string) bool {
	v, ok := s.values[name]
	return ok && v.Bool()
}

// Names returns variant names in declaration order.
func (s *Selections) Names() []string {
	return slices.Clone(s.order)
}

// Map returns every variant value as a string, keyed by name.
func (s *Selections) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v.String()
	}
	return out
}

// String renders the selections in spec form, e.g.
// "pkg@1.0+blas~kokkos build_type=Release %gcc".
func (s *Selections) String() string {
	var sb strings.Builder
	sb.WriteString(s.Package + "@" + s.Version)
	var assigned []string
	for _, name := range s.order {
		v := s.values[name]
		switch {
		case v.IsBool() && v.Bool():
			sb.WriteString("+" + name)
		case v.IsBool():
			sb.WriteString("~" + name)
		default:
			assigned = append(assigned, name+"="+v.String())
		}
	}
	for _, a := range assigned {
		sb.WriteString(" " + a)
	}
	if s.Compiler != "" {
		sb.WriteString(" %" + s.Compiler)
		if s.CompilerVersion != "" {
			sb.WriteString("@" + s.CompilerVersion)
		}
	}
	return sb.String()
}
