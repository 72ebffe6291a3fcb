// SPDX-License-Identifier: MPL-2.0

package recipe

import "fmt"

// Validate checks the rules the schema cannot express. All problems are
// collected into a single *InvalidRecipeError.
func (r *Recipe) Validate() error {
	var errs []error

	if len(r.Versions) == 0 {
		errs = append(errs, fmt.Errorf("versions: at least one version is required"))
	}

	seenVersions := make(map[string]bool, len(r.Versions))
	for i, v := range r.Versions {
		if seenVersions[v.ID] {
			errs = append(errs, fmt.Errorf("versions[%d]: duplicate version %q", i, v.ID))
		}
		seenVersions[v.ID] = true

		switch {
		case v.SHA256 == "" && v.Branch == "":
			errs = append(errs, fmt.Errorf("versions[%d]: version %q needs a sha256 or a branch", i, v.ID))
		case v.SHA256 != "" && v.Branch != "":
			errs = append(errs, fmt.Errorf("versions[%d]: version %q sets both sha256 and branch", i, v.ID))
		}
		if v.IsBranch() && r.Git == "" {
			errs = append(errs, fmt.Errorf("versions[%d]: branch version %q requires a git URL", i, v.ID))
		}
		if !v.IsBranch() && r.URL == "" {
			errs = append(errs, fmt.Errorf("versions[%d]: checksum version %q requires a url", i, v.ID))
		}
	}

	seenVariants := make(map[string]bool, len(r.Variants))
	for i, v := range r.Variants {
		if seenVariants[v.Name] {
			errs = append(errs, fmt.Errorf("variants[%d]: duplicate variant %q", i, v.Name))
		}
		seenVariants[v.Name] = true

		switch d := v.Default.(type) {
		case bool:
			if len(v.Values) > 0 {
				errs = append(errs, fmt.Errorf("variants[%d]: bool variant %q cannot declare values", i, v.Name))
			}
		case string:
			if !v.Allows(d) {
				errs = append(errs, fmt.Errorf("variants[%d]: default %q of %q is not among its values", i, d, v.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("variants[%d]: default of %q must be a bool or a string", i, v.Name))
		}
	}

	for i, p := range r.Patches {
		errs = append(errs, r.checkCondition(fmt.Sprintf("patches[%d]", i), p.When)...)
	}

	for i, d := range r.Dependencies {
		if _, err := ParseConstraint(d.Constraint); err != nil {
			errs = append(errs, fmt.Errorf("depends_on[%d]: %w", i, err))
		}
		errs = append(errs, r.checkCondition(fmt.Sprintf("depends_on[%d]", i), d.When)...)
	}

	if len(errs) > 0 {
		return &InvalidRecipeError{Name: r.Name, FieldErrors: errs}
	}
	return nil
}

// checkCondition parses when and verifies every variant it names exists.
func (r *Recipe) checkCondition(field, when string) []error {
	cond, err := ParseCondition(when)
	if err != nil {
		return []error{fmt.Errorf("%s: %w", field, err)}
	}
	var errs []error
	for _, name := range cond.Variants() {
		if _, ok := r.Variant(name); !ok {
			errs = append(errs, fmt.Errorf("%s: condition %q refers to unknown variant %q", field, when, name))
		}
	}
	return errs
}
