// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"slices"
	"strings"
)

// Dependency types.
const (
	DepBuild DependencyType = "build"
	DepRun   DependencyType = "run"
	DepLink  DependencyType = "link"
	DepTest  DependencyType = "test"
)

// defaultDependencyTypes applies when a dependency declares no types.
var defaultDependencyTypes = []DependencyType{DepBuild, DepLink}

type (
	// DependencyType scopes a dependency edge to a phase of the package's life.
	DependencyType string

	// Recipe is the static descriptor of a package.
	Recipe struct {
		Name         string       `json:"name"`
		Homepage     string       `json:"homepage,omitempty"`
		URL          string       `json:"url,omitempty"`
		Git          string       `json:"git,omitempty"`
		Maintainers  []string     `json:"maintainers,omitempty"`
		Extends      string       `json:"extends,omitempty"`
		Versions     []Version    `json:"versions"`
		Patches      []Patch      `json:"patches,omitempty"`
		Variants     []Variant    `json:"variants,omitempty"`
		Dependencies []Dependency `json:"depends_on,omitempty"`

		// FilePath is where the recipe was read from. Empty for embedded recipes.
		FilePath string `json:"-"`
	}

	// Version is one fetchable release: a checksummed tarball or a git branch.
	Version struct {
		ID         string `json:"id"`
		SHA256     string `json:"sha256,omitempty"`
		Branch     string `json:"branch,omitempty"`
		Deprecated bool   `json:"deprecated,omitempty"`
	}

	// Patch is a file applied to the staged source before configure.
	Patch struct {
		File   string `json:"file"`
		When   string `json:"when,omitempty"`
		SHA256 string `json:"sha256"`
	}

	// Variant is a named build option.
	Variant struct {
		Name        string   `json:"name"`
		Default     any      `json:"default"`
		Description string   `json:"description,omitempty"`
		Values      []string `json:"values,omitempty"`
	}

	// Dependency is an edge to another package.
	Dependency struct {
		Name       string           `json:"name"`
		Constraint string           `json:"constraint,omitempty"`
		Types      []DependencyType `json:"types,omitempty"`
		When       string           `json:"when,omitempty"`
	}
)

// IsBranch reports whether the version tracks a git branch.
func (v Version) IsBranch() bool { return v.Branch != "" }

// IsBool reports whether the variant is an on/off switch.
func (v Variant) IsBool() bool {
	_, ok := v.Default.(bool)
	return ok && len(v.Values) == 0
}

// DefaultValue returns the declared default as a Value.
func (v Variant) DefaultValue() Value {
	switch d := v.Default.(type) {
	case bool:
		return BoolValue(d)
	case string:
		return StringValue(d)
	}
	return Value{}
}

// Allows reports whether value is legal for an enumerated variant. Variants
// without a value set accept any string.
func (v Variant) Allows(value string) bool {
	return len(v.Values) == 0 || slices.Contains(v.Values, value)
}

// TypeSet returns the declared types, or build+link when none were declared.
func (d Dependency) TypeSet() []DependencyType {
	if len(d.Types) == 0 {
		return defaultDependencyTypes
	}
	return d.Types
}

// HasType reports whether the edge applies to phase t.
func (d Dependency) HasType(t DependencyType) bool {
	return slices.Contains(d.TypeSet(), t)
}

// TypeString renders the types as "build,run".
func (d Dependency) TypeString() string {
	types := d.TypeSet()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return strings.Join(out, ",")
}

// Variant looks up a variant by name.
func (r *Recipe) Variant(name string) (Variant, bool) {
	for _, v := range r.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Version looks up a version by ID.
func (r *Recipe) Version(id string) (Version, bool) {
	for _, v := range r.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return Version{}, false
}

// PreferredVersion is the highest non-deprecated checksummed version. Branch
// versions are only used when requested by name. If every release is
// deprecated the highest deprecated one is returned.
func (r *Recipe) PreferredVersion() Version {
	var best, fallback *Version
	for i := range r.Versions {
		v := &r.Versions[i]
		if v.IsBranch() {
			continue
		}
		if fallback == nil || compareVersions(v.ID, fallback.ID) > 0 {
			fallback = v
		}
		if v.Deprecated {
			continue
		}
		if best == nil || compareVersions(v.ID, best.ID) > 0 {
			best = v
		}
	}
	switch {
	case best != nil:
		return *best
	case fallback != nil:
		return *fallback
	}
	return r.Versions[0]
}

// URLFor returns the tarball URL of version id, substituting id for the
// version embedded in the recipe's URL template.
func (r *Recipe) URLFor(id string) string {
	for _, v := range r.Versions {
		if v.IsBranch() || v.ID == id {
			continue
		}
		if strings.Contains(r.URL, v.ID) {
			return strings.ReplaceAll(r.URL, v.ID, id)
		}
	}
	return r.URL
}
