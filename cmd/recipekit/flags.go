// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/lightning"
	"github.com/recipekit/recipekit/pkg/recipe"
)

// ErrInvalidDependencyFlag is wrapped by every malformed --dep value.
var ErrInvalidDependencyFlag = errors.New("invalid --dep value")

// addDependencyFlag registers the repeatable --dep flag.
func addDependencyFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringArrayVar(target, "dep", nil, "provide a dependency as name=prefix[@version] (repeatable)")
}

// parseDependencyFlags parses name=prefix[@version] values. A later value
// for the same name wins.
func parseDependencyFlags(values []string) (lightning.Prefixes, error) {
	deps := make(lightning.Prefixes, len(values))
	for _, v := range values {
		name, rest, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || rest == "" {
			return nil, fmt.Errorf("%w %q: want name=prefix[@version]", ErrInvalidDependencyFlag, v)
		}

		prefix, version := rest, ""
		if i := strings.LastIndex(rest, "@"); i >= 0 {
			prefix, version = rest[:i], rest[i+1:]
		}
		if prefix == "" {
			return nil, fmt.Errorf("%w %q: empty prefix", ErrInvalidDependencyFlag, v)
		}
		if abs, err := filepath.Abs(prefix); err == nil {
			prefix = abs
		}
		deps[name] = recipe.Provided{Prefix: prefix, Version: version}
	}
	return deps, nil
}
