// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/recipekit/recipekit/pkg/cueutil"
)

//go:embed recipe_schema.cue
var recipeSchema string

// Parse reads and validates the recipe at path.
func Parse(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe at %s: %w", path, err)
	}

	r, err := ParseBytes(data, path)
	if err != nil {
		return nil, err
	}
	r.FilePath = path
	return r, nil
}

// ParseBytes decodes a recipe from CUE source. name is used in error messages.
func ParseBytes(data []byte, name string) (*Recipe, error) {
	result, err := cueutil.ParseAndDecodeString[Recipe](recipeSchema, data, "#Recipe", cueutil.WithFilename(name))
	if err != nil {
		return nil, err
	}

	r := result.Value
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
