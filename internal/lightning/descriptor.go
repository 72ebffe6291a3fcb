// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	_ "embed"
	"sync"

	"github.com/recipekit/recipekit/pkg/recipe"
)

const (
	// PackageName is the name of the embedded recipe.
	PackageName = "py-pennylane-lightning"
	// TestRunnerName is the C++ test executable installed under <prefix>/bin.
	TestRunnerName = "pennylane_lightning_test_runner"
)

//go:embed package.cue
var descriptor []byte

var loadDescriptor = sync.OnceValues(func() (*recipe.Recipe, error) {
	return recipe.ParseBytes(descriptor, "package.cue")
})

// Recipe returns the embedded descriptor. Callers must not modify it.
func Recipe() (*recipe.Recipe, error) {
	return loadDescriptor()
}

// Descriptor returns the embedded CUE source.
func Descriptor() []byte {
	return append([]byte(nil), descriptor...)
}
