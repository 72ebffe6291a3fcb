// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/recipekit/recipekit/internal/cmake"
	"github.com/recipekit/recipekit/pkg/recipe"
)

// ReceiptDir is the directory under the install prefix holding receipts.
const ReceiptDir = ".recipekit"

// Receipt records what was installed into a prefix and how it was built.
type Receipt struct {
	Package      string                     `toml:"package"`
	Version      string                     `toml:"version"`
	Spec         string                     `toml:"spec"`
	Prefix       string                     `toml:"prefix"`
	InstalledAt  time.Time                  `toml:"installed_at"`
	Variants     map[string]string          `toml:"variants"`
	Arguments    []string                   `toml:"arguments"`
	Defines      string                     `toml:"extension_defines"`
	Dependencies map[string]recipe.Provided `toml:"dependencies,omitempty"`
}

// Receipt describes the current build.
func (b *Builder) Receipt() Receipt {
	sel := b.cfg.Selections
	return Receipt{
		Package:      sel.Package,
		Version:      sel.Version,
		Spec:         sel.String(),
		Prefix:       b.cfg.Prefix,
		InstalledAt:  time.Now().UTC().Truncate(time.Second),
		Variants:     sel.Map(),
		Arguments:    cmake.Strings(b.Arguments()),
		Defines:      b.ExtensionDefines(),
		Dependencies: b.cfg.Dependencies,
	}
}

// ReceiptPath returns <prefix>/.recipekit/<package>.toml.
func ReceiptPath(prefix, pkg string) string {
	return filepath.Join(prefix, ReceiptDir, pkg+".toml")
}

// WriteReceipt writes r under its prefix and returns the file path.
func WriteReceipt(r Receipt) (string, error) {
	path := ReceiptPath(r.Prefix, r.Package)
	data, err := toml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create receipt directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

// ReadReceipt loads the receipt of pkg installed in prefix.
func ReadReceipt(prefix, pkg string) (Receipt, error) {
	path := ReceiptPath(prefix, pkg)
	data, err := os.ReadFile(path)
	if err != nil {
		return Receipt{}, fmt.Errorf("read receipt: %w", err)
	}
	var r Receipt
	if err := toml.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt %s: %w", path, err)
	}
	return r, nil
}
