// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"slices"
	"strings"
)

// MergeEnv layers overrides on top of base. Both are KEY=VALUE lists; a key
// in overrides replaces the same key in base, and order of first appearance
// is kept.
func MergeEnv(base, overrides []string) []string {
	if len(overrides) == 0 {
		return base
	}
	out := slices.Clone(base)
	index := make(map[string]int, len(out))
	for i, kv := range out {
		name, _, _ := strings.Cut(kv, "=")
		index[name] = i
	}
	for _, kv := range overrides {
		name, _, _ := strings.Cut(kv, "=")
		if i, ok := index[name]; ok {
			out[i] = kv
			continue
		}
		index[name] = len(out)
		out = append(out, kv)
	}
	return out
}
