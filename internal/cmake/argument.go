// SPDX-License-Identifier: MPL-2.0

package cmake

import (
	"slices"
	"strings"
)

const (
	// TypeBool is a BOOL cache entry (ON/OFF).
	TypeBool Type = "BOOL"
	// TypeString is a STRING cache entry.
	TypeString Type = "STRING"
	// TypeUntyped writes -DNAME=VALUE.
	TypeUntyped Type = ""
)

type (
	// Type is a CMake cache entry type.
	Type string

	// Argument is one -D cache definition.
	Argument struct {
		Name  string `toml:"name"`
		Type  Type   `toml:"type,omitempty"`
		Value string `toml:"value"`
	}
)

// Define returns the definition without the leading "-D", e.g.
// "ENABLE_BLAS:BOOL=ON".
func (a Argument) Define() string {
	if a.Type == TypeUntyped {
		return a.Name + "=" + a.Value
	}
	return a.Name + ":" + string(a.Type) + "=" + a.Value
}

// String renders the command-line form, e.g. "-DENABLE_BLAS:BOOL=ON".
func (a Argument) String() string { return "-D" + a.Define() }

// Bool returns a BOOL argument with value ON or OFF.
func Bool(name string, on bool) Argument {
	return Argument{Name: name, Type: TypeBool, Value: onOff(on)}
}

// String returns a STRING argument.
func String(name, value string) Argument {
	return Argument{Name: name, Type: TypeString, Value: value}
}

// Untyped returns a -DNAME=VALUE argument.
func Untyped(name, value string) Argument {
	return Argument{Name: name, Value: value}
}

// Strings renders every argument in command-line form.
func Strings(args []Argument) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.String()
	}
	return out
}

// JoinDefines joins the -D-less definitions with ";", skipping any definition
// listed in exclude.
func JoinDefines(args []Argument, exclude ...string) string {
	var kept []string
	for _, a := range args {
		d := a.Define()
		if slices.Contains(exclude, d) {
			continue
		}
		kept = append(kept, d)
	}
	return strings.Join(kept, ";")
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
