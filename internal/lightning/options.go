// SPDX-License-Identifier: MPL-2.0

package lightning

import (
	"errors"
	"fmt"
	"slices"

	"github.com/recipekit/recipekit/pkg/recipe"
)

const (
	// Unset marks a variant the selections do not declare.
	Unset Toggle = iota
	Off
	On
)

const (
	BuildDebug          BuildType = "Debug"
	BuildRelease        BuildType = "Release"
	BuildRelWithDebInfo BuildType = "RelWithDebInfo"
	BuildMinSizeRel     BuildType = "MinSizeRel"
)

// ErrInvalidBuildType is wrapped by InvalidBuildTypeError.
var ErrInvalidBuildType = errors.New("invalid build type")

var buildTypes = []BuildType{BuildDebug, BuildRelease, BuildRelWithDebInfo, BuildMinSizeRel}

type (
	// Toggle is the value of an on/off variant.
	Toggle uint8

	// BuildType is the CMake build type.
	BuildType string

	// InvalidBuildTypeError is returned for a build type outside the
	// CMake standard four.
	InvalidBuildTypeError struct {
		Value BuildType
	}

	// Options is the typed view of the selections the build reads. An Unset
	// field or an empty BuildType contributes no flag.
	Options struct {
		BLAS          Toggle
		Dispatcher    Toggle
		Kokkos        Toggle
		OpenMP        Toggle
		Native        Toggle
		Verbose       Toggle
		CPPTests      Toggle
		CPPBenchmarks Toggle
		BuildType     BuildType
	}
)

// ToggleOf returns On or Off.
func ToggleOf(b bool) Toggle {
	if b {
		return On
	}
	return Off
}

// Enabled reports whether t is On.
func (t Toggle) Enabled() bool { return t == On }

func (t Toggle) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unset"
	}
}

// Error implements the error interface.
func (e *InvalidBuildTypeError) Error() string {
	return fmt.Sprintf("invalid build type %q (valid: Debug, Release, RelWithDebInfo, MinSizeRel)", e.Value)
}

// Unwrap returns ErrInvalidBuildType.
func (e *InvalidBuildTypeError) Unwrap() error { return ErrInvalidBuildType }

// IsValid returns whether the build type is one of the four CMake build
// types, and a list of validation errors if it is not. The empty value is valid.
func (b BuildType) IsValid() (bool, []error) {
	if b == "" || slices.Contains(buildTypes, b) {
		return true, nil
	}
	return false, []error{&InvalidBuildTypeError{Value: b}}
}

// OptionsFrom reads the variants the build uses out of sel.
func OptionsFrom(sel *recipe.Selections) (Options, error) {
	opts := Options{
		BLAS:          toggle(sel, "blas"),
		Dispatcher:    toggle(sel, "dispatcher"),
		Kokkos:        toggle(sel, "kokkos"),
		OpenMP:        toggle(sel, "openmp"),
		Native:        toggle(sel, "native"),
		Verbose:       toggle(sel, "verbose"),
		CPPTests:      toggle(sel, "cpptests"),
		CPPBenchmarks: toggle(sel, "cppbenchmarks"),
	}
	if v, ok := sel.Value("build_type"); ok {
		opts.BuildType = BuildType(v.String())
	}
	if ok, errs := opts.BuildType.IsValid(); !ok {
		return Options{}, errs[0]
	}
	return opts, nil
}

func toggle(sel *recipe.Selections, name string) Toggle {
	v, ok := sel.Value(name)
	if !ok || !v.IsBool() {
		return Unset
	}
	return ToggleOf(v.Bool())
}
