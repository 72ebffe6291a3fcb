// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"testing"
)

func depNames(deps []Dependency) []string {
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}
	return names
}

func TestActiveDependencies(t *testing.T) {
	t.Parallel()

	r := mustParseSample(t)

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"defaults", Request{}, []string{"cmake", "kokkos", "python"}},
		{"no kokkos", Request{Settings: []Setting{{Name: "kokkos", Value: "false", Toggle: true}}}, []string{"cmake", "python"}},
		{"openmp with gcc", Request{Compiler: "gcc", Settings: []Setting{{Name: "openmp", Value: "true", Toggle: true}}}, []string{"cmake", "kokkos", "python"}},
		{"openmp with apple-clang", Request{Compiler: "apple-clang", Settings: []Setting{{Name: "openmp", Value: "true", Toggle: true}}}, []string{"cmake", "kokkos", "llvm-openmp", "python"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sel, err := Resolve(r, tt.req)
			if err != nil {
				t.Fatal(err)
			}
			got := depNames(r.ActiveDependencies(sel))
			if len(got) != len(tt.want) {
				t.Fatalf("ActiveDependencies() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ActiveDependencies() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestApplicablePatches(t *testing.T) {
	t.Parallel()

	r := mustParseSample(t)
	if got := r.ApplicablePatches(Defaults(r)); len(got) != 1 || got[0].File != "fix-1.2.patch" {
		t.Errorf("ApplicablePatches(1.2.0) = %+v", got)
	}
	old, err := Resolve(r, Request{Version: "1.1.0"})
	if err != nil {
		t.Fatal(err)
	}
	if got := r.ApplicablePatches(old); len(got) != 0 {
		t.Errorf("ApplicablePatches(1.1.0) = %+v, want none", got)
	}
}

func TestDependency_Check(t *testing.T) {
	t.Parallel()

	cmake := Dependency{Name: "cmake", Constraint: "3.21:3.24,3.25.2:"}

	if err := cmake.Check(Provided{Prefix: "/opt/cmake", Version: "3.26.4"}, true); err != nil {
		t.Errorf("Check(3.26.4) = %v", err)
	}
	if err := cmake.Check(Provided{Prefix: "/opt/cmake"}, true); err != nil {
		t.Errorf("Check(no version) = %v", err)
	}

	err := cmake.Check(Provided{Prefix: "/opt/cmake", Version: "3.25.0"}, true)
	var unsat *UnsatisfiedDependencyError
	if !errors.As(err, &unsat) || unsat.Version != "3.25.0" {
		t.Errorf("Check(3.25.0) = %v, want UnsatisfiedDependencyError", err)
	}

	if err := cmake.Check(Provided{}, false); !errors.Is(err, ErrUnsatisfied) {
		t.Errorf("Check(missing) = %v, want ErrUnsatisfied", err)
	}
}
