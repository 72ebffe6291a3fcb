// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	sel := Defaults(mustParseSample(t))
	if sel.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", sel.Version)
	}
	if !sel.Enabled("blas") || !sel.Enabled("kokkos") || sel.Enabled("openmp") {
		t.Errorf("unexpected defaults: %v", sel.Map())
	}
	if v, _ := sel.Value("build_type"); v.String() != "Release" {
		t.Errorf("build_type = %q, want Release", v)
	}
	if got, want := sel.Names(), []string{"blas", "kokkos", "openmp", "build_type"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if sel.Enabled("build_type") || sel.Enabled("nonexistent") {
		t.Error("non-bool and unknown variants must not report enabled")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := mustParseSample(t)
	req, err := ParseSpec("py-sample@1.1.0", "~kokkos", "+openmp", "build_type=Debug", "openmp=off", "%gcc")
	if err != nil {
		t.Fatal(err)
	}
	sel, err := Resolve(r, req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if sel.Version != "1.1.0" || sel.Compiler != "gcc" {
		t.Errorf("Version/Compiler = %q/%q", sel.Version, sel.Compiler)
	}
	if sel.Enabled("kokkos") {
		t.Error("kokkos should be disabled")
	}
	if sel.Enabled("openmp") {
		t.Error("the later openmp=off should win over +openmp")
	}
	if got, want := sel.String(), "py-sample@1.1.0+blas~kokkos~openmp build_type=Debug %gcc"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestResolve_BranchVersion(t *testing.T) {
	t.Parallel()

	sel, err := Resolve(mustParseSample(t), Request{Version: "main"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sel.Version != "main" {
		t.Errorf("Version = %q, want main", sel.Version)
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	r := mustParseSample(t)
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown variant", Request{Settings: []Setting{{Name: "cuda", Value: "true", Toggle: true}}}, ErrUnknownVariant},
		{"enum value outside set", Request{Settings: []Setting{{Name: "build_type", Value: "Fast"}}}, ErrInvalidVariantValue},
		{"toggle on enum", Request{Settings: []Setting{{Name: "build_type", Value: "true", Toggle: true}}}, ErrInvalidVariantValue},
		{"non-bool for bool variant", Request{Settings: []Setting{{Name: "blas", Value: "maybe"}}}, ErrInvalidVariantValue},
		{"unknown version", Request{Version: "9.9.9"}, ErrUnknownVersion},
		{"wrong package", Request{Package: "py-other"}, ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Resolve(r, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvalidVariantValueError_ListsAllowed(t *testing.T) {
	t.Parallel()

	_, err := Resolve(mustParseSample(t), Request{Settings: []Setting{{Name: "build_type", Value: "Fast"}}})
	var invalid *InvalidVariantValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *InvalidVariantValueError", err)
	}
	if !reflect.DeepEqual(invalid.Allowed, []string{"Debug", "Release"}) {
		t.Errorf("Allowed = %v", invalid.Allowed)
	}
}
