// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

type step string

func TestTopologicalSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]step
		nodes []step
		want  []step
	}{
		{name: "empty", want: nil},
		{name: "single node", nodes: []step{"build"}, want: []step{"build"}},
		{
			name:  "linear pipeline",
			edges: [][2]step{{"build", "install"}, {"install", "test"}},
			want:  []step{"build", "install", "test"},
		},
		{
			name:  "hooks after install keep insertion order",
			edges: [][2]step{{"build", "install"}, {"install", "receipt"}, {"install", "test"}},
			want:  []step{"build", "install", "receipt", "test"},
		},
		{
			name:  "duplicate edges",
			edges: [][2]step{{"build", "install"}, {"build", "install"}},
			want:  []step{"build", "install"},
		},
		{
			name:  "disconnected node",
			nodes: []step{"fetch"},
			edges: [][2]step{{"build", "install"}},
			want:  []step{"fetch", "build", "install"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New[step]()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			got, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopologicalSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edges   [][2]step
		minSize int
	}{
		{name: "self loop", edges: [][2]step{{"build", "build"}}, minSize: 1},
		{name: "two nodes", edges: [][2]step{{"build", "install"}, {"install", "build"}}, minSize: 2},
		{name: "three nodes", edges: [][2]step{{"build", "install"}, {"install", "test"}, {"test", "build"}}, minSize: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New[step]()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			_, err := g.TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("TopologicalSort() error = %v, want *CycleError", err)
			}
			if !errors.Is(err, ErrCycle) {
				t.Error("CycleError should wrap ErrCycle")
			}
			if len(cycleErr.Cycle) < tt.minSize {
				t.Errorf("Cycle = %v, want at least %d nodes", cycleErr.Cycle, tt.minSize)
			}
		})
	}
}

func TestPredecessors(t *testing.T) {
	t.Parallel()

	g := New[step]()
	g.AddEdge("build", "install")
	g.AddEdge("install", "test")
	g.AddEdge("install", "receipt")
	g.AddNode("fetch")

	if got, want := g.Predecessors("test"), []step{"build", "install"}; !slices.Equal(got, want) {
		t.Errorf("Predecessors(test) = %v, want %v", got, want)
	}
	if got := g.Predecessors("build"); len(got) != 0 {
		t.Errorf("Predecessors(build) = %v, want none", got)
	}
	if !g.Has("fetch") || g.Has("deploy") {
		t.Error("Has() reports wrong membership")
	}
	if g.Len() != 5 {
		t.Errorf("Len() = %d, want 5", g.Len())
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()

	err := &CycleError{Cycle: []string{"build", "install", "test"}}
	want := "dependency cycle detected: build -> install -> test"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
