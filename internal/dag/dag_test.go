// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_LinearChain(t *testing.T) {
	t.Parallel()
	g := New()
	// all -> web -> frontend
	g.AddEdge("all", "web")
	g.AddEdge("web", "frontend")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"all", "web", "frontend"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("all", "web")
	g.AddEdge("all", "db")
	g.AddEdge("web", "prod")
	g.AddEdge("db", "prod")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[0] != "all" {
		t.Errorf("expected all first, got %v", order)
	}
	if order[len(order)-1] != "prod" {
		t.Errorf("expected prod last, got %v", order)
	}
	if len(order) != 4 {
		t.Errorf("expected 4 nodes, got %d: %v", len(order), order)
	}
}

func TestTopologicalSort_SimpleCycle(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("group1", "group2")
	g.AddEdge("group2", "group1")

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	// The reported path must start and end on the same node and contain both.
	c := cycleErr.Cycle
	if len(c) < 3 || c[0] != c[len(c)-1] {
		t.Fatalf("cycle path should close on itself, got %v", c)
	}
	if !slices.Contains(c, "group1") || !slices.Contains(c, "group2") {
		t.Errorf("cycle should name both participants, got %v", c)
	}
}

func TestTopologicalSort_SelfLoop(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("loop", "loop")

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if !slices.Equal(cycleErr.Cycle, []string{"loop", "loop"}) {
		t.Errorf("expected [loop loop], got %v", cycleErr.Cycle)
	}
}

func TestTopologicalSort_CycleBelowAcyclicPrefix(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("all", "ok")
	g.AddEdge("all", "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	for _, n := range []string{"a", "b", "c"} {
		if !slices.Contains(cycleErr.Cycle, n) {
			t.Errorf("cycle %v missing %s", cycleErr.Cycle, n)
		}
	}
	if slices.Contains(cycleErr.Cycle, "ok") {
		t.Errorf("acyclic node leaked into cycle path: %v", cycleErr.Cycle)
	}
}

func TestAddEdge_Deduplicates(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("all", "web")
	g.AddEdge("all", "web")
	if got := g.Neighbors("all"); !slices.Equal(got, []string{"web"}) {
		t.Errorf("expected deduplicated edge, got %v", got)
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("all", "web")
	g.AddEdge("all", "db")
	g.AddNode("web")
	if got := g.Nodes(); !slices.Equal(got, []string{"all", "web", "db"}) {
		t.Errorf("expected insertion order, got %v", got)
	}
}
