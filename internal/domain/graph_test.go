package domain

import "testing"

func TestCheckIntegrity(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}}

	t.Run("clean graph has no warnings", func(t *testing.T) {
		edges := []Edge{{ID: "e1", Source: "a", Target: "b"}}
		if w := CheckIntegrity(nodes, edges); len(w) != 0 {
			t.Errorf("expected no warnings, got %v", w)
		}
	})

	t.Run("dangling endpoints are reported", func(t *testing.T) {
		edges := []Edge{
			{ID: "e1", Source: "a", Target: "ghost"},
			{ID: "e2", Source: "nobody", Target: "none"},
		}
		w := CheckIntegrity(nodes, edges)
		if len(w) != 3 {
			t.Fatalf("expected 3 warnings, got %d: %v", len(w), w)
		}
		if w[0].EdgeID != "e1" || w[0].Missing != "ghost" {
			t.Errorf("unexpected first warning: %+v", w[0])
		}
	})
}

func TestDropDangling(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}}
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "a", Target: "ghost"},
		{ID: "e3", Source: "b", Target: "a"},
	}

	kept, warnings := DropDangling(nodes, edges)

	if len(kept) != 2 || kept[0].ID != "e1" || kept[1].ID != "e3" {
		t.Errorf("expected e1 and e3 kept in order, got %+v", kept)
	}
	if len(warnings) != 1 || warnings[0].EdgeID != "e2" || warnings[0].Missing != "ghost" {
		t.Errorf("unexpected warnings %v", warnings)
	}
}

func TestEdgeTouches(t *testing.T) {
	e := Edge{ID: "e", Source: "a", Target: "b"}
	if !e.Touches("a") || !e.Touches("b") {
		t.Error("expected edge to touch both endpoints")
	}
	if e.Touches("c") {
		t.Error("expected edge not to touch unrelated node")
	}
}

func TestLabels(t *testing.T) {
	nodes := []Node{{Label: "one"}, {Label: ""}, {Label: "two"}}
	got := Labels(nodes)
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("unexpected labels: %v", got)
	}
}

func TestParseGraph(t *testing.T) {
	t.Run("snapshot document", func(t *testing.T) {
		data := []byte(`{"title":"t","nodes":[{"id":"a","position":{"x":1,"y":2},"label":"alpha"}],"edges":[{"id":"e","source":"a","target":"a"}],"ideaCount":1}`)
		g, err := ParseGraph(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(g.Nodes) != 1 || g.Nodes[0].Position.Y != 2 || len(g.Edges) != 1 {
			t.Errorf("unexpected graph: %+v", g)
		}
	})

	t.Run("missing collections", func(t *testing.T) {
		g, err := ParseGraph([]byte(`{}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.Nodes == nil || g.Edges == nil {
			t.Error("expected empty, non-nil collections")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseGraph([]byte(`{"nodes":`)); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}
