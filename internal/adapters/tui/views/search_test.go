package views

import (
	"strings"
	"testing"

	"ideagraph/internal/domain"
)

func TestSearch_ShowsRankedResults(t *testing.T) {
	searcher := &fakeSearcher{hits: []domain.SearchHit{
		{Title: "kitchen", NodeID: "n1", Label: "herb garden on the sill"},
		{Title: "garden", NodeID: "", Label: "garden"},
	}}
	m := NewSearchModel(searcher)
	m.input.SetValue("garden")

	run(t, m, m.search("garden"))

	if len(m.results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(m.results))
	}
	if m.results[0].Title != "garden" {
		t.Errorf("expected exact title match first, got %+v", m.results[0])
	}
	view := m.View()
	if !strings.Contains(view, "[SET]") || !strings.Contains(view, "[IDEA]") {
		t.Errorf("expected both result kinds in view:\n%s", view)
	}
}

func TestSearch_IgnoresStaleResults(t *testing.T) {
	searcher := &fakeSearcher{hits: []domain.SearchHit{{Title: "garden"}}}
	m := NewSearchModel(searcher)
	m.input.SetValue("gardening")

	run(t, m, m.search("garden"))

	if len(m.results) != 0 {
		t.Errorf("expected stale results to be dropped, got %d", len(m.results))
	}
}

func TestSearch_SelectOpensHit(t *testing.T) {
	searcher := &fakeSearcher{hits: []domain.SearchHit{{Title: "garden", NodeID: "n1", Label: "compost"}}}
	m := NewSearchModel(searcher)
	m.input.SetValue("compost")
	run(t, m, m.search("compost"))

	cmd := press(m, enterKey)
	if cmd == nil {
		t.Fatal("expected a select command")
	}
	msg, ok := cmd().(SearchSelectMsg)
	if !ok || msg.Result.Title != "garden" || msg.Result.NodeID != "n1" {
		t.Errorf("unexpected selection %+v", msg)
	}
}

func TestSearch_WithoutIndex(t *testing.T) {
	m := NewSearchModel(nil)
	m.input.SetValue("compost")

	run(t, m, m.search("compost"))

	if m.MessageLevel != LevelError || !strings.Contains(m.Message, "index") {
		t.Errorf("expected index error, got %q", m.Message)
	}
}

func TestSearch_ShortQueryClearsResults(t *testing.T) {
	m := NewSearchModel(&fakeSearcher{})
	m.results = nil
	press(m, keyPress("g"))

	if m.input.Value() != "g" || len(m.results) != 0 {
		t.Errorf("expected a one-letter query with no results, got %q and %d", m.input.Value(), len(m.results))
	}
	if !strings.Contains(m.View(), "at least 2 characters") {
		t.Error("expected minimum length hint")
	}
}
