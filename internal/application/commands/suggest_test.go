package commands

import (
	"context"
	"errors"
	"testing"

	"ideagraph/internal/application"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
)

func TestSuggestNextCommand_Execute(t *testing.T) {
	sess := session.New()
	source := sess.AddNode(domain.Position{X: 10, Y: 40}, "grow tomatoes")
	assistant := &fakeAssistant{reply: "  build a trellis\n"}

	result, err := NewSuggestNextCommand(assistant, sess, source.ID).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Node.Label != "build a trellis" {
		t.Errorf("expected trimmed suggestion, got %q", result.Node.Label)
	}
	if result.Node.Position != (domain.Position{X: 210, Y: 40}) {
		t.Errorf("expected suggestion to the right of source, got %+v", result.Node.Position)
	}
	if result.Edge.Source != source.ID || result.Edge.Target != result.Node.ID {
		t.Errorf("expected edge from source to suggestion, got %+v", result.Edge)
	}
	if len(assistant.asked) != 1 || assistant.asked[0] != "grow tomatoes" {
		t.Errorf("expected assistant asked about source label, got %v", assistant.asked)
	}
	if len(sess.Nodes()) != 2 || len(sess.Edges()) != 1 {
		t.Errorf("expected 2 nodes and 1 edge, got %d and %d", len(sess.Nodes()), len(sess.Edges()))
	}
}

func TestSuggestNextCommand_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assistant *fakeAssistant
		nodeID    string
		wantErr   error
	}{
		{
			name:      "assistant unavailable",
			assistant: &fakeAssistant{unavailable: true},
			nodeID:    "existing",
			wantErr:   application.ErrUnavailable,
		},
		{
			name:      "unknown node",
			assistant: &fakeAssistant{reply: "x"},
			nodeID:    "missing",
			wantErr:   application.ErrNotFound,
		},
		{
			name:      "empty suggestion",
			assistant: &fakeAssistant{reply: "   "},
			nodeID:    "existing",
			wantErr:   application.ErrInvalidOperation,
		},
		{
			name:      "assistant error",
			assistant: &fakeAssistant{err: errBoom},
			nodeID:    "existing",
			wantErr:   errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New()
			node := sess.AddNode(domain.Position{}, "idea")
			nodeID := tt.nodeID
			if nodeID == "existing" {
				nodeID = node.ID
			}

			_, err := NewSuggestNextCommand(tt.assistant, sess, nodeID).Execute(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(sess.Nodes()) != 1 {
				t.Errorf("expected graph unchanged, got %d nodes", len(sess.Nodes()))
			}
		})
	}
}

func TestSuggestNextCommand_Validate(t *testing.T) {
	err := NewSuggestNextCommand(&fakeAssistant{}, session.New(), "").Validate()
	var verr *application.ValidationError
	if !errors.As(err, &verr) || verr.Field != "nodeID" {
		t.Errorf("expected nodeID validation error, got %v", err)
	}
}

func TestAnalyzeCommand_Execute(t *testing.T) {
	sess := session.New()
	sess.AddNode(domain.Position{X: 500, Y: 500}, "first")
	sess.AddNode(domain.Position{}, "")
	sess.AddNode(domain.Position{}, "second")
	assistant := &fakeAssistant{reply: "Both ideas are about gardening."}

	result, err := NewAnalyzeCommand(assistant, sess).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Node.Position != AnalysisPosition {
		t.Errorf("expected analysis at %+v, got %+v", AnalysisPosition, result.Node.Position)
	}
	if result.Node.Label != "Both ideas are about gardening." {
		t.Errorf("unexpected analysis label %q", result.Node.Label)
	}
	if len(assistant.asked) != 2 {
		t.Errorf("expected blank labels skipped, asked about %v", assistant.asked)
	}
	if result.Message != "Analyzed 2 ideas" {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestAnalyzeCommand_EmptyGraph(t *testing.T) {
	assistant := &fakeAssistant{reply: "x"}

	_, err := NewAnalyzeCommand(assistant, session.New()).Execute(context.Background())
	if !errors.Is(err, application.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}
	if len(assistant.asked) != 0 {
		t.Error("expected assistant not to be called")
	}
}

func TestCompleteCommand_Execute(t *testing.T) {
	sess := session.New()
	node := sess.AddNode(domain.Position{}, "plant")
	assistant := &fakeAssistant{reply: "more trees"}

	result, err := NewCompleteCommand(assistant, sess, node.ID).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Label != "plant more trees" {
		t.Errorf("expected completion appended, got %q", result.Label)
	}

	got, _ := sess.Node(node.ID)
	if got.Label != "plant more trees" {
		t.Errorf("expected session label updated, got %q", got.Label)
	}
}

func TestCompleteCommand_BlankLabel(t *testing.T) {
	sess := session.New()
	node := sess.AddNode(domain.Position{}, "  ")
	assistant := &fakeAssistant{reply: "x"}

	_, err := NewCompleteCommand(assistant, sess, node.ID).Execute(context.Background())
	var verr *application.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error for blank label, got %v", err)
	}
	if len(assistant.asked) != 0 {
		t.Error("expected assistant not to be called")
	}
}

func TestCompleteCommand_EmptyCompletion(t *testing.T) {
	sess := session.New()
	node := sess.AddNode(domain.Position{}, "plant")

	result, err := NewCompleteCommand(&fakeAssistant{reply: ""}, sess, node.ID).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Label != "plant" {
		t.Errorf("expected label unchanged, got %q", result.Label)
	}
}
