package commands

import (
	"context"
	"fmt"
	"strings"

	"ideagraph/internal/application"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// SuggestionOffset is how far to the right of its source a suggested idea
// is placed
const SuggestionOffset = 200

// AnalysisPosition is where the analysis idea is placed on the canvas
var AnalysisPosition = domain.Position{X: 100, Y: 100}

// SuggestNextResult contains the suggested idea and the edge leading to it
type SuggestNextResult struct {
	Node    domain.Node
	Edge    domain.Edge
	Message string
}

// SuggestNextCommand asks the assistant for a follow-up to an idea and adds
// it to the graph, connected from the source idea
type SuggestNextCommand struct {
	assistant ports.IdeaAssistant
	session   *session.Session
	NodeID    string
}

// NewSuggestNextCommand creates a new SuggestNextCommand
func NewSuggestNextCommand(assistant ports.IdeaAssistant, sess *session.Session, nodeID string) *SuggestNextCommand {
	return &SuggestNextCommand{
		assistant: assistant,
		session:   sess,
		NodeID:    nodeID,
	}
}

// Validate checks if the suggest operation is valid
func (c *SuggestNextCommand) Validate() error {
	return application.ValidateRequired("nodeID", c.NodeID)
}

// Execute runs the suggest command
func (c *SuggestNextCommand) Execute(ctx context.Context) (*SuggestNextResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := checkAvailable(c.assistant); err != nil {
		return nil, err
	}

	source, err := c.session.Node(c.NodeID)
	if err != nil {
		return nil, err
	}

	suggestion, err := c.assistant.SuggestNextIdea(ctx, source.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest next idea: %w", err)
	}
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return nil, fmt.Errorf("%w: assistant returned an empty suggestion", application.ErrInvalidOperation)
	}

	node := c.session.AddNode(source.Position.Offset(SuggestionOffset, 0), suggestion)
	edge, err := c.session.Connect(source.ID, node.ID)
	if err != nil {
		return nil, err
	}

	return &SuggestNextResult{
		Node:    node,
		Edge:    edge,
		Message: fmt.Sprintf("Suggested: %s", suggestion),
	}, nil
}

// AnalyzeResult contains the idea holding the analysis
type AnalyzeResult struct {
	Node    domain.Node
	Message string
}

// AnalyzeCommand asks the assistant to analyze every idea in the graph and
// adds the analysis as a new idea
type AnalyzeCommand struct {
	assistant ports.IdeaAssistant
	session   *session.Session
}

// NewAnalyzeCommand creates a new AnalyzeCommand
func NewAnalyzeCommand(assistant ports.IdeaAssistant, sess *session.Session) *AnalyzeCommand {
	return &AnalyzeCommand{assistant: assistant, session: sess}
}

// Execute runs the analyze command
func (c *AnalyzeCommand) Execute(ctx context.Context) (*AnalyzeResult, error) {
	if err := checkAvailable(c.assistant); err != nil {
		return nil, err
	}

	ideas := domain.Labels(c.session.Nodes())
	if len(ideas) == 0 {
		return nil, fmt.Errorf("%w: add some ideas first", application.ErrInvalidOperation)
	}

	analysis, err := c.assistant.AnalyzeIdeas(ctx, ideas)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze ideas: %w", err)
	}
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return nil, fmt.Errorf("%w: assistant returned an empty analysis", application.ErrInvalidOperation)
	}

	node := c.session.AddNode(AnalysisPosition, analysis)

	return &AnalyzeResult{
		Node:    node,
		Message: fmt.Sprintf("Analyzed %d ideas", len(ideas)),
	}, nil
}

// CompleteResult contains the completed label
type CompleteResult struct {
	Label   string
	Message string
}

// CompleteCommand asks the assistant to finish a partially written idea and
// appends the completion to its label
type CompleteCommand struct {
	assistant ports.IdeaAssistant
	session   *session.Session
	NodeID    string
}

// NewCompleteCommand creates a new CompleteCommand
func NewCompleteCommand(assistant ports.IdeaAssistant, sess *session.Session, nodeID string) *CompleteCommand {
	return &CompleteCommand{
		assistant: assistant,
		session:   sess,
		NodeID:    nodeID,
	}
}

// Validate checks if the complete operation is valid
func (c *CompleteCommand) Validate() error {
	return application.ValidateRequired("nodeID", c.NodeID)
}

// Execute runs the complete command
func (c *CompleteCommand) Execute(ctx context.Context) (*CompleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := checkAvailable(c.assistant); err != nil {
		return nil, err
	}

	node, err := c.session.Node(c.NodeID)
	if err != nil {
		return nil, err
	}
	if err := application.ValidateRequired("label", node.Label); err != nil {
		return nil, err
	}

	completion, err := c.assistant.SuggestCompletion(ctx, node.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to complete idea: %w", err)
	}
	completion = strings.TrimSpace(completion)
	if completion == "" {
		return &CompleteResult{Label: node.Label, Message: "No completion suggested"}, nil
	}

	label := node.Label + " " + completion
	if err := c.session.EditNode(node.ID, label); err != nil {
		return nil, err
	}

	return &CompleteResult{
		Label:   label,
		Message: fmt.Sprintf("Completed: %s", label),
	}, nil
}

func checkAvailable(assistant ports.IdeaAssistant) error {
	if assistant == nil || !assistant.IsAvailable() {
		return application.ErrUnavailable
	}
	return nil
}
