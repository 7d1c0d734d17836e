package ports

import "context"

// IdeaAssistant generates text that the graph session turns into new ideas.
// The persistence layer never depends on it.
type IdeaAssistant interface {
	// SuggestNextIdea proposes a follow-up idea for the given one
	SuggestNextIdea(ctx context.Context, idea string) (string, error)

	// AnalyzeIdeas summarizes a set of ideas and points out gaps
	AnalyzeIdeas(ctx context.Context, ideas []string) (string, error)

	// SuggestCompletion proposes text that completes a partial idea
	SuggestCompletion(ctx context.Context, text string) (string, error)

	// IsAvailable returns true if the backing generator can be reached
	IsAvailable() bool
}
