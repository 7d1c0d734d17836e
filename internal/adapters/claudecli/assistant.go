package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"ideagraph/internal/ports"
)

// Failure classes reported by the assistant
var (
	ErrNotInstalled   = errors.New("claude CLI not found")
	ErrAuth           = errors.New("authentication failed, check your Claude login")
	ErrRateLimited    = errors.New("rate limit reached, try again later")
	ErrInvalidRequest = errors.New("invalid request, check the idea text")
	ErrService        = errors.New("could not reach the assistant, try again later")
)

// Assistant implements ports.IdeaAssistant using Claude Code CLI
type Assistant struct {
	model  string
	binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Ensure Assistant implements IdeaAssistant
var _ ports.IdeaAssistant = (*Assistant)(nil)

// Option configures the Assistant
type Option func(*Assistant)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(a *Assistant) {
		if model != "" {
			a.model = model
		}
	}
}

// WithBinary overrides the claude executable name or path
func WithBinary(binary string) Option {
	return func(a *Assistant) {
		if binary != "" {
			a.binary = binary
		}
	}
}

// NewAssistant creates a new Claude CLI assistant
func NewAssistant(opts ...Option) *Assistant {
	a := &Assistant{
		model:  "sonnet",
		binary: "claude",
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	DurationMS   int     `json:"duration_ms"`
	IsError      bool    `json:"is_error"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// SuggestNextIdea proposes one follow-up idea on a single line
func (a *Assistant) SuggestNextIdea(ctx context.Context, idea string) (string, error) {
	if strings.TrimSpace(idea) == "" {
		return "", fmt.Errorf("%w: no idea selected", ErrInvalidRequest)
	}
	result, err := a.ask(ctx, buildSuggestPrompt(idea))
	if err != nil {
		return "", err
	}
	return firstLine(cleanText(result)), nil
}

// AnalyzeIdeas classifies the ideas, suggests improvements and related ideas
func (a *Assistant) AnalyzeIdeas(ctx context.Context, ideas []string) (string, error) {
	if len(ideas) == 0 {
		return "", fmt.Errorf("%w: no ideas to analyze", ErrInvalidRequest)
	}
	result, err := a.ask(ctx, buildAnalyzePrompt(ideas))
	if err != nil {
		return "", err
	}
	return cleanText(result), nil
}

// SuggestCompletion proposes one or two words that finish text
func (a *Assistant) SuggestCompletion(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text to complete", ErrInvalidRequest)
	}
	result, err := a.ask(ctx, buildCompletionPrompt(text))
	if err != nil {
		return "", err
	}
	return trimQuotes(firstLine(cleanText(result))), nil
}

// IsAvailable checks if the claude CLI is installed and accessible
func (a *Assistant) IsAvailable() bool {
	_, err := exec.LookPath(a.binary)
	return err == nil
}

// ask runs one prompt through the CLI and returns the response text
func (a *Assistant) ask(ctx context.Context, prompt string) (string, error) {
	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", a.model,
	}

	output, err := a.run(ctx, a.binary, args...)
	if err != nil {
		return "", classifyRunError(ctx, err)
	}

	return parseResponse(output)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// parseResponse extracts the result text from the CLI's JSON envelope
func parseResponse(output []byte) (string, error) {
	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return "", fmt.Errorf("%w: failed to parse claude response: %v", ErrService, err)
	}

	if response.IsError {
		return "", classifyMessage(response.Result)
	}

	if strings.TrimSpace(response.Result) == "" {
		return "", fmt.Errorf("%w: empty response", ErrService)
	}

	return response.Result, nil
}

// classifyRunError maps a failed CLI invocation to a failure class
func classifyRunError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, exec.ErrNotFound) {
		return ErrNotInstalled
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return classifyMessage(string(exitErr.Stderr))
	}
	return fmt.Errorf("%w: %v", ErrService, err)
}

var (
	authPattern      = regexp.MustCompile(`(?i)\b401\b|unauthori[sz]ed|authentication|invalid api key|not logged in|/login`)
	rateLimitPattern = regexp.MustCompile(`(?i)\b429\b|rate.?limit|too many requests|usage limit|overloaded`)
	invalidPattern   = regexp.MustCompile(`(?i)\b400\b|invalid.?request|bad request`)
)

// classifyMessage maps CLI error text to a failure class, keeping the
// detail for logs
func classifyMessage(msg string) error {
	msg = strings.TrimSpace(msg)

	var class error
	switch {
	case authPattern.MatchString(msg):
		class = ErrAuth
	case rateLimitPattern.MatchString(msg):
		class = ErrRateLimited
	case invalidPattern.MatchString(msg):
		class = ErrInvalidRequest
	default:
		class = ErrService
	}

	if msg == "" {
		return class
	}
	return fmt.Errorf("%w (%s)", class, msg)
}

func buildSuggestPrompt(idea string) string {
	return fmt.Sprintf(`Based on the following idea: "%s"

Suggest one new idea that is related to it and complements it.
State the idea briefly and directly, on a single line, with no preamble.`, idea)
}

func buildAnalyzePrompt(ideas []string) string {
	return fmt.Sprintf(`Analyze the following ideas and suggest how to improve and classify them:
%s

Please provide:
1. A category for each idea (technical, social, economic, etc.)
2. Suggestions to improve each idea
3. New ideas related to the current ones

Keep the answer organized and concise. Use plain text, no markdown headings.`, strings.Join(ideas, "\n"))
}

func buildCompletionPrompt(text string) string {
	return fmt.Sprintf(`Complete the following sentence with one or two fitting words:
"%s"

Return only the completion, with no other text.`, text)
}

var codeBlockRe = regexp.MustCompile("```(?:[a-z]*\\n)?([\\s\\S]*?)\\n?```")

// cleanText trims the response and unwraps a markdown code block if present
func cleanText(result string) string {
	result = strings.TrimSpace(result)
	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = strings.TrimSpace(matches[1])
	}
	return result
}

// firstLine returns the first non-blank line of s
func firstLine(s string) string {
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// trimQuotes removes one pair of surrounding quotes
func trimQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimPrefix(s, `'`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSuffix(s, `'`)
	return strings.TrimSpace(s)
}
