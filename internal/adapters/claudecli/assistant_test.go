package claudecli

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func fakeRun(output string, err error) func(context.Context, string, ...string) ([]byte, error) {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(output), err
	}
}

func newFakeAssistant(output string, err error) *Assistant {
	a := NewAssistant()
	a.run = fakeRun(output, err)
	return a
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr error
	}{
		{
			name:   "success",
			output: `{"type":"result","is_error":false,"result":"Plant herbs"}`,
			want:   "Plant herbs",
		},
		{
			name:    "not JSON",
			output:  "boom",
			wantErr: ErrService,
		},
		{
			name:    "error result with auth failure",
			output:  `{"is_error":true,"result":"Invalid API key · Please run /login"}`,
			wantErr: ErrAuth,
		},
		{
			name:    "error result with rate limit",
			output:  `{"is_error":true,"result":"API Error: 429 Too Many Requests"}`,
			wantErr: ErrRateLimited,
		},
		{
			name:    "empty result",
			output:  `{"is_error":false,"result":"  "}`,
			wantErr: ErrService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse([]byte(tt.output))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"HTTP 401 Unauthorized", ErrAuth},
		{"authentication_error: token expired", ErrAuth},
		{"rate_limit_error", ErrRateLimited},
		{"Claude usage limit reached", ErrRateLimited},
		{"400 bad request: prompt too long", ErrInvalidRequest},
		{"invalid_request_error", ErrInvalidRequest},
		{"connection reset by peer", ErrService},
		{"", ErrService},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if err := classifyMessage(tt.msg); !errors.Is(err, tt.want) {
				t.Errorf("classifyMessage(%q) = %v, want %v", tt.msg, err, tt.want)
			}
		})
	}
}

func TestClassifyRunError(t *testing.T) {
	ctx := context.Background()

	if err := classifyRunError(ctx, &exec.Error{Name: "claude", Err: exec.ErrNotFound}); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("expected ErrNotInstalled, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := classifyRunError(cancelled, errors.New("signal: killed")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	if err := classifyRunError(ctx, errors.New("pipe broke")); !errors.Is(err, ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}
}

func TestSuggestNextIdea(t *testing.T) {
	a := newFakeAssistant(`{"result":"\n  Build a compost bin\nIt feeds the garden."}`, nil)

	got, err := a.SuggestNextIdea(context.Background(), "Start a garden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Build a compost bin" {
		t.Errorf("expected first line only, got %q", got)
	}
}

func TestSuggestNextIdea_RequiresIdea(t *testing.T) {
	called := false
	a := NewAssistant()
	a.run = func(context.Context, string, ...string) ([]byte, error) {
		called = true
		return nil, nil
	}

	if _, err := a.SuggestNextIdea(context.Background(), "  "); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if called {
		t.Error("expected CLI not to run for a blank idea")
	}
}

func TestAnalyzeIdeas(t *testing.T) {
	var gotArgs []string
	a := NewAssistant(WithModel("haiku"))
	a.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"result":"` + "```\\nAll social ideas.\\n```" + `"}`), nil
	}

	got, err := a.AnalyzeIdeas(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "All social ideas." {
		t.Errorf("expected code fence stripped, got %q", got)
	}
	if len(gotArgs) != 6 || gotArgs[5] != "haiku" {
		t.Errorf("expected model flag, got %v", gotArgs)
	}
	if !strings.Contains(gotArgs[1], "alpha\nbeta") {
		t.Errorf("expected ideas in prompt, got %q", gotArgs[1])
	}

	if _, err := a.AnalyzeIdeas(context.Background(), nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for no ideas, got %v", err)
	}
}

func TestSuggestCompletion(t *testing.T) {
	a := newFakeAssistant(`{"result":"\"every morning\""}`, nil)

	got, err := a.SuggestCompletion(context.Background(), "Water the plants")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "every morning" {
		t.Errorf("expected quotes removed, got %q", got)
	}
}

func TestAssistant_RunFailure(t *testing.T) {
	a := newFakeAssistant("", &exec.Error{Name: "claude", Err: exec.ErrNotFound})

	if _, err := a.SuggestCompletion(context.Background(), "x"); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("expected ErrNotInstalled, got %v", err)
	}
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{"bare", "bare"},
		{`"  padded "`, "padded"},
	}

	for _, tt := range tests {
		if got := trimQuotes(tt.in); got != tt.want {
			t.Errorf("trimQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
