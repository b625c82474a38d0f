package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maulerrr/jinaq-backend/internal/clients/openai"
	"github.com/maulerrr/jinaq-backend/internal/logger"
)

// scriptedClient returns its responses in order and counts calls. An entry
// with err set fails the call instead.
type scriptedClient struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	text string
	err  error
}

func (s *scriptedClient) Complete(_ context.Context, _ []openai.Message, _ int) (string, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", idx+1)
	}
	r := s.responses[idx]
	return r.text, r.err
}

func staticPrompt(context.Context) (BuiltPrompt, error) {
	return BuiltPrompt{
		Messages:  []openai.Message{{Role: "user", Content: "hi"}},
		MaxTokens: 64,
	}, nil
}

func TestGenerateFirstAttemptSuccess(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{text: `{"analysis_summary":"ok","analysis_key_factors":["a"]}`},
	}}

	out, err := generate[ShortAnalysis](context.Background(), logger.NewNop(), client,
		"short_analysis", staticPrompt, "{}", validateShortAnalysis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary != "ok" {
		t.Fatalf("summary = %q, want %q", out.Summary, "ok")
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}

func TestGenerateRecoversWithinBudget(t *testing.T) {
	cases := []struct {
		name      string
		responses []scriptedResponse
		wantCalls int
	}{
		{
			name: "one_parse_failure",
			responses: []scriptedResponse{
				{text: "not json at all"},
				{text: `{"analysis_summary":"ok","analysis_key_factors":[]}`},
			},
			wantCalls: 2,
		},
		{
			name: "two_failures_mixed",
			responses: []scriptedResponse{
				{err: errors.New("connection reset")},
				{text: `{"analysis_summary":42}`},
				{text: `{"analysis_summary":"ok","analysis_key_factors":[]}`},
			},
			wantCalls: 3,
		},
		{
			name: "shape_failure_then_success",
			responses: []scriptedResponse{
				{text: `{"wrong_field":"x"}`},
				{text: `{"analysis_summary":"ok","analysis_key_factors":["k"]}`},
			},
			wantCalls: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedClient{responses: tc.responses}
			out, err := generate[ShortAnalysis](context.Background(), logger.NewNop(), client,
				"short_analysis", staticPrompt, "{}", validateShortAnalysis)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Summary != "ok" {
				t.Fatalf("summary = %q, want %q", out.Summary, "ok")
			}
			if client.calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", client.calls, tc.wantCalls)
			}
		})
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{text: "garbage"},
		{text: "more garbage"},
		{text: "still garbage"},
		// A fourth response exists but must never be requested.
		{text: `{"analysis_summary":"late","analysis_key_factors":[]}`},
	}}

	_, err := generate[ShortAnalysis](context.Background(), logger.NewNop(), client,
		"short_analysis", staticPrompt, "{}", validateShortAnalysis)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error %v does not wrap ErrGenerationFailed", err)
	}
	var exhausted *RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error %v is not RetriesExhaustedError", err)
	}
	if exhausted.Attempts != maxAttempts {
		t.Fatalf("attempts = %d, want %d", exhausted.Attempts, maxAttempts)
	}
	if client.calls != maxAttempts {
		t.Fatalf("calls = %d, want %d", client.calls, maxAttempts)
	}
}

func TestGenerateEmptyResponseUsesEmptyLiteral(t *testing.T) {
	// A blank array response decodes as an empty list rather than failing.
	client := &scriptedClient{responses: []scriptedResponse{{text: "   "}}}

	out, err := generate[[]MajorPick](context.Background(), logger.NewNop(), client,
		"majors", staticPrompt, "[]", validateMajorPicks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0", len(out))
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}

func TestGenerateBuildFailureConsumesAttempt(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{text: `{"analysis_summary":"ok","analysis_key_factors":[]}`},
	}}
	attempt := 0
	build := func(context.Context) (BuiltPrompt, error) {
		attempt++
		if attempt == 1 {
			return BuiltPrompt{}, errors.New("catalog unavailable")
		}
		return staticPrompt(context.Background())
	}

	out, err := generate[ShortAnalysis](context.Background(), logger.NewNop(), client,
		"short_analysis", build, "{}", validateShortAnalysis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary != "ok" {
		t.Fatalf("summary = %q, want %q", out.Summary, "ok")
	}
	// The failed build consumed an attempt without reaching the client.
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
	if attempt != 2 {
		t.Fatalf("build invocations = %d, want 2", attempt)
	}
}
