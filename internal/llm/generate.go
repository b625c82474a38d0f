package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/maulerrr/jinaq-backend/internal/clients/openai"
	"github.com/maulerrr/jinaq-backend/internal/logger"
)

// maxAttempts bounds the retry-and-validate loop: stop at first success or
// after this many typed failures. There is deliberately no sleep between
// attempts; a malformed response is a content problem, not a load problem.
// TODO: add backoff for transport-class failures once 429s show up in logs.
const maxAttempts = 3

// ErrGenerationFailed marks every retries-exhausted outcome so call sites can
// errors.Is against a single sentinel.
var ErrGenerationFailed = errors.New("generation failed after retries")

// RetriesExhaustedError carries the attempt count and the last typed failure.
type RetriesExhaustedError struct {
	Prompt   string
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s: all %d attempts failed: %v", e.Prompt, e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return ErrGenerationFailed }

// Attempt failure kinds. Transport faults and shape mismatches consume the
// attempt budget identically; only the log line differs.
const (
	failureTransport = "transport"
	failureParse     = "parse"
	failureShape     = "shape"
)

type attemptError struct {
	kind string
	err  error
}

func (e *attemptError) Error() string { return fmt.Sprintf("%s failure: %v", e.kind, e.err) }

func (e *attemptError) Unwrap() error { return e.err }

// BuiltPrompt is a pure function of (template, stored context) at build time.
type BuiltPrompt struct {
	Messages  []openai.Message
	MaxTokens int
}

// generate runs the bounded retry-and-validate loop for one schema family:
// build the prompt, call the completion endpoint with the template's token
// budget, parse the first candidate's text, shape-validate it, and decode on
// success. Every failure is recorded as a typed attempt error; the first
// success returns immediately without consuming remaining attempts.
func generate[T any](
	ctx context.Context,
	log *logger.Logger,
	cc openai.CompletionClient,
	prompt string,
	build func(context.Context) (BuiltPrompt, error),
	emptyLiteral string,
	validate func(any) error,
) (T, error) {
	var zero T
	var last error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		built, err := build(ctx)
		if err != nil {
			last = &attemptError{kind: failureTransport, err: err}
			log.Error("prompt build failed", "prompt", prompt, "attempt", attempt, "error", err)
			continue
		}

		text, err := cc.Complete(ctx, built.Messages, built.MaxTokens)
		if err != nil {
			last = &attemptError{kind: failureTransport, err: err}
			log.Error("completion call failed", "prompt", prompt, "attempt", attempt, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			text = emptyLiteral
		}

		var raw any
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			last = &attemptError{kind: failureParse, err: err}
			log.Error("response is not valid JSON", "prompt", prompt, "attempt", attempt, "error", err)
			continue
		}

		if err := validate(raw); err != nil {
			last = &attemptError{kind: failureShape, err: err}
			log.Error("response did not match expected shape",
				"prompt", prompt, "attempt", attempt, "error", err, "payload", raw)
			continue
		}

		var out T
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			last = &attemptError{kind: failureParse, err: err}
			log.Error("validated response failed to decode", "prompt", prompt, "attempt", attempt, "error", err)
			continue
		}
		return out, nil
	}

	log.Error("generation exhausted retries", "prompt", prompt, "attempts", maxAttempts, "last_error", last)
	return zero, &RetriesExhaustedError{Prompt: prompt, Attempts: maxAttempts, Last: last}
}
