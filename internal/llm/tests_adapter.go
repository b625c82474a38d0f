package llm

import (
	"context"

	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/clients/openai"
	"github.com/maulerrr/jinaq-backend/internal/logger"
)

// TestsAnalyzer produces the generation results consumed by the submission
// flow: the per-test short analysis and the full personality bundle.
type TestsAnalyzer interface {
	ShortAnalysis(ctx context.Context, userID uuid.UUID, results TestResults) (*ShortAnalysis, error)
	PersonalityAnalysis(ctx context.Context, userID uuid.UUID, summaries []TestSummary) (*PersonalityBundle, error)
}

type testsAnalyzer struct {
	log     *logger.Logger
	client  openai.CompletionClient
	builder *Builder
}

func NewTestsAnalyzer(baseLog *logger.Logger, client openai.CompletionClient, builder *Builder) TestsAnalyzer {
	return &testsAnalyzer{
		log:     baseLog.With("component", "TestsAnalyzer"),
		client:  client,
		builder: builder,
	}
}

func (a *testsAnalyzer) ShortAnalysis(ctx context.Context, userID uuid.UUID, results TestResults) (*ShortAnalysis, error) {
	log := a.log.With("user_id", userID, "test", results.TestName)
	out, err := generate[ShortAnalysis](ctx, log, a.client, "short_analysis",
		func(context.Context) (BuiltPrompt, error) { return a.builder.BuildShortAnalysis(results) },
		"{}", validateShortAnalysis)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PersonalityAnalysis runs the four generations in order and fails fast: a
// failed step discards everything produced before it, so the bundle either
// exists complete or not at all. The steps have no data dependency on each
// other and could fan out concurrently, but sequential keeps the failure
// accounting (which step, which attempt) trivially readable in logs.
func (a *testsAnalyzer) PersonalityAnalysis(ctx context.Context, userID uuid.UUID, summaries []TestSummary) (*PersonalityBundle, error) {
	log := a.log.With("user_id", userID)

	mbti, err := generate[MBTIAnalysis](ctx, log, a.client, "mbti",
		func(context.Context) (BuiltPrompt, error) { return a.builder.BuildMBTI(summaries) },
		"{}", validateMBTI)
	if err != nil {
		return nil, err
	}

	professions, err := generate[[]ProfessionScore](ctx, log, a.client, "professions",
		func(ctx context.Context) (BuiltPrompt, error) { return a.builder.BuildProfessions(ctx, summaries) },
		"[]", validateProfessionScores)
	if err != nil {
		return nil, err
	}

	majors, err := generate[[]MajorPick](ctx, log, a.client, "majors",
		func(context.Context) (BuiltPrompt, error) { return a.builder.BuildMajors(summaries) },
		"[]", validateMajorPicks)
	if err != nil {
		return nil, err
	}

	attributes, err := generate[[]AttributeInsight](ctx, log, a.client, "attributes",
		func(context.Context) (BuiltPrompt, error) { return a.builder.BuildAttributes(summaries) },
		"[]", validateAttributeInsights)
	if err != nil {
		return nil, err
	}

	return &PersonalityBundle{
		MBTI:        mbti,
		Professions: professions,
		Majors:      majors,
		Attributes:  attributes,
	}, nil
}
