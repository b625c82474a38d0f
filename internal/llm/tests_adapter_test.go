package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

const validMBTIResponse = `{
	"title":"The Architect","description":"d","mbtiCode":"INTJ","mbtiName":"Architect",
	"shortAttributes":["focused"],"workStyles":["independent"],
	"introversionPercentage":70,"thinkingPercentage":80,"creativityPercentage":60,
	"intuitionPercentage":65,"planningPercentage":75,"leadingPercentage":40
}`

func TestPersonalityAnalysisHappyPath(t *testing.T) {
	professionID := uuid.New()
	b := newTestBuilder(nil, &fakeProfessionRepo{professions: []*types.Profession{
		{ID: professionID, Name: "Software Engineer"},
	}}, nil)

	client := &scriptedClient{responses: []scriptedResponse{
		{text: validMBTIResponse},
		{text: `[{"professionId":"` + professionID.String() + `","percentage":88}]`},
		{text: `[{"category":"Computer Science"}]`},
		{text: `[{"type":"PROS","name":"discipline","description":"d","recommendations":"r"}]`},
	}}
	analyzer := NewTestsAnalyzer(logger.NewNop(), client, b)

	bundle, err := analyzer.PersonalityAnalysis(context.Background(), uuid.New(), []TestSummary{{TestName: "t", Summary: "s"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.MBTI.MBTICode != "INTJ" {
		t.Fatalf("mbti code = %q, want INTJ", bundle.MBTI.MBTICode)
	}
	if len(bundle.Professions) != 1 || bundle.Professions[0].Percentage != 88 {
		t.Fatalf("professions = %+v", bundle.Professions)
	}
	if len(bundle.Majors) != 1 || len(bundle.Attributes) != 1 {
		t.Fatalf("majors = %d attributes = %d, want 1 and 1", len(bundle.Majors), len(bundle.Attributes))
	}
	if client.calls != 4 {
		t.Fatalf("calls = %d, want 4", client.calls)
	}
}

func TestPersonalityAnalysisFailsFast(t *testing.T) {
	// MBTI succeeds, then every profession attempt is malformed. The bundle
	// must not survive a failed step, and the later steps must never run.
	b := newTestBuilder(nil, &fakeProfessionRepo{}, nil)
	client := &scriptedClient{responses: []scriptedResponse{
		{text: validMBTIResponse},
		{text: "garbage"},
		{text: "garbage"},
		{text: "garbage"},
	}}
	analyzer := NewTestsAnalyzer(logger.NewNop(), client, b)

	bundle, err := analyzer.PersonalityAnalysis(context.Background(), uuid.New(), []TestSummary{{Summary: "s"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if bundle != nil {
		t.Fatal("failed orchestration returned a partial bundle")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error %v does not wrap ErrGenerationFailed", err)
	}
	// 1 MBTI call plus the full retry budget for professions, nothing more.
	if client.calls != 1+maxAttempts {
		t.Fatalf("calls = %d, want %d", client.calls, 1+maxAttempts)
	}
}

func TestShortAnalysisRetriesShapeFailure(t *testing.T) {
	b := newTestBuilder(nil, nil, nil)
	client := &scriptedClient{responses: []scriptedResponse{
		{text: `{"analysis_summary":123,"analysis_key_factors":[]}`},
		{text: `{"analysis_summary":"good fit for engineering","analysis_key_factors":["curious"]}`},
	}}
	analyzer := NewTestsAnalyzer(logger.NewNop(), client, b)

	out, err := analyzer.ShortAnalysis(context.Background(), uuid.New(), TestResults{TestName: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary != "good fit for engineering" {
		t.Fatalf("summary = %q", out.Summary)
	}
	if client.calls != 2 {
		t.Fatalf("calls = %d, want 2", client.calls)
	}
}
