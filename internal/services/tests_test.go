package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/llm"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

// passthroughTxRunner runs the callback without a database. The fakes below
// ignore the tx parameter entirely.
type passthroughTxRunner struct{}

func (passthroughTxRunner) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeTestRepo struct {
	tests []*types.Test
}

func (f *fakeTestRepo) List(_ context.Context, _ *gorm.DB) ([]*types.Test, error) {
	return f.tests, nil
}

func (f *fakeTestRepo) GetByID(_ context.Context, _ *gorm.DB, testID uuid.UUID) (*types.Test, error) {
	for _, tt := range f.tests {
		if tt.ID == testID {
			return tt, nil
		}
	}
	return nil, nil
}

func (f *fakeTestRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	return int64(len(f.tests)), nil
}

func (f *fakeTestRepo) CountQuestions(_ context.Context, _ *gorm.DB, testID uuid.UUID) (int64, error) {
	for _, tt := range f.tests {
		if tt.ID == testID {
			return int64(len(tt.Questions)), nil
		}
	}
	return 0, nil
}

func (f *fakeTestRepo) GetQuestion(_ context.Context, _ *gorm.DB, questionID uuid.UUID) (*types.Question, error) {
	for _, tt := range f.tests {
		for i := range tt.Questions {
			if tt.Questions[i].ID == questionID {
				return &tt.Questions[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeTestRepo) GetNextQuestion(_ context.Context, _ *gorm.DB, testID uuid.UUID, afterOrder int) (*types.Question, error) {
	var best *types.Question
	for _, tt := range f.tests {
		if tt.ID != testID {
			continue
		}
		for i := range tt.Questions {
			q := &tt.Questions[i]
			if q.Order > afterOrder && (best == nil || q.Order < best.Order) {
				best = q
			}
		}
	}
	return best, nil
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*types.TestSubmission
	answers     map[uuid.UUID][]*types.SubmittedAnswer
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions: map[uuid.UUID]*types.TestSubmission{},
		answers:     map[uuid.UUID][]*types.SubmittedAnswer{},
	}
}

func (f *fakeSubmissionRepo) GetByUserAndTest(_ context.Context, _ *gorm.DB, userID, testID uuid.UUID, _ bool) (*types.TestSubmission, error) {
	for _, s := range f.submissions {
		if s.UserID == userID && s.TestID == testID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepo) Create(_ context.Context, _ *gorm.DB, submission *types.TestSubmission) error {
	submission.ID = uuid.New()
	f.submissions[submission.ID] = submission
	return nil
}

func (f *fakeSubmissionRepo) GetByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.TestSubmission, error) {
	var out []*types.TestSubmission
	for _, s := range f.submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetWithAnswers(_ context.Context, _ *gorm.DB, submissionID uuid.UUID) (*types.TestSubmission, error) {
	s, ok := f.submissions[submissionID]
	if !ok {
		return nil, nil
	}
	copied := *s
	copied.Answers = nil
	for _, a := range f.answers[submissionID] {
		copied.Answers = append(copied.Answers, *a)
	}
	return &copied, nil
}

func (f *fakeSubmissionRepo) CreateAnswer(_ context.Context, _ *gorm.DB, answer *types.SubmittedAnswer) error {
	answer.ID = uuid.New()
	f.answers[answer.SubmissionID] = append(f.answers[answer.SubmissionID], answer)
	return nil
}

func (f *fakeSubmissionRepo) CountDistinctAnswered(_ context.Context, _ *gorm.DB, submissionID uuid.UUID) (int64, error) {
	seen := map[uuid.UUID]bool{}
	for _, a := range f.answers[submissionID] {
		seen[a.QuestionID] = true
	}
	return int64(len(seen)), nil
}

func (f *fakeSubmissionRepo) UpdateStatus(_ context.Context, _ *gorm.DB, submissionID uuid.UUID, status string) error {
	if s, ok := f.submissions[submissionID]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeSubmissionRepo) Complete(_ context.Context, _ *gorm.DB, submissionID uuid.UUID, summary string, keyFactors datatypes.JSON) error {
	s, ok := f.submissions[submissionID]
	if !ok {
		return errors.New("submission not found")
	}
	s.Status = types.SubmissionCompleted
	s.AnalysisSummary = summary
	s.AnalysisKeyFactors = keyFactors
	return nil
}

func (f *fakeSubmissionRepo) CountCompletedByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range f.submissions {
		if s.UserID == userID && s.Status == types.SubmissionCompleted {
			n++
		}
	}
	return n, nil
}

type fakeProfessionRepo struct {
	professions []*types.Profession
}

func (f *fakeProfessionRepo) ListAll(_ context.Context, _ *gorm.DB) ([]*types.Profession, error) {
	return f.professions, nil
}

func (f *fakeProfessionRepo) List(_ context.Context, _ *gorm.DB, _, _ int) ([]*types.Profession, int64, error) {
	return f.professions, int64(len(f.professions)), nil
}

func (f *fakeProfessionRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Profession, error) {
	var out []*types.Profession
	for _, p := range f.professions {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakePersonalityAnalysisRepo struct {
	stored []*types.PersonalityAnalysis
}

func (f *fakePersonalityAnalysisRepo) Create(_ context.Context, _ *gorm.DB, analysis *types.PersonalityAnalysis) error {
	analysis.ID = uuid.New()
	f.stored = append(f.stored, analysis)
	return nil
}

func (f *fakePersonalityAnalysisRepo) GetLatestByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.PersonalityAnalysis, error) {
	for i := len(f.stored) - 1; i >= 0; i-- {
		if f.stored[i].UserID == userID {
			return f.stored[i], nil
		}
	}
	return nil, nil
}

type fakeTestsAnalyzer struct {
	shortCalls  int
	bundleCalls int
	short       *llm.ShortAnalysis
	shortErr    error
	bundle      *llm.PersonalityBundle
	bundleErr   error
}

func (f *fakeTestsAnalyzer) ShortAnalysis(_ context.Context, _ uuid.UUID, _ llm.TestResults) (*llm.ShortAnalysis, error) {
	f.shortCalls++
	return f.short, f.shortErr
}

func (f *fakeTestsAnalyzer) PersonalityAnalysis(_ context.Context, _ uuid.UUID, _ []llm.TestSummary) (*llm.PersonalityBundle, error) {
	f.bundleCalls++
	return f.bundle, f.bundleErr
}

func twoQuestionTest() *types.Test {
	testID := uuid.New()
	q1 := types.Question{ID: uuid.New(), TestID: testID, Order: 1, Text: "q1"}
	q1.Answers = []types.Answer{{ID: uuid.New(), QuestionID: q1.ID, Text: "a1"}}
	q2 := types.Question{ID: uuid.New(), TestID: testID, Order: 2, Text: "q2"}
	q2.Answers = []types.Answer{{ID: uuid.New(), QuestionID: q2.ID, Text: "a2"}}
	return &types.Test{ID: testID, Name: "Career Test", Questions: []types.Question{q1, q2}}
}

func newTestService(tests []*types.Test, subs *fakeSubmissionRepo, professions *fakeProfessionRepo, analyses *fakePersonalityAnalysisRepo, analyzer *fakeTestsAnalyzer) TestService {
	if subs == nil {
		subs = newFakeSubmissionRepo()
	}
	if professions == nil {
		professions = &fakeProfessionRepo{}
	}
	if analyses == nil {
		analyses = &fakePersonalityAnalysisRepo{}
	}
	if analyzer == nil {
		analyzer = &fakeTestsAnalyzer{}
	}
	return NewTestService(logger.NewNop(), passthroughTxRunner{}, &fakeTestRepo{tests: tests}, subs, professions, analyses, analyzer)
}

func TestSubmitAnswerActivatesSubmission(t *testing.T) {
	test := twoQuestionTest()
	subs := newFakeSubmissionRepo()
	analyzer := &fakeTestsAnalyzer{}
	svc := newTestService([]*types.Test{test}, subs, nil, nil, analyzer)
	userID := uuid.New()

	result, err := svc.SubmitAnswer(context.Background(), userID, SubmitAnswerInput{
		TestID:     test.ID,
		QuestionID: test.Questions[0].ID,
		AnswerID:   test.Questions[0].Answers[0].ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != types.SubmissionActive {
		t.Fatalf("status = %q, want ACTIVE", result.Status)
	}
	if result.AnsweredCount != 1 || result.TotalQuestions != 2 {
		t.Fatalf("answered = %d/%d, want 1/2", result.AnsweredCount, result.TotalQuestions)
	}
	if result.NextQuestion == nil || result.NextQuestion.ID != test.Questions[1].ID {
		t.Fatal("next question is not question 2")
	}
	// An incomplete submission must never trigger generation.
	if analyzer.shortCalls != 0 {
		t.Fatalf("short analysis calls = %d, want 0", analyzer.shortCalls)
	}
}

func TestSubmitAnswerFinalAnswerCompletes(t *testing.T) {
	test := twoQuestionTest()
	subs := newFakeSubmissionRepo()
	analyzer := &fakeTestsAnalyzer{short: &llm.ShortAnalysis{
		Summary:    "prefers practical work",
		KeyFactors: []string{"hands-on"},
	}}
	svc := newTestService([]*types.Test{test}, subs, nil, nil, analyzer)
	userID := uuid.New()

	for i, q := range test.Questions {
		result, err := svc.SubmitAnswer(context.Background(), userID, SubmitAnswerInput{
			TestID:     test.ID,
			QuestionID: q.ID,
			AnswerID:   q.Answers[0].ID,
		})
		if err != nil {
			t.Fatalf("answer %d: unexpected error: %v", i+1, err)
		}
		if i == len(test.Questions)-1 && result.Status != types.SubmissionCompleted {
			t.Fatalf("final status = %q, want COMPLETED", result.Status)
		}
	}

	if analyzer.shortCalls != 1 {
		t.Fatalf("short analysis calls = %d, want 1", analyzer.shortCalls)
	}
	stored, err := svc.GetSubmissionResult(context.Background(), userID, test.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != types.SubmissionCompleted {
		t.Fatalf("stored status = %q, want COMPLETED", stored.Status)
	}
	if stored.AnalysisSummary != "prefers practical work" {
		t.Fatalf("stored summary = %q", stored.AnalysisSummary)
	}
	if len(stored.AnalysisKeyFactors) == 0 {
		t.Fatal("key factors were not stored")
	}
}

func TestSubmitAnswerGenerationFailureKeepsAnswer(t *testing.T) {
	test := twoQuestionTest()
	subs := newFakeSubmissionRepo()
	analyzer := &fakeTestsAnalyzer{shortErr: llm.ErrGenerationFailed}
	svc := newTestService([]*types.Test{test}, subs, nil, nil, analyzer)
	userID := uuid.New()

	if _, err := svc.SubmitAnswer(context.Background(), userID, SubmitAnswerInput{
		TestID:     test.ID,
		QuestionID: test.Questions[0].ID,
		AnswerID:   test.Questions[0].Answers[0].ID,
	}); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	_, err := svc.SubmitAnswer(context.Background(), userID, SubmitAnswerInput{
		TestID:     test.ID,
		QuestionID: test.Questions[1].ID,
		AnswerID:   test.Questions[1].Answers[0].ID,
	})
	if !errors.Is(err, llm.ErrGenerationFailed) {
		t.Fatalf("error = %v, want generation failure", err)
	}

	// The answer write committed before the generation ran, so the
	// submission stays ACTIVE with both answers retained.
	sub, _ := subs.GetByUserAndTest(context.Background(), nil, userID, test.ID, false)
	if sub == nil || sub.Status != types.SubmissionActive {
		t.Fatalf("submission = %+v, want ACTIVE", sub)
	}
	answered, _ := subs.CountDistinctAnswered(context.Background(), nil, sub.ID)
	if answered != 2 {
		t.Fatalf("answered = %d, want 2", answered)
	}
}

func TestSubmitAnswerRejectsCompletedSubmission(t *testing.T) {
	test := twoQuestionTest()
	subs := newFakeSubmissionRepo()
	sub := &types.TestSubmission{UserID: uuid.New(), TestID: test.ID, Status: types.SubmissionCompleted}
	_ = subs.Create(context.Background(), nil, sub)
	svc := newTestService([]*types.Test{test}, subs, nil, nil, nil)

	_, err := svc.SubmitAnswer(context.Background(), sub.UserID, SubmitAnswerInput{
		TestID:     test.ID,
		QuestionID: test.Questions[0].ID,
		AnswerID:   test.Questions[0].Answers[0].ID,
	})
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("error = %v, want ErrAlreadyCompleted", err)
	}
}

func TestSubmitAnswerValidatesInput(t *testing.T) {
	test := twoQuestionTest()
	svc := newTestService([]*types.Test{test}, nil, nil, nil, nil)
	userID := uuid.New()

	// Unknown question.
	if _, err := svc.SubmitAnswer(context.Background(), userID, SubmitAnswerInput{
		TestID:     test.ID,
		QuestionID: uuid.New(),
		AnswerID:   uuid.New(),
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	// Answer from a different question.
	if _, err := svc.SubmitAnswer(context.Background(), userID, SubmitAnswerInput{
		TestID:     test.ID,
		QuestionID: test.Questions[0].ID,
		AnswerID:   test.Questions[1].Answers[0].ID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestGetSubmissionResultNotStarted(t *testing.T) {
	test := twoQuestionTest()
	svc := newTestService([]*types.Test{test}, nil, nil, nil, nil)

	if _, err := svc.GetSubmissionResult(context.Background(), uuid.New(), test.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetPersonalityAnalysisGates(t *testing.T) {
	testA := twoQuestionTest()
	testB := twoQuestionTest()
	subs := newFakeSubmissionRepo()
	analyzer := &fakeTestsAnalyzer{}
	svc := newTestService([]*types.Test{testA, testB}, subs, nil, nil, analyzer)
	userID := uuid.New()

	// No completed submissions at all.
	if _, err := svc.GetPersonalityAnalysis(context.Background(), userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	// One of two tests completed.
	_ = subs.Create(context.Background(), nil, &types.TestSubmission{
		UserID: userID, TestID: testA.ID, Status: types.SubmissionCompleted,
		AnalysisSummary: "s",
	})
	if _, err := svc.GetPersonalityAnalysis(context.Background(), userID); !errors.Is(err, ErrTestsIncomplete) {
		t.Fatalf("error = %v, want ErrTestsIncomplete", err)
	}
	if analyzer.bundleCalls != 0 {
		t.Fatalf("bundle calls = %d, want 0 while gated", analyzer.bundleCalls)
	}
}

func TestGetPersonalityAnalysisPersistsBundle(t *testing.T) {
	test := twoQuestionTest()
	professionID := uuid.New()
	subs := newFakeSubmissionRepo()
	_ = subs.Create(context.Background(), nil, &types.TestSubmission{
		UserID: uuid.Nil, TestID: test.ID,
	})
	userID := uuid.New()
	_ = subs.Create(context.Background(), nil, &types.TestSubmission{
		UserID: userID, TestID: test.ID, Status: types.SubmissionCompleted,
		AnalysisSummary:    "summary",
		AnalysisKeyFactors: datatypes.JSON(`["curious"]`),
	})

	professions := &fakeProfessionRepo{professions: []*types.Profession{{ID: professionID, Name: "Engineer"}}}
	analyses := &fakePersonalityAnalysisRepo{}
	analyzer := &fakeTestsAnalyzer{bundle: &llm.PersonalityBundle{
		MBTI: llm.MBTIAnalysis{Title: "t", MBTICode: "INTJ", MBTIName: "Architect"},
		Professions: []llm.ProfessionScore{
			{ProfessionID: professionID.String(), Percentage: 90},
			{ProfessionID: uuid.NewString(), Percentage: 50}, // unknown, dropped
			{ProfessionID: "not-a-uuid", Percentage: 10},     // malformed, dropped
		},
		Majors:     []llm.MajorPick{{Category: "CS"}},
		Attributes: []llm.AttributeInsight{{Type: types.AttributePros, Name: "focus", Description: "d", Recommendations: "r"}},
	}}
	svc := newTestService([]*types.Test{test}, subs, professions, analyses, analyzer)

	analysis, err := svc.GetPersonalityAnalysis(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analyses.stored) != 1 {
		t.Fatalf("stored analyses = %d, want 1", len(analyses.stored))
	}
	if analysis.MBTI == nil || analysis.MBTI.MBTICode != "INTJ" {
		t.Fatalf("mbti = %+v", analysis.MBTI)
	}
	if len(analysis.Professions) != 1 || analysis.Professions[0].ProfessionID != professionID {
		t.Fatalf("professions = %+v, want only the catalog match", analysis.Professions)
	}

	// A second call returns the stored analysis without regenerating.
	again, err := svc.GetPersonalityAnalysis(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != analysis.ID {
		t.Fatal("second call generated a new analysis")
	}
	if analyzer.bundleCalls != 1 {
		t.Fatalf("bundle calls = %d, want 1", analyzer.bundleCalls)
	}
}

func TestGetPersonalityAnalysisRejectsEmptyBundle(t *testing.T) {
	test := twoQuestionTest()
	userID := uuid.New()
	subs := newFakeSubmissionRepo()
	_ = subs.Create(context.Background(), nil, &types.TestSubmission{
		UserID: userID, TestID: test.ID, Status: types.SubmissionCompleted,
		AnalysisSummary: "summary",
	})

	analyses := &fakePersonalityAnalysisRepo{}
	// Every echoed profession id is unknown, so nothing survives catalog
	// verification and the aggregate must be rejected unstored.
	analyzer := &fakeTestsAnalyzer{bundle: &llm.PersonalityBundle{
		MBTI:        llm.MBTIAnalysis{MBTICode: "ENFP"},
		Professions: []llm.ProfessionScore{{ProfessionID: uuid.NewString(), Percentage: 70}},
		Attributes:  []llm.AttributeInsight{{Type: types.AttributeCons, Name: "n"}},
	}}
	svc := newTestService([]*types.Test{test}, subs, &fakeProfessionRepo{}, analyses, analyzer)

	_, err := svc.GetPersonalityAnalysis(context.Background(), userID)
	if !errors.Is(err, ErrAnalysisCorrupted) {
		t.Fatalf("error = %v, want ErrAnalysisCorrupted", err)
	}
	if len(analyses.stored) != 0 {
		t.Fatalf("stored analyses = %d, want 0", len(analyses.stored))
	}
}
