package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/llm"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
	"github.com/maulerrr/jinaq-backend/internal/types"
)

const uniqueViolationCode = "23505"

type SubmitAnswerInput struct {
	TestID     uuid.UUID `json:"test_id"`
	QuestionID uuid.UUID `json:"question_id"`
	AnswerID   uuid.UUID `json:"answer_id"`
}

type SubmitAnswerResult struct {
	SubmissionID   uuid.UUID       `json:"submission_id"`
	Status         string          `json:"status"`
	AnsweredCount  int64           `json:"answered_count"`
	TotalQuestions int64           `json:"total_questions"`
	NextQuestion   *types.Question `json:"next_question,omitempty"`
}

type SubmissionOverview struct {
	Test           *types.Test `json:"test"`
	Status         string      `json:"status"`
	AnsweredCount  int64       `json:"answered_count"`
	TotalQuestions int64       `json:"total_questions"`
}

type TestService interface {
	ListTests(ctx context.Context) ([]*types.Test, error)
	GetTest(ctx context.Context, testID uuid.UUID) (*types.Test, error)
	ListSubmissions(ctx context.Context, userID uuid.UUID) ([]*SubmissionOverview, error)
	// SubmitAnswer records one answer and advances the submission state
	// machine. Recording the final answer triggers the short analysis and,
	// on success, the COMPLETED transition.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, in SubmitAnswerInput) (*SubmitAnswerResult, error)
	GetSubmissionResult(ctx context.Context, userID, testID uuid.UUID) (*types.TestSubmission, error)
	// GetPersonalityAnalysis returns the stored analysis, generating and
	// persisting one atomically when none exists yet. It requires every
	// test to be completed first.
	GetPersonalityAnalysis(ctx context.Context, userID uuid.UUID) (*types.PersonalityAnalysis, error)
}

type testService struct {
	log            *logger.Logger
	txRunner       repos.TxRunner
	testRepo       repos.TestRepo
	submissionRepo repos.SubmissionRepo
	professionRepo repos.ProfessionRepo
	analysisRepo   repos.PersonalityAnalysisRepo
	analyzer       llm.TestsAnalyzer
}

func NewTestService(
	log *logger.Logger,
	txRunner repos.TxRunner,
	testRepo repos.TestRepo,
	submissionRepo repos.SubmissionRepo,
	professionRepo repos.ProfessionRepo,
	analysisRepo repos.PersonalityAnalysisRepo,
	analyzer llm.TestsAnalyzer,
) TestService {
	return &testService{
		log:            log.With("service", "TestService"),
		txRunner:       txRunner,
		testRepo:       testRepo,
		submissionRepo: submissionRepo,
		professionRepo: professionRepo,
		analysisRepo:   analysisRepo,
		analyzer:       analyzer,
	}
}

func (ts *testService) ListTests(ctx context.Context) ([]*types.Test, error) {
	tests, err := ts.testRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

func (ts *testService) GetTest(ctx context.Context, testID uuid.UUID) (*types.Test, error) {
	test, err := ts.testRepo.GetByID(ctx, nil, testID)
	if err != nil {
		return nil, fmt.Errorf("load test: %w", err)
	}
	if test == nil {
		return nil, ErrNotFound
	}
	return test, nil
}

func (ts *testService) ListSubmissions(ctx context.Context, userID uuid.UUID) ([]*SubmissionOverview, error) {
	tests, err := ts.testRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	submissions, err := ts.submissionRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	byTest := make(map[uuid.UUID]*types.TestSubmission, len(submissions))
	for _, s := range submissions {
		byTest[s.TestID] = s
	}

	overviews := make([]*SubmissionOverview, 0, len(tests))
	for _, test := range tests {
		total, err := ts.testRepo.CountQuestions(ctx, nil, test.ID)
		if err != nil {
			return nil, fmt.Errorf("count questions: %w", err)
		}
		overview := &SubmissionOverview{
			Test:           test,
			Status:         types.SubmissionNotStarted,
			TotalQuestions: total,
		}
		if s, ok := byTest[test.ID]; ok {
			overview.Status = s.Status
			answered, err := ts.submissionRepo.CountDistinctAnswered(ctx, nil, s.ID)
			if err != nil {
				return nil, fmt.Errorf("count answered: %w", err)
			}
			overview.AnsweredCount = answered
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

func (ts *testService) SubmitAnswer(ctx context.Context, userID uuid.UUID, in SubmitAnswerInput) (*SubmitAnswerResult, error) {
	question, err := ts.testRepo.GetQuestion(ctx, nil, in.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if question == nil || question.TestID != in.TestID {
		return nil, ErrNotFound
	}
	validAnswer := false
	for _, a := range question.Answers {
		if a.ID == in.AnswerID {
			validAnswer = true
			break
		}
	}
	if !validAnswer {
		return nil, fmt.Errorf("%w: answer does not belong to question", ErrInvalidInput)
	}

	totalQuestions, err := ts.testRepo.CountQuestions(ctx, nil, in.TestID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if totalQuestions == 0 {
		return nil, ErrNotFound
	}

	// First transaction: the answer write. It commits independently of the
	// analysis generation so a model failure never loses the user's answer.
	var result SubmitAnswerResult
	err = ts.txRunner.InTx(ctx, func(tx *gorm.DB) error {
		submission, err := ts.lockOrCreateSubmission(ctx, tx, userID, in.TestID)
		if err != nil {
			return err
		}
		if submission.Status == types.SubmissionCompleted {
			return ErrAlreadyCompleted
		}

		if err := ts.submissionRepo.CreateAnswer(ctx, tx, &types.SubmittedAnswer{
			SubmissionID: submission.ID,
			QuestionID:   in.QuestionID,
			AnswerID:     in.AnswerID,
		}); err != nil {
			return fmt.Errorf("record answer: %w", err)
		}

		answered, err := ts.submissionRepo.CountDistinctAnswered(ctx, tx, submission.ID)
		if err != nil {
			return fmt.Errorf("count answered: %w", err)
		}
		if submission.Status == types.SubmissionNotStarted {
			if err := ts.submissionRepo.UpdateStatus(ctx, tx, submission.ID, types.SubmissionActive); err != nil {
				return fmt.Errorf("activate submission: %w", err)
			}
			submission.Status = types.SubmissionActive
		}

		result = SubmitAnswerResult{
			SubmissionID:   submission.ID,
			Status:         submission.Status,
			AnsweredCount:  answered,
			TotalQuestions: totalQuestions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AnsweredCount < totalQuestions {
		next, err := ts.testRepo.GetNextQuestion(ctx, nil, in.TestID, question.Order)
		if err != nil {
			return nil, fmt.Errorf("load next question: %w", err)
		}
		result.NextQuestion = next
		return &result, nil
	}

	if err := ts.completeSubmission(ctx, userID, in.TestID, result.SubmissionID); err != nil {
		return nil, err
	}
	result.Status = types.SubmissionCompleted
	return &result, nil
}

// lockOrCreateSubmission takes the submission row lock, creating the row on
// first use. A concurrent creator losing the insert race falls back to
// locking the winner's row.
func (ts *testService) lockOrCreateSubmission(ctx context.Context, tx *gorm.DB, userID, testID uuid.UUID) (*types.TestSubmission, error) {
	submission, err := ts.submissionRepo.GetByUserAndTest(ctx, tx, userID, testID, true)
	if err != nil {
		return nil, fmt.Errorf("lock submission: %w", err)
	}
	if submission != nil {
		return submission, nil
	}

	submission = &types.TestSubmission{
		UserID: userID,
		TestID: testID,
		Status: types.SubmissionNotStarted,
	}
	if err := ts.submissionRepo.Create(ctx, tx, submission); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			submission, err = ts.submissionRepo.GetByUserAndTest(ctx, tx, userID, testID, true)
			if err != nil {
				return nil, fmt.Errorf("lock submission after insert race: %w", err)
			}
			if submission == nil {
				return nil, fmt.Errorf("submission vanished after unique violation")
			}
			return submission, nil
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return submission, nil
}

// completeSubmission generates the short analysis outside any transaction,
// then re-locks the row and performs the terminal transition exactly once.
func (ts *testService) completeSubmission(ctx context.Context, userID, testID, submissionID uuid.UUID) error {
	full, err := ts.submissionRepo.GetWithAnswers(ctx, nil, submissionID)
	if err != nil {
		return fmt.Errorf("load submission answers: %w", err)
	}
	if full == nil {
		return ErrNotFound
	}

	results := llm.TestResults{Results: make([]llm.QuestionAnswer, 0, len(full.Answers))}
	if full.Test != nil {
		results.TestName = full.Test.Name
	}
	for _, a := range full.Answers {
		qa := llm.QuestionAnswer{}
		if a.Question != nil {
			qa.Question = a.Question.Text
		}
		if a.Answer != nil {
			qa.Answer = a.Answer.Text
		}
		results.Results = append(results.Results, qa)
	}

	analysis, err := ts.analyzer.ShortAnalysis(ctx, userID, results)
	if err != nil {
		return fmt.Errorf("short analysis for submission %s: %w", submissionID, err)
	}
	keyFactors, err := json.Marshal(analysis.KeyFactors)
	if err != nil {
		return fmt.Errorf("serialize key factors: %w", err)
	}

	return ts.txRunner.InTx(ctx, func(tx *gorm.DB) error {
		locked, err := ts.submissionRepo.GetByUserAndTest(ctx, tx, userID, testID, true)
		if err != nil {
			return fmt.Errorf("lock submission: %w", err)
		}
		if locked == nil {
			return ErrNotFound
		}
		if locked.Status == types.SubmissionCompleted {
			return nil
		}
		return ts.submissionRepo.Complete(ctx, tx, locked.ID, analysis.Summary, datatypes.JSON(keyFactors))
	})
}

func (ts *testService) GetSubmissionResult(ctx context.Context, userID, testID uuid.UUID) (*types.TestSubmission, error) {
	submission, err := ts.submissionRepo.GetByUserAndTest(ctx, nil, userID, testID, false)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if submission == nil {
		return nil, ErrNotFound
	}
	full, err := ts.submissionRepo.GetWithAnswers(ctx, nil, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("load submission answers: %w", err)
	}
	if full == nil {
		return nil, ErrNotFound
	}
	return full, nil
}

func (ts *testService) GetPersonalityAnalysis(ctx context.Context, userID uuid.UUID) (*types.PersonalityAnalysis, error) {
	existing, err := ts.analysisRepo.GetLatestByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	completed, err := ts.submissionRepo.CountCompletedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count completed submissions: %w", err)
	}
	if completed == 0 {
		return nil, ErrNotFound
	}
	totalTests, err := ts.testRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count tests: %w", err)
	}
	if completed < totalTests {
		return nil, ErrTestsIncomplete
	}

	summaries, err := ts.collectSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	bundle, err := ts.analyzer.PersonalityAnalysis(ctx, userID, summaries)
	if err != nil {
		return nil, fmt.Errorf("personality analysis: %w", err)
	}

	analysis, err := ts.assembleAnalysis(ctx, userID, bundle)
	if err != nil {
		return nil, err
	}

	err = ts.txRunner.InTx(ctx, func(tx *gorm.DB) error {
		return ts.analysisRepo.Create(ctx, tx, analysis)
	})
	if err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}
	ts.log.Info("personality analysis persisted", "user_id", userID, "analysis_id", analysis.ID)
	return analysis, nil
}

func (ts *testService) collectSummaries(ctx context.Context, userID uuid.UUID) ([]llm.TestSummary, error) {
	submissions, err := ts.submissionRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	summaries := make([]llm.TestSummary, 0, len(submissions))
	for _, s := range submissions {
		if s.Status != types.SubmissionCompleted {
			continue
		}
		summary := llm.TestSummary{Summary: s.AnalysisSummary}
		if s.Test != nil {
			summary.TestName = s.Test.Name
		}
		if len(s.AnalysisKeyFactors) > 0 {
			if err := json.Unmarshal(s.AnalysisKeyFactors, &summary.KeyFactors); err != nil {
				ts.log.Warn("stored key factors are not valid JSON", "submission_id", s.ID, "error", err)
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// assembleAnalysis maps the validated bundle onto the persistence aggregate.
// Profession IDs echoed by the model are checked against the catalog;
// unknown IDs are dropped. An aggregate with no usable professions or no
// attributes is rejected rather than stored half-empty.
func (ts *testService) assembleAnalysis(ctx context.Context, userID uuid.UUID, bundle *llm.PersonalityBundle) (*types.PersonalityAnalysis, error) {
	shortAttrs, err := json.Marshal(bundle.MBTI.ShortAttributes)
	if err != nil {
		return nil, fmt.Errorf("serialize short attributes: %w", err)
	}
	workStyles, err := json.Marshal(bundle.MBTI.WorkStyles)
	if err != nil {
		return nil, fmt.Errorf("serialize work styles: %w", err)
	}

	echoed := make([]uuid.UUID, 0, len(bundle.Professions))
	scoreByID := make(map[uuid.UUID]float64, len(bundle.Professions))
	for _, p := range bundle.Professions {
		id, err := uuid.Parse(p.ProfessionID)
		if err != nil {
			ts.log.Warn("model echoed malformed profession id", "user_id", userID, "profession_id", p.ProfessionID)
			continue
		}
		echoed = append(echoed, id)
		scoreByID[id] = p.Percentage
	}
	known, err := ts.professionRepo.GetByIDs(ctx, nil, echoed)
	if err != nil {
		return nil, fmt.Errorf("verify professions: %w", err)
	}
	matches := make([]types.ProfessionMatch, 0, len(known))
	for _, p := range known {
		matches = append(matches, types.ProfessionMatch{
			ProfessionID: p.ID,
			Percentage:   scoreByID[p.ID],
		})
	}
	if len(matches) == 0 || len(bundle.Attributes) == 0 {
		return nil, ErrAnalysisCorrupted
	}

	majors := make([]types.MajorRecommendation, 0, len(bundle.Majors))
	for _, m := range bundle.Majors {
		majors = append(majors, types.MajorRecommendation{Category: m.Category})
	}
	attributes := make([]types.AnalysisAttribute, 0, len(bundle.Attributes))
	for _, a := range bundle.Attributes {
		attributes = append(attributes, types.AnalysisAttribute{
			Type:            a.Type,
			Name:            a.Name,
			Description:     a.Description,
			Recommendations: a.Recommendations,
		})
	}

	return &types.PersonalityAnalysis{
		UserID: userID,
		MBTI: &types.MBTIResult{
			Title:                  bundle.MBTI.Title,
			Description:            bundle.MBTI.Description,
			MBTICode:               bundle.MBTI.MBTICode,
			MBTIName:               bundle.MBTI.MBTIName,
			ShortAttributes:        datatypes.JSON(shortAttrs),
			WorkStyles:             datatypes.JSON(workStyles),
			IntroversionPercentage: bundle.MBTI.IntroversionPercentage,
			ThinkingPercentage:     bundle.MBTI.ThinkingPercentage,
			CreativityPercentage:   bundle.MBTI.CreativityPercentage,
			IntuitionPercentage:    bundle.MBTI.IntuitionPercentage,
			PlanningPercentage:     bundle.MBTI.PlanningPercentage,
			LeadingPercentage:      bundle.MBTI.LeadingPercentage,
		},
		Professions: matches,
		Majors:      majors,
		Attributes:  attributes,
	}, nil
}
