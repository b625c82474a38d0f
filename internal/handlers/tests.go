package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/requestdata"
	"github.com/maulerrr/jinaq-backend/internal/services"
)

type TestHandler struct {
	testService services.TestService
}

func NewTestHandler(testService services.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

func (th *TestHandler) List(c *gin.Context) {
	tests, err := th.testService.ListTests(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tests)
}

func (th *TestHandler) Get(c *gin.Context) {
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	test, err := th.testService.GetTest(c.Request.Context(), testID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, test)
}

func (th *TestHandler) ListSubmissions(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrInvalidCredentials)
		return
	}
	overviews, err := th.testService.ListSubmissions(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, overviews)
}

func (th *TestHandler) SubmitAnswer(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrInvalidCredentials)
		return
	}
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		QuestionID uuid.UUID `json:"question_id" binding:"required"`
		AnswerID   uuid.UUID `json:"answer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := th.testService.SubmitAnswer(c.Request.Context(), rd.UserID, services.SubmitAnswerInput{
		TestID:     testID,
		QuestionID: req.QuestionID,
		AnswerID:   req.AnswerID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (th *TestHandler) GetSubmissionResult(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrInvalidCredentials)
		return
	}
	testID, err := uuid.Parse(c.Param("testId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	submission, err := th.testService.GetSubmissionResult(c.Request.Context(), rd.UserID, testID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, submission)
}

func (th *TestHandler) GetPersonalityAnalysis(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrInvalidCredentials)
		return
	}
	analysis, err := th.testService.GetPersonalityAnalysis(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analysis)
}
