package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/repos"
	"github.com/maulerrr/jinaq-backend/internal/requestdata"
	"github.com/maulerrr/jinaq-backend/internal/services"
	"github.com/maulerrr/jinaq-backend/internal/utils"
)

type InstitutionHandler struct {
	institutionService services.InstitutionService
}

func NewInstitutionHandler(institutionService services.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

func (ih *InstitutionHandler) List(c *gin.Context) {
	var page utils.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	filter := repos.InstitutionFilter{
		FinancingType: c.Query("financing_type"),
		Type:          c.Query("type"),
		Search:        c.Query("search"),
	}
	if raw := c.Query("country_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		filter.CountryID = &id
	}
	if raw := c.Query("city_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		filter.CityID = &id
	}
	if raw := c.Query("has_dorm"); raw != "" {
		hasDorm := raw == "true"
		filter.HasDorm = &hasDorm
	}

	result, err := ih.institutionService.List(c.Request.Context(), filter, page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ih *InstitutionHandler) Get(c *gin.Context) {
	institutionID, err := uuid.Parse(c.Param("institutionId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	institution, err := ih.institutionService.Get(c.Request.Context(), institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, institution)
}

func (ih *InstitutionHandler) GetAnalysis(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrInvalidCredentials)
		return
	}
	countryID, err := uuid.Parse(c.Query("country_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	analysis, err := ih.institutionService.GetAnalysis(c.Request.Context(), rd.UserID, countryID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analysis)
}

func (ih *InstitutionHandler) GetAnalysisDetail(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrInvalidCredentials)
		return
	}
	institutionID, err := uuid.Parse(c.Param("institutionId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	entry, err := ih.institutionService.GetAnalysisDetail(c.Request.Context(), rd.UserID, institutionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, entry)
}
