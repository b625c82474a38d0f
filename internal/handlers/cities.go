package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/services"
)

type CityHandler struct {
	cityService services.CityService
}

func NewCityHandler(cityService services.CityService) *CityHandler {
	return &CityHandler{cityService: cityService}
}

func (ch *CityHandler) ListByCountry(c *gin.Context) {
	countryID, err := uuid.Parse(c.Param("countryId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	cities, err := ch.cityService.ListByCountry(c.Request.Context(), countryID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, cities)
}
