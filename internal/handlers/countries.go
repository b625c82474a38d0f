package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maulerrr/jinaq-backend/internal/services"
)

type CountryHandler struct {
	countryService services.CountryService
}

func NewCountryHandler(countryService services.CountryService) *CountryHandler {
	return &CountryHandler{countryService: countryService}
}

func (ch *CountryHandler) List(c *gin.Context) {
	countries, err := ch.countryService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, countries)
}
