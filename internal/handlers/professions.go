package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maulerrr/jinaq-backend/internal/services"
	"github.com/maulerrr/jinaq-backend/internal/utils"
)

type ProfessionHandler struct {
	professionService services.ProfessionService
}

func NewProfessionHandler(professionService services.ProfessionService) *ProfessionHandler {
	return &ProfessionHandler{professionService: professionService}
}

func (ph *ProfessionHandler) List(c *gin.Context) {
	var page utils.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	result, err := ph.professionService.List(c.Request.Context(), page)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
