package app

import (
	"github.com/gin-gonic/gin"

	"github.com/maulerrr/jinaq-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:        cfg.ServiceName,
		AllowOrigins:       cfg.AllowOrigins,
		AuthMiddleware:     m.Auth,
		HealthcheckHandler: h.Healthcheck,
		AuthHandler:        h.Auth,
		UserHandler:        h.User,
		TestHandler:        h.Test,
		InstitutionHandler: h.Institution,
		CountryHandler:     h.Country,
		CityHandler:        h.City,
		ProfessionHandler:  h.Profession,
	})
}
