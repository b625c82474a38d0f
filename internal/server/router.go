package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/maulerrr/jinaq-backend/internal/handlers"
	"github.com/maulerrr/jinaq-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	AllowOrigins       []string
	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	TestHandler        *handlers.TestHandler
	InstitutionHandler *handlers.InstitutionHandler
	CountryHandler     *handlers.CountryHandler
	CityHandler        *handlers.CityHandler
	ProfessionHandler  *handlers.ProfessionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/refresh", cfg.AuthHandler.Refresh)

		api.GET("/countries", cfg.CountryHandler.List)
		api.GET("/countries/:countryId/cities", cfg.CityHandler.ListByCountry)
		api.GET("/professions", cfg.ProfessionHandler.List)
		api.GET("/institutions", cfg.InstitutionHandler.List)
		api.GET("/institutions/:institutionId", cfg.InstitutionHandler.Get)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)

		protected.GET("/users/me", cfg.UserHandler.GetProfile)
		protected.PATCH("/users/me", cfg.UserHandler.UpdateProfile)

		protected.GET("/tests", cfg.TestHandler.List)
		protected.GET("/tests/:testId", cfg.TestHandler.Get)
		protected.POST("/tests/:testId/answers", cfg.TestHandler.SubmitAnswer)
		protected.GET("/tests/:testId/result", cfg.TestHandler.GetSubmissionResult)
		protected.GET("/submissions", cfg.TestHandler.ListSubmissions)

		protected.GET("/analysis/personality", cfg.TestHandler.GetPersonalityAnalysis)
		protected.GET("/analysis/institutions", cfg.InstitutionHandler.GetAnalysis)
		protected.GET("/analysis/institutions/:institutionId", cfg.InstitutionHandler.GetAnalysisDetail)
	}

	return router
}
