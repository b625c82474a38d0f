package app

import (
	"github.com/maulerrr/jinaq-backend/internal/handlers"
)

type Handlers struct {
	Healthcheck *handlers.HealthcheckHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Test        *handlers.TestHandler
	Institution *handlers.InstitutionHandler
	Country     *handlers.CountryHandler
	City        *handlers.CityHandler
	Profession  *handlers.ProfessionHandler
}

func wireHandlers(s Services) Handlers {
	return Handlers{
		Healthcheck: handlers.NewHealthcheckHandler(),
		Auth:        handlers.NewAuthHandler(s.Auth),
		User:        handlers.NewUserHandler(s.User),
		Test:        handlers.NewTestHandler(s.Test),
		Institution: handlers.NewInstitutionHandler(s.Institution),
		Country:     handlers.NewCountryHandler(s.Country),
		City:        handlers.NewCityHandler(s.City),
		Profession:  handlers.NewProfessionHandler(s.Profession),
	}
}
