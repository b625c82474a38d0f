package app

import (
	"github.com/maulerrr/jinaq-backend/internal/llm"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Country     services.CountryService
	City        services.CityService
	Profession  services.ProfessionService
	Test        services.TestService
	Institution services.InstitutionService
}

func wireServices(log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	builder := llm.NewBuilder(log, r.User, r.Profession, r.Institution)
	testsAnalyzer := llm.NewTestsAnalyzer(log, c.OpenAI, builder)
	institutionsAnalyzer := llm.NewInstitutionsAnalyzer(log, c.OpenAI, builder)

	return Services{
		Auth:        services.NewAuthService(log, r.TxRunner, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTTL, cfg.RefreshTTL),
		User:        services.NewUserService(log, r.User),
		Country:     services.NewCountryService(log, r.Country, c.Cache),
		City:        services.NewCityService(log, r.City, r.Country),
		Profession:  services.NewProfessionService(log, r.Profession, c.Cache),
		Test:        services.NewTestService(log, r.TxRunner, r.Test, r.Submission, r.Profession, r.PersonalityAnalysis, testsAnalyzer),
		Institution: services.NewInstitutionService(log, r.TxRunner, r.Institution, r.Country, r.InstitutionAnalysis, institutionsAnalyzer),
	}
}
