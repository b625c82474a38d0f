package app

import (
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
)

type Repos struct {
	TxRunner            repos.TxRunner
	User                repos.UserRepo
	UserToken           repos.UserTokenRepo
	Country             repos.CountryRepo
	City                repos.CityRepo
	Profession          repos.ProfessionRepo
	Institution         repos.InstitutionRepo
	Test                repos.TestRepo
	Submission          repos.SubmissionRepo
	PersonalityAnalysis repos.PersonalityAnalysisRepo
	InstitutionAnalysis repos.InstitutionAnalysisRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		TxRunner:            repos.NewGormTxRunner(db),
		User:                repos.NewUserRepo(db, log),
		UserToken:           repos.NewUserTokenRepo(db, log),
		Country:             repos.NewCountryRepo(db, log),
		City:                repos.NewCityRepo(db, log),
		Profession:          repos.NewProfessionRepo(db, log),
		Institution:         repos.NewInstitutionRepo(db, log),
		Test:                repos.NewTestRepo(db, log),
		Submission:          repos.NewSubmissionRepo(db, log),
		PersonalityAnalysis: repos.NewPersonalityAnalysisRepo(db, log),
		InstitutionAnalysis: repos.NewInstitutionAnalysisRepo(db, log),
	}
}
