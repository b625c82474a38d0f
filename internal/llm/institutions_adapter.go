package llm

import (
	"context"

	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/clients/openai"
	"github.com/maulerrr/jinaq-backend/internal/logger"
)

// InstitutionsAnalyzer produces the two institution generation results: the
// coarse chance ranking for a country's institutions and the deep per-
// institution readiness report.
type InstitutionsAnalyzer interface {
	InstitutionChances(ctx context.Context, userID, countryID uuid.UUID) ([]InstitutionChance, error)
	InstitutionDeep(ctx context.Context, userID, institutionID uuid.UUID) (*InstitutionDeepAnalysis, error)
}

type institutionsAnalyzer struct {
	log     *logger.Logger
	client  openai.CompletionClient
	builder *Builder
}

func NewInstitutionsAnalyzer(baseLog *logger.Logger, client openai.CompletionClient, builder *Builder) InstitutionsAnalyzer {
	return &institutionsAnalyzer{
		log:     baseLog.With("component", "InstitutionsAnalyzer"),
		client:  client,
		builder: builder,
	}
}

func (a *institutionsAnalyzer) InstitutionChances(ctx context.Context, userID, countryID uuid.UUID) ([]InstitutionChance, error) {
	log := a.log.With("user_id", userID, "country_id", countryID)
	return generate[[]InstitutionChance](ctx, log, a.client, "institution_chances",
		func(ctx context.Context) (BuiltPrompt, error) {
			return a.builder.BuildInstitutionChances(ctx, userID, countryID)
		},
		"[]", validateInstitutionChances)
}

func (a *institutionsAnalyzer) InstitutionDeep(ctx context.Context, userID, institutionID uuid.UUID) (*InstitutionDeepAnalysis, error) {
	log := a.log.With("user_id", userID, "institution_id", institutionID)
	out, err := generate[InstitutionDeepAnalysis](ctx, log, a.client, "institution_deep",
		func(ctx context.Context) (BuiltPrompt, error) {
			return a.builder.BuildInstitutionDeep(ctx, userID, institutionID)
		},
		"{}", validateInstitutionDeep)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
