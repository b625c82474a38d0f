package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maulerrr/jinaq-backend/internal/llm"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
	"github.com/maulerrr/jinaq-backend/internal/types"
	"github.com/maulerrr/jinaq-backend/internal/utils"
)

type InstitutionService interface {
	List(ctx context.Context, filter repos.InstitutionFilter, page utils.PageRequest) (*utils.Paginated[*types.Institution], error)
	Get(ctx context.Context, institutionID uuid.UUID) (*types.Institution, error)
	// GetAnalysis returns the user's chance-ranked institution analysis for
	// a country, generating and persisting it on first request.
	GetAnalysis(ctx context.Context, userID, countryID uuid.UUID) (*types.InstitutionAnalysis, error)
	// GetAnalysisDetail returns one entry of the analysis with its deep
	// attributes and preparation plan, generating the deep phase on first
	// view of that entry.
	GetAnalysisDetail(ctx context.Context, userID, institutionID uuid.UUID) (*types.InstitutionAnalysisEntry, error)
}

type institutionService struct {
	log             *logger.Logger
	txRunner        repos.TxRunner
	institutionRepo repos.InstitutionRepo
	countryRepo     repos.CountryRepo
	analysisRepo    repos.InstitutionAnalysisRepo
	analyzer        llm.InstitutionsAnalyzer
}

func NewInstitutionService(
	log *logger.Logger,
	txRunner repos.TxRunner,
	institutionRepo repos.InstitutionRepo,
	countryRepo repos.CountryRepo,
	analysisRepo repos.InstitutionAnalysisRepo,
	analyzer llm.InstitutionsAnalyzer,
) InstitutionService {
	return &institutionService{
		log:             log.With("service", "InstitutionService"),
		txRunner:        txRunner,
		institutionRepo: institutionRepo,
		countryRepo:     countryRepo,
		analysisRepo:    analysisRepo,
		analyzer:        analyzer,
	}
}

func (is *institutionService) List(ctx context.Context, filter repos.InstitutionFilter, page utils.PageRequest) (*utils.Paginated[*types.Institution], error) {
	page = page.Normalize()
	institutions, total, err := is.institutionRepo.List(ctx, nil, filter, page.Offset(), page.Limit())
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	out := utils.NewPaginated(institutions, page, total)
	return &out, nil
}

func (is *institutionService) Get(ctx context.Context, institutionID uuid.UUID) (*types.Institution, error) {
	institutions, err := is.institutionRepo.GetByIDs(ctx, nil, []uuid.UUID{institutionID})
	if err != nil {
		return nil, fmt.Errorf("load institution: %w", err)
	}
	if len(institutions) == 0 {
		return nil, ErrNotFound
	}
	return institutions[0], nil
}

func (is *institutionService) GetAnalysis(ctx context.Context, userID, countryID uuid.UUID) (*types.InstitutionAnalysis, error) {
	existing, err := is.analysisRepo.GetLatestByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	countries, err := is.countryRepo.GetByIDs(ctx, nil, []uuid.UUID{countryID})
	if err != nil {
		return nil, fmt.Errorf("load country: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrNotFound
	}

	chances, err := is.analyzer.InstitutionChances(ctx, userID, countryID)
	if err != nil {
		return nil, fmt.Errorf("institution chances: %w", err)
	}

	analysis, err := is.assembleAnalysis(ctx, userID, chances)
	if err != nil {
		return nil, err
	}
	err = is.txRunner.InTx(ctx, func(tx *gorm.DB) error {
		return is.analysisRepo.Create(ctx, tx, analysis)
	})
	if err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}
	is.log.Info("institution analysis persisted",
		"user_id", userID, "analysis_id", analysis.ID, "entries", len(analysis.Entries))

	// Reload so entries come back chance-ordered with institutions attached.
	return is.analysisRepo.GetLatestByUser(ctx, nil, userID)
}

// assembleAnalysis verifies every echoed institution ID against the catalog
// and drops unknowns. An analysis with no surviving entries is rejected.
func (is *institutionService) assembleAnalysis(ctx context.Context, userID uuid.UUID, chances []llm.InstitutionChance) (*types.InstitutionAnalysis, error) {
	echoed := make([]uuid.UUID, 0, len(chances))
	chanceByID := make(map[uuid.UUID]float64, len(chances))
	for _, c := range chances {
		id, err := uuid.Parse(c.InstitutionID)
		if err != nil {
			is.log.Warn("model echoed malformed institution id", "user_id", userID, "institution_id", c.InstitutionID)
			continue
		}
		if _, dup := chanceByID[id]; dup {
			continue
		}
		echoed = append(echoed, id)
		chanceByID[id] = c.ChancePercentage
	}
	known, err := is.institutionRepo.GetByIDs(ctx, nil, echoed)
	if err != nil {
		return nil, fmt.Errorf("verify institutions: %w", err)
	}
	entries := make([]types.InstitutionAnalysisEntry, 0, len(known))
	for _, inst := range known {
		entries = append(entries, types.InstitutionAnalysisEntry{
			InstitutionID:    inst.ID,
			ChancePercentage: chanceByID[inst.ID],
		})
	}
	if len(entries) == 0 {
		return nil, ErrAnalysisCorrupted
	}
	return &types.InstitutionAnalysis{UserID: userID, Entries: entries}, nil
}

func (is *institutionService) GetAnalysisDetail(ctx context.Context, userID, institutionID uuid.UUID) (*types.InstitutionAnalysisEntry, error) {
	analysis, err := is.analysisRepo.GetLatestByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	if analysis == nil {
		return nil, ErrNotFound
	}
	entry, err := is.analysisRepo.GetEntry(ctx, nil, analysis.ID, institutionID)
	if err != nil {
		return nil, fmt.Errorf("load analysis entry: %w", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if len(entry.Attributes) > 0 || len(entry.PlanSteps) > 0 {
		return entry, nil
	}

	deep, err := is.analyzer.InstitutionDeep(ctx, userID, institutionID)
	if err != nil {
		return nil, fmt.Errorf("institution deep analysis: %w", err)
	}
	// Both collections must exist: a report with pros and cons but no plan
	// (or the reverse) is worse than no report.
	if len(deep.Attributes) == 0 || len(deep.Plan) == 0 {
		return nil, ErrAnalysisCorrupted
	}

	attributes := make([]types.InstitutionAttribute, 0, len(deep.Attributes))
	for _, a := range deep.Attributes {
		attributes = append(attributes, types.InstitutionAttribute{
			Name:           a.Name,
			Type:           a.Type,
			Description:    a.Description,
			Recommendation: a.Recommendation,
		})
	}
	steps := make([]types.InstitutionPlanStep, 0, len(deep.Plan))
	for _, p := range deep.Plan {
		steps = append(steps, types.InstitutionPlanStep{
			Order:         p.Order,
			Name:          p.Name,
			Description:   p.Description,
			DurationMonth: p.DurationMonth,
		})
	}

	err = is.txRunner.InTx(ctx, func(tx *gorm.DB) error {
		// Another request may have detailed this entry while the model ran.
		detailed, err := is.analysisRepo.HasEntryDetail(ctx, tx, entry.ID)
		if err != nil {
			return fmt.Errorf("check entry detail: %w", err)
		}
		if detailed {
			return nil
		}
		return is.analysisRepo.AddEntryDetail(ctx, tx, entry.ID, attributes, steps)
	})
	if err != nil {
		return nil, fmt.Errorf("persist entry detail: %w", err)
	}

	return is.analysisRepo.GetEntry(ctx, nil, analysis.ID, institutionID)
}
