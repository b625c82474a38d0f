package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/maulerrr/jinaq-backend/internal/clients/openai"
	"github.com/maulerrr/jinaq-backend/internal/logger"
	"github.com/maulerrr/jinaq-backend/internal/repos"
)

// maxInstitutionsForAnalysis caps how many institutions one chance-estimation
// prompt may carry so the serialized catalog stays inside the token budget.
const maxInstitutionsForAnalysis = 20

// TestResults is the prompt-side view of one completed submission: question
// and answer texts in question order.
type TestResults struct {
	TestName string           `json:"testName"`
	Results  []QuestionAnswer `json:"results"`
}

type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TestSummary is the stored short analysis of one completed submission, the
// unit the personality prompts consume.
type TestSummary struct {
	TestName   string   `json:"testName"`
	Summary    string   `json:"summary"`
	KeyFactors []string `json:"keyFactors"`
}

type userProfileContext struct {
	FirstName             string          `json:"firstName,omitempty"`
	LastName              string          `json:"lastName,omitempty"`
	AcademicInfo          json.RawMessage `json:"academicInfo,omitempty"`
	Interests             json.RawMessage `json:"interests,omitempty"`
	LanguageProficiencies json.RawMessage `json:"languageProficiencies,omitempty"`
}

type professionContext struct {
	ProfessionID string `json:"professionId"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
}

type institutionContext struct {
	InstitutionID  string `json:"institutionId"`
	Name           string `json:"name"`
	Type           string `json:"type,omitempty"`
	FinancingType  string `json:"financingType,omitempty"`
	Country        string `json:"country,omitempty"`
	City           string `json:"city,omitempty"`
	HasDorm        bool   `json:"hasDorm"`
	FoundationYear string `json:"foundationYear,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Builder renders prompt templates against stored context. Rendering is
// deterministic: the same stored rows always produce byte-identical messages,
// so retries within one generation never drift.
type Builder struct {
	log          *logger.Logger
	users        repos.UserRepo
	professions  repos.ProfessionRepo
	institutions repos.InstitutionRepo
}

func NewBuilder(baseLog *logger.Logger, users repos.UserRepo, professions repos.ProfessionRepo, institutions repos.InstitutionRepo) *Builder {
	return &Builder{
		log:          baseLog.With("component", "PromptBuilder"),
		users:        users,
		professions:  professions,
		institutions: institutions,
	}
}

// render substitutes every placeholder and fails on any leftover, so a
// template that grows a new variable cannot silently ship a literal
// "{{name}}" to the model.
func render(tpl Template, vars map[string]string) (BuiltPrompt, error) {
	user := tpl.User
	for name, value := range vars {
		user = strings.ReplaceAll(user, "{{"+name+"}}", value)
	}
	if i := strings.Index(user, "{{"); i >= 0 {
		rest := user[i:]
		end := strings.Index(rest, "}}")
		if end < 0 {
			end = len(rest) - 2
		}
		return BuiltPrompt{}, fmt.Errorf("unbound template placeholder %s", rest[:end+2])
	}
	return BuiltPrompt{
		Messages: []openai.Message{
			{Role: "system", Content: tpl.System},
			{Role: "user", Content: user},
		},
		MaxTokens: tpl.MaxTokens,
	}, nil
}

func mustJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize prompt context: %w", err)
	}
	return string(b), nil
}

func (b *Builder) BuildShortAnalysis(results TestResults) (BuiltPrompt, error) {
	serialized, err := mustJSON(results)
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(shortAnalysisTemplate, map[string]string{"testResults": serialized})
}

func (b *Builder) BuildMBTI(summaries []TestSummary) (BuiltPrompt, error) {
	serialized, err := mustJSON(summaries)
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(mbtiTemplate, map[string]string{"testSummaries": serialized})
}

func (b *Builder) BuildProfessions(ctx context.Context, summaries []TestSummary) (BuiltPrompt, error) {
	catalog, err := b.professions.ListAll(ctx, nil)
	if err != nil {
		return BuiltPrompt{}, fmt.Errorf("load profession catalog: %w", err)
	}
	contexts := make([]professionContext, 0, len(catalog))
	for _, p := range catalog {
		contexts = append(contexts, professionContext{
			ProfessionID: p.ID.String(),
			Name:         p.Name,
			Description:  p.Description,
			Category:     p.Category,
		})
	}
	serializedSummaries, err := mustJSON(summaries)
	if err != nil {
		return BuiltPrompt{}, err
	}
	serializedCatalog, err := mustJSON(contexts)
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(professionsTemplate, map[string]string{
		"testSummaries": serializedSummaries,
		"professions":   serializedCatalog,
	})
}

func (b *Builder) BuildMajors(summaries []TestSummary) (BuiltPrompt, error) {
	serialized, err := mustJSON(summaries)
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(majorsTemplate, map[string]string{"testSummaries": serialized})
}

func (b *Builder) BuildAttributes(summaries []TestSummary) (BuiltPrompt, error) {
	serialized, err := mustJSON(summaries)
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(attributesTemplate, map[string]string{"testSummaries": serialized})
}

func (b *Builder) BuildInstitutionChances(ctx context.Context, userID, countryID uuid.UUID) (BuiltPrompt, error) {
	profile, err := b.userProfile(ctx, userID)
	if err != nil {
		return BuiltPrompt{}, err
	}
	institutions, err := b.institutions.ListByCountry(ctx, nil, countryID, maxInstitutionsForAnalysis)
	if err != nil {
		return BuiltPrompt{}, fmt.Errorf("load institutions for country %s: %w", countryID, err)
	}
	if len(institutions) == 0 {
		return BuiltPrompt{}, fmt.Errorf("country %s has no institutions", countryID)
	}
	contexts := make([]institutionContext, 0, len(institutions))
	for _, inst := range institutions {
		contexts = append(contexts, institutionContextFrom(inst.ID.String(), inst.Name, inst.Type, inst.FinancingType, inst.FoundationYear, inst.Description, inst.HasDorm, "", ""))
	}
	serializedProfile, err := mustJSON(profile)
	if err != nil {
		return BuiltPrompt{}, err
	}
	serializedInstitutions, err := mustJSON(contexts)
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(institutionChancesTemplate, map[string]string{
		"userProfile":  serializedProfile,
		"institutions": serializedInstitutions,
	})
}

func (b *Builder) BuildInstitutionDeep(ctx context.Context, userID, institutionID uuid.UUID) (BuiltPrompt, error) {
	profile, err := b.userProfile(ctx, userID)
	if err != nil {
		return BuiltPrompt{}, err
	}
	institutions, err := b.institutions.GetByIDs(ctx, nil, []uuid.UUID{institutionID})
	if err != nil {
		return BuiltPrompt{}, fmt.Errorf("load institution %s: %w", institutionID, err)
	}
	if len(institutions) == 0 {
		return BuiltPrompt{}, fmt.Errorf("institution %s not found", institutionID)
	}
	inst := institutions[0]
	country := ""
	if inst.Country != nil {
		country = inst.Country.Name
	}
	city := ""
	if inst.City != nil {
		city = inst.City.Name
	}
	serializedProfile, err := mustJSON(profile)
	if err != nil {
		return BuiltPrompt{}, err
	}
	serializedInstitution, err := mustJSON(institutionContextFrom(
		inst.ID.String(), inst.Name, inst.Type, inst.FinancingType,
		inst.FoundationYear, inst.Description, inst.HasDorm, country, city))
	if err != nil {
		return BuiltPrompt{}, err
	}
	return render(institutionDeepTemplate, map[string]string{
		"userProfile": serializedProfile,
		"institution": serializedInstitution,
	})
}

func (b *Builder) userProfile(ctx context.Context, userID uuid.UUID) (userProfileContext, error) {
	users, err := b.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return userProfileContext{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	if len(users) == 0 {
		return userProfileContext{}, fmt.Errorf("user %s not found", userID)
	}
	u := users[0]
	return userProfileContext{
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		AcademicInfo:          json.RawMessage(u.AcademicInfo),
		Interests:             json.RawMessage(u.Interests),
		LanguageProficiencies: json.RawMessage(u.LanguageProficiencies),
	}, nil
}

func institutionContextFrom(id, name, instType, financing, foundationYear, description string, hasDorm bool, country, city string) institutionContext {
	return institutionContext{
		InstitutionID:  id,
		Name:           name,
		Type:           instType,
		FinancingType:  financing,
		Country:        country,
		City:           city,
		HasDorm:        hasDorm,
		FoundationYear: foundationYear,
		Description:    description,
	}
}
