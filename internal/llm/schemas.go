package llm

import (
	"fmt"

	"github.com/maulerrr/jinaq-backend/internal/types"
)

// Response schemas for each generation family. The shape validators below
// check required fields and primitive/array types on the parsed JSON value
// before anything is decoded into these structs.

type ShortAnalysis struct {
	Summary    string   `json:"analysis_summary"`
	KeyFactors []string `json:"analysis_key_factors"`
}

type MBTIAnalysis struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	MBTICode               string   `json:"mbtiCode"`
	MBTIName               string   `json:"mbtiName"`
	ShortAttributes        []string `json:"shortAttributes"`
	WorkStyles             []string `json:"workStyles"`
	IntroversionPercentage int      `json:"introversionPercentage"`
	ThinkingPercentage     int      `json:"thinkingPercentage"`
	CreativityPercentage   int      `json:"creativityPercentage"`
	IntuitionPercentage    int      `json:"intuitionPercentage"`
	PlanningPercentage     int      `json:"planningPercentage"`
	LeadingPercentage      int      `json:"leadingPercentage"`
}

type ProfessionScore struct {
	ProfessionID string  `json:"professionId"`
	Percentage   float64 `json:"percentage"`
}

type MajorPick struct {
	Category string `json:"category"`
}

type AttributeInsight struct {
	Type            string `json:"type"` // PROS|CONS
	Name            string `json:"name"`
	Description     string `json:"description"`
	Recommendations string `json:"recommendations"`
}

type InstitutionChance struct {
	InstitutionID    string  `json:"institutionId"`
	ChancePercentage float64 `json:"chancePercentage"`
}

type DeepAttribute struct {
	Name           string `json:"name"`
	Type           string `json:"type"` // PROS|CONS
	Recommendation string `json:"recommendation,omitempty"`
	Description    string `json:"description,omitempty"`
}

type PlanStep struct {
	Order         int    `json:"order"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DurationMonth *int   `json:"durationMonth,omitempty"`
}

type InstitutionDeepAnalysis struct {
	Attributes []DeepAttribute `json:"attributes"`
	Plan       []PlanStep      `json:"plan"`
}

// PersonalityBundle is the in-memory aggregate assembled by the personality
// orchestration. It only exists fully formed: a failed sub-step discards it.
type PersonalityBundle struct {
	MBTI        MBTIAnalysis
	Professions []ProfessionScore
	Majors      []MajorPick
	Attributes  []AttributeInsight
}

// ---- shape validators ----

func asObject(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	return obj, nil
}

func asArray(v any) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	return arr, nil
}

func wantString(obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok {
		return fmt.Errorf("missing field %q", key)
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return nil
}

func wantNumber(obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok {
		return fmt.Errorf("missing field %q", key)
	}
	if _, ok := v.(float64); !ok {
		return fmt.Errorf("field %q: expected number, got %T", key, v)
	}
	return nil
}

func wantArray(obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok {
		return fmt.Errorf("missing field %q", key)
	}
	if _, ok := v.([]any); !ok {
		return fmt.Errorf("field %q: expected array, got %T", key, v)
	}
	return nil
}

func wantOptionalString(obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return nil
}

func wantOptionalNumber(obj map[string]any, key string) error {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	if _, ok := v.(float64); !ok {
		return fmt.Errorf("field %q: expected number, got %T", key, v)
	}
	return nil
}

func wantAttributeType(obj map[string]any, key string) error {
	if err := wantString(obj, key); err != nil {
		return err
	}
	s := obj[key].(string)
	if s != types.AttributePros && s != types.AttributeCons {
		return fmt.Errorf("field %q: expected PROS or CONS, got %q", key, s)
	}
	return nil
}

func validateShortAnalysis(v any) error {
	obj, err := asObject(v)
	if err != nil {
		return err
	}
	if err := wantString(obj, "analysis_summary"); err != nil {
		return err
	}
	return wantArray(obj, "analysis_key_factors")
}

func validateMBTI(v any) error {
	obj, err := asObject(v)
	if err != nil {
		return err
	}
	for _, key := range []string{"title", "description", "mbtiCode", "mbtiName"} {
		if err := wantString(obj, key); err != nil {
			return err
		}
	}
	for _, key := range []string{"shortAttributes", "workStyles"} {
		if err := wantArray(obj, key); err != nil {
			return err
		}
	}
	for _, key := range []string{
		"introversionPercentage", "thinkingPercentage", "creativityPercentage",
		"intuitionPercentage", "planningPercentage", "leadingPercentage",
	} {
		if err := wantNumber(obj, key); err != nil {
			return err
		}
	}
	return nil
}

func validateProfessionScores(v any) error {
	arr, err := asArray(v)
	if err != nil {
		return err
	}
	for i, item := range arr {
		obj, err := asObject(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := wantString(obj, "professionId"); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := wantNumber(obj, "percentage"); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateMajorPicks(v any) error {
	arr, err := asArray(v)
	if err != nil {
		return err
	}
	for i, item := range arr {
		obj, err := asObject(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := wantString(obj, "category"); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateAttributeInsights(v any) error {
	arr, err := asArray(v)
	if err != nil {
		return err
	}
	for i, item := range arr {
		obj, err := asObject(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := wantAttributeType(obj, "type"); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		for _, key := range []string{"name", "description", "recommendations"} {
			if err := wantString(obj, key); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func validateInstitutionChances(v any) error {
	arr, err := asArray(v)
	if err != nil {
		return err
	}
	for i, item := range arr {
		obj, err := asObject(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := wantString(obj, "institutionId"); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if err := wantNumber(obj, "chancePercentage"); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateInstitutionDeep(v any) error {
	obj, err := asObject(v)
	if err != nil {
		return err
	}
	if err := wantArray(obj, "attributes"); err != nil {
		return err
	}
	if err := wantArray(obj, "plan"); err != nil {
		return err
	}
	for i, item := range obj["attributes"].([]any) {
		attr, err := asObject(item)
		if err != nil {
			return fmt.Errorf("attributes[%d]: %w", i, err)
		}
		if err := wantString(attr, "name"); err != nil {
			return fmt.Errorf("attributes[%d]: %w", i, err)
		}
		if err := wantAttributeType(attr, "type"); err != nil {
			return fmt.Errorf("attributes[%d]: %w", i, err)
		}
		if err := wantOptionalString(attr, "recommendation"); err != nil {
			return fmt.Errorf("attributes[%d]: %w", i, err)
		}
		if err := wantOptionalString(attr, "description"); err != nil {
			return fmt.Errorf("attributes[%d]: %w", i, err)
		}
	}
	for i, item := range obj["plan"].([]any) {
		step, err := asObject(item)
		if err != nil {
			return fmt.Errorf("plan[%d]: %w", i, err)
		}
		if err := wantNumber(step, "order"); err != nil {
			return fmt.Errorf("plan[%d]: %w", i, err)
		}
		if err := wantString(step, "name"); err != nil {
			return fmt.Errorf("plan[%d]: %w", i, err)
		}
		if err := wantOptionalString(step, "description"); err != nil {
			return fmt.Errorf("plan[%d]: %w", i, err)
		}
		if err := wantOptionalNumber(step, "durationMonth"); err != nil {
			return fmt.Errorf("plan[%d]: %w", i, err)
		}
	}
	return nil
}
