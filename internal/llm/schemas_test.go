package llm

import (
	"encoding/json"
	"testing"
)

func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("test payload is not valid JSON: %v", err)
	}
	return v
}

func TestValidateShortAnalysis(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"analysis_summary":"s","analysis_key_factors":["a","b"]}`, false},
		{"empty_factors", `{"analysis_summary":"s","analysis_key_factors":[]}`, false},
		{"missing_summary", `{"analysis_key_factors":[]}`, true},
		{"summary_wrong_type", `{"analysis_summary":1,"analysis_key_factors":[]}`, true},
		{"factors_not_array", `{"analysis_summary":"s","analysis_key_factors":"a"}`, true},
		{"not_object", `[1,2]`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateShortAnalysis(parse(t, tc.payload))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateMBTI(t *testing.T) {
	valid := `{
		"title":"t","description":"d","mbtiCode":"INTJ","mbtiName":"Architect",
		"shortAttributes":["a"],"workStyles":["w"],
		"introversionPercentage":60,"thinkingPercentage":70,"creativityPercentage":50,
		"intuitionPercentage":40,"planningPercentage":80,"leadingPercentage":30
	}`
	if err := validateMBTI(parse(t, valid)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	missingPercentage := `{
		"title":"t","description":"d","mbtiCode":"INTJ","mbtiName":"Architect",
		"shortAttributes":[],"workStyles":[],
		"introversionPercentage":60,"thinkingPercentage":70,"creativityPercentage":50,
		"intuitionPercentage":40,"planningPercentage":80
	}`
	if err := validateMBTI(parse(t, missingPercentage)); err == nil {
		t.Fatal("payload missing leadingPercentage accepted")
	}

	stringPercentage := `{
		"title":"t","description":"d","mbtiCode":"INTJ","mbtiName":"Architect",
		"shortAttributes":[],"workStyles":[],
		"introversionPercentage":"60","thinkingPercentage":70,"creativityPercentage":50,
		"intuitionPercentage":40,"planningPercentage":80,"leadingPercentage":30
	}`
	if err := validateMBTI(parse(t, stringPercentage)); err == nil {
		t.Fatal("string percentage accepted")
	}
}

func TestValidateProfessionScores(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `[{"professionId":"abc","percentage":91.5}]`, false},
		{"empty", `[]`, false},
		{"not_array", `{"professionId":"abc"}`, true},
		{"missing_percentage", `[{"professionId":"abc"}]`, true},
		{"id_not_string", `[{"professionId":7,"percentage":50}]`, true},
		{"second_item_bad", `[{"professionId":"a","percentage":1},{"professionId":"b"}]`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProfessionScores(parse(t, tc.payload))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAttributeInsights(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid_pros", `[{"type":"PROS","name":"n","description":"d","recommendations":"r"}]`, false},
		{"valid_cons", `[{"type":"CONS","name":"n","description":"d","recommendations":"r"}]`, false},
		{"unknown_type", `[{"type":"NEUTRAL","name":"n","description":"d","recommendations":"r"}]`, true},
		{"missing_name", `[{"type":"PROS","description":"d","recommendations":"r"}]`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateAttributeInsights(parse(t, tc.payload))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateInstitutionDeep(t *testing.T) {
	valid := `{
		"attributes":[{"name":"strong essays","type":"PROS","recommendation":"keep it up","description":"d"}],
		"plan":[{"order":1,"name":"ielts","description":"take the exam","durationMonth":3}]
	}`
	if err := validateInstitutionDeep(parse(t, valid)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	optionalOmitted := `{
		"attributes":[{"name":"a","type":"CONS"}],
		"plan":[{"order":1,"name":"step"}]
	}`
	if err := validateInstitutionDeep(parse(t, optionalOmitted)); err != nil {
		t.Fatalf("payload with omitted optionals rejected: %v", err)
	}

	cases := []struct {
		name    string
		payload string
	}{
		{"missing_plan", `{"attributes":[]}`},
		{"plan_order_string", `{"attributes":[],"plan":[{"order":"1","name":"n"}]}`},
		{"attribute_bad_type", `{"attributes":[{"name":"a","type":"MAYBE"}],"plan":[]}`},
		{"duration_string", `{"attributes":[],"plan":[{"order":1,"name":"n","durationMonth":"3"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateInstitutionDeep(parse(t, tc.payload)); err == nil {
				t.Fatal("invalid payload accepted")
			}
		})
	}
}

func TestValidateInstitutionChances(t *testing.T) {
	if err := validateInstitutionChances(parse(t, `[{"institutionId":"x","chancePercentage":55}]`)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if err := validateInstitutionChances(parse(t, `[{"institutionId":"x"}]`)); err == nil {
		t.Fatal("payload missing chancePercentage accepted")
	}
}
