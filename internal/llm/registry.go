package llm

// Template is an immutable prompt definition bound at compile time. Each
// generation purpose references its template variable directly, so an
// "unknown template key" failure cannot occur at runtime.
type Template struct {
	System    string
	User      string
	MaxTokens int
}

var shortAnalysisTemplate = Template{
	System: "You are an AI assistant that provides a short analysis of career-guidance test answers.",
	User: `Analyze the provided test answers and generate a short summary and key factors.
Test Results: {{testResults}}
Respond with JSON only, in exactly this format:
{
	"analysis_summary": string,
	"analysis_key_factors": string[]
}`,
	MaxTokens: 1024,
}

var mbtiTemplate = Template{
	System: "You are an AI assistant that derives an MBTI-style personality profile from test summaries.",
	User: `Analyze the short summaries of the user's completed tests and produce an MBTI profile.
Test Summaries: {{testSummaries}}
Respond with JSON only, in exactly this format:
{
	"title": string,
	"description": string,
	"mbtiCode": string,
	"mbtiName": string,
	"shortAttributes": string[],
	"workStyles": string[],
	"introversionPercentage": number,
	"thinkingPercentage": number,
	"creativityPercentage": number,
	"intuitionPercentage": number,
	"planningPercentage": number,
	"leadingPercentage": number
}`,
	MaxTokens: 2048,
}

var professionsTemplate = Template{
	System: "You are an AI assistant that matches a user to professions based on their test summaries.",
	User: `Given the user's test summaries and the available professions, rank how well each fitting profession matches.
Test Summaries: {{testSummaries}}
Available Professions: {{professions}}
Use only professionId values from the available professions.
Respond with a JSON array only, in exactly this format:
[{ "professionId": string, "percentage": number }]`,
	MaxTokens: 1024,
}

var majorsTemplate = Template{
	System: "You are an AI assistant that recommends study major categories based on test summaries.",
	User: `Given the user's test summaries, recommend suitable major categories.
Test Summaries: {{testSummaries}}
Respond with a JSON array only, in exactly this format:
[{ "category": string }]`,
	MaxTokens: 1024,
}

var attributesTemplate = Template{
	System: "You are an AI assistant that lists personality strengths and weaknesses based on test summaries.",
	User: `Given the user's test summaries, list the user's pros and cons with recommendations.
Test Summaries: {{testSummaries}}
Respond with a JSON array only, in exactly this format:
[{ "type": "PROS" | "CONS", "name": string, "description": string, "recommendations": string }]`,
	MaxTokens: 2048,
}

var institutionChancesTemplate = Template{
	System: "You are an AI assistant that estimates a user's admission chances at educational institutions.",
	User: `Analyze the user profile and the provided institutions and estimate the admission chance for each.
User Profile: {{userProfile}}
Institutions: {{institutions}}
Use only institutionId values from the provided institutions.
Respond with a JSON array only, in exactly this format:
[{ "institutionId": string, "chancePercentage": number }]`,
	MaxTokens: 2048,
}

var institutionDeepTemplate = Template{
	System: "You are an AI assistant that prepares a detailed admission readiness report for one institution.",
	User: `Analyze the user profile against the institution and produce the user's pros and cons for admission plus a staged preparation plan.
User Profile: {{userProfile}}
Institution: {{institution}}
Respond with JSON only, in exactly this format:
{
	"attributes": [{ "name": string, "type": "PROS" | "CONS", "recommendation": string, "description": string }],
	"plan": [{ "order": number, "name": string, "description": string, "durationMonth": number }]
}`,
	MaxTokens: 2048,
}
