package models

// EndpointBase is the Gemini REST API base URL. The model identifier
// selects the URL path; the credential is passed as a query parameter.
const EndpointBase = "https://generativelanguage.googleapis.com"

// Available model identifiers
const (
	ModelFlash  = "gemini-1.5-flash-latest"
	ModelPro    = "gemini-1.5-pro-latest"
	ModelFlash2 = "gemini-2.0-flash"

	// DefaultModel is used when the settings surface has no selection.
	DefaultModel = ModelFlash
)

// AllModels returns the model identifiers offered by the settings surface.
func AllModels() []string {
	return []string{ModelFlash, ModelPro, ModelFlash2}
}

// GenerationConfig is the fixed generation configuration sent with a request.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GenerateConfig returns the configuration used for conversation replies.
func GenerateConfig() GenerationConfig {
	return GenerationConfig{Temperature: 0.7, TopP: 0.95, MaxOutputTokens: 4096}
}

// SummarizeConfig returns the configuration used for title summarization.
// Short titles only, so the token budget is tiny.
func SummarizeConfig() GenerationConfig {
	return GenerationConfig{Temperature: 0.2, TopP: 0.95, MaxOutputTokens: 20}
}
