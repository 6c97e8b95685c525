package registry

// Creator is the vendor that owns a family of models (the registry root key).
type Creator string

const (
	CreatorOpenAI    Creator = "OpenAI"
	CreatorAnthropic Creator = "Anthropic"
	CreatorGoogle    Creator = "Google"
	CreatorMeta      Creator = "Meta"
	CreatorDeepSeek  Creator = "DeepSeek"
)

// Provider is a concrete hosting/inference service for a model.
type Provider string

const (
	ProviderOpenAI         Provider = "OPENAI"
	ProviderAzure          Provider = "AZURE"
	ProviderAnthropic      Provider = "ANTHROPIC"
	ProviderBedrock        Provider = "BEDROCK"
	ProviderGoogleGemini   Provider = "GOOGLE_GEMINI"
	ProviderGoogleVertexAI Provider = "GOOGLE_VERTEXAI"
	ProviderOpenRouter     Provider = "OPENROUTER"
	ProviderDeepSeek       Provider = "DEEPSEEK"
)

// TokenCost is the per-token pricing pair carried as model metadata.
type TokenCost struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Parameters holds free-form model parameters (reasoning effort, max tokens,
// endpoint/mapper overrides). Mapping-level values win over model defaults.
type Parameters map[string]any

// ProviderModelMapping binds a model to one provider implementation.
type ProviderModelMapping struct {
	Provider    Provider   `json:"provider"`
	WireModelID string     `json:"wire_model_id"`
	Parameters  Parameters `json:"parameters,omitempty"`
}

// ModelConfig is the per-model registry entry under a creator.
type ModelConfig struct {
	DefaultTokenCost  TokenCost              `json:"default_token_cost"`
	DefaultParameters Parameters             `json:"default_parameters,omitempty"`
	Providers         []ProviderModelMapping `json:"providers"`
}

// AuthHeaderConfig describes how a provider expects its credential header.
type AuthHeaderConfig struct {
	Header string `json:"header"`
	Prefix string `json:"prefix,omitempty"`
}

// ProviderConfig is the static per-provider descriptor, immutable after load.
type ProviderConfig struct {
	BaseURL          string            `json:"base_url"`
	AuthHeaderConfig AuthHeaderConfig  `json:"auth_header_config"`
	DefaultHeaders   map[string]string `json:"default_headers,omitempty"`
	DefaultEndpoint  string            `json:"default_endpoint"`
	DefaultMapper    string            `json:"default_mapper"`
}

// InvocationDescriptor is the fully resolved recipe for calling a provider.
// Derived on demand, never stored.
type InvocationDescriptor struct {
	Provider         Provider          `json:"provider"`
	WireModelID      string            `json:"wire_model_id"`
	Endpoint         string            `json:"endpoint"`
	Mapper           string            `json:"mapper"`
	BaseURL          string            `json:"base_url"`
	AuthHeaderConfig AuthHeaderConfig  `json:"auth_header_config"`
	DefaultHeaders   map[string]string `json:"default_headers,omitempty"`
}

// Substitutions supplies values for the template tokens a provider's
// endpoint or base URL may carry ({REGION}, {ENDPOINT}, {DEPLOYMENT},
// {PROJECT}, {LOCATION}). {model} is always filled from the resolved
// wire model id.
type Substitutions map[string]string

// ProviderModel is one row of a provider-scoped model listing.
type ProviderModel struct {
	Creator     Creator `json:"creator"`
	Model       string  `json:"model"`
	WireModelID string  `json:"wire_model_id"`
}
