package registry

// Catalog maps creator -> model display name -> model config.
type Catalog map[Creator]map[string]ModelConfig

// DefaultCatalog returns the built-in model table. Each model lists every
// provider implementation with the model id that provider expects on the
// wire.
func DefaultCatalog() Catalog {
	return Catalog{
		CreatorOpenAI: {
			"GPT-4o mini": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderOpenAI, WireModelID: "gpt-4o-mini"},
					{Provider: ProviderAzure, WireModelID: "gpt-4o-mini"},
					{Provider: ProviderOpenRouter, WireModelID: "openai/gpt-4o-mini"},
				},
			},
			"GPT-4o": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderOpenAI, WireModelID: "gpt-4o"},
					{Provider: ProviderAzure, WireModelID: "gpt-4o"},
					{Provider: ProviderOpenRouter, WireModelID: "openai/gpt-4o-2024-11-20"},
				},
			},
			"ChatGPT-4o": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderOpenRouter, WireModelID: "openai/chatgpt-4o-latest"},
				},
			},
			"o3 mini": {
				DefaultParameters: Parameters{"reasoning_effort": "medium"},
				Providers: []ProviderModelMapping{
					{Provider: ProviderOpenAI, WireModelID: "o3-mini"},
					{Provider: ProviderAzure, WireModelID: "o3-mini"},
					{Provider: ProviderOpenRouter, WireModelID: "openai/o3-mini"},
				},
			},
			"o1": {
				DefaultParameters: Parameters{"reasoning_effort": "medium"},
				Providers: []ProviderModelMapping{
					{Provider: ProviderOpenAI, WireModelID: "o1"},
					{Provider: ProviderAzure, WireModelID: "o1"},
					{Provider: ProviderOpenRouter, WireModelID: "openai/o1"},
				},
			},
		},
		CreatorAnthropic: {
			"Claude 3.7 Sonnet": {
				DefaultParameters: Parameters{"max_tokens": 8192},
				Providers: []ProviderModelMapping{
					{Provider: ProviderAnthropic, WireModelID: "claude-3-7-sonnet-latest"},
					{Provider: ProviderBedrock, WireModelID: "anthropic.claude-3-7-sonnet-20250219-v1:0"},
					{Provider: ProviderOpenRouter, WireModelID: "anthropic/claude-3.7-sonnet"},
				},
			},
			"Claude 3.5 Haiku": {
				DefaultParameters: Parameters{"max_tokens": 8192},
				Providers: []ProviderModelMapping{
					{Provider: ProviderAnthropic, WireModelID: "claude-3-5-haiku-latest"},
					{Provider: ProviderBedrock, WireModelID: "anthropic.claude-3-5-haiku-20241022-v1:0"},
					{Provider: ProviderOpenRouter, WireModelID: "anthropic/claude-3.5-haiku"},
				},
			},
			"Claude 3.5 Sonnet": {
				DefaultParameters: Parameters{"max_tokens": 8192},
				Providers: []ProviderModelMapping{
					{Provider: ProviderAnthropic, WireModelID: "claude-3-5-sonnet-latest"},
					{Provider: ProviderBedrock, WireModelID: "anthropic.claude-3-5-sonnet-20241022-v2:0"},
					{Provider: ProviderOpenRouter, WireModelID: "anthropic/claude-3.5-sonnet"},
				},
			},
			"Claude 3 Opus": {
				DefaultParameters: Parameters{"max_tokens": 4096},
				Providers: []ProviderModelMapping{
					{Provider: ProviderAnthropic, WireModelID: "claude-3-opus-latest"},
					{Provider: ProviderBedrock, WireModelID: "anthropic.claude-3-opus-20240229-v1:0"},
					{Provider: ProviderOpenRouter, WireModelID: "anthropic/claude-3-opus"},
				},
			},
		},
		CreatorGoogle: {
			"Gemini 2.0 Flash": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderGoogleGemini, WireModelID: "gemini-2.0-flash"},
					{Provider: ProviderGoogleVertexAI, WireModelID: "gemini-2.0-flash", Parameters: Parameters{"endpoint": "/v1/projects/{PROJECT}/locations/{LOCATION}/publishers/google/models/{model}:streamGenerateContent"}},
					{Provider: ProviderOpenRouter, WireModelID: "google/gemini-2.0-flash-001"},
				},
			},
			"Gemini 2.0 Flash-Lite": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderGoogleGemini, WireModelID: "gemini-2.0-flash-lite"},
					{Provider: ProviderGoogleVertexAI, WireModelID: "gemini-2.0-flash-lite"},
					{Provider: ProviderOpenRouter, WireModelID: "google/gemini-2.0-flash-lite-001"},
				},
			},
			"Gemini 1.5 Pro": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderGoogleGemini, WireModelID: "gemini-1.5-pro"},
					{Provider: ProviderGoogleVertexAI, WireModelID: "gemini-1.5-pro"},
					{Provider: ProviderOpenRouter, WireModelID: "google/gemini-pro-1.5"},
				},
			},
		},
		CreatorMeta: {
			"Llama 3.3 70B Instruct": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderAzure, WireModelID: "Llama-3.3-70B-Instruct"},
					{Provider: ProviderOpenRouter, WireModelID: "meta-llama/llama-3.3-70b-instruct"},
				},
			},
			"Llama 3.1 8B Instruct": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderAzure, WireModelID: "Meta-Llama-3.1-8B-Instruct"},
					{Provider: ProviderOpenRouter, WireModelID: "meta-llama/llama-3.1-8b-instruct"},
				},
			},
		},
		CreatorDeepSeek: {
			"DeepSeek V3": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderDeepSeek, WireModelID: "deepseek-chat"},
					{Provider: ProviderOpenRouter, WireModelID: "deepseek/deepseek-chat-v3-0324"},
				},
			},
			"DeepSeek R1": {
				Providers: []ProviderModelMapping{
					{Provider: ProviderDeepSeek, WireModelID: "deepseek-reasoner"},
					{Provider: ProviderOpenRouter, WireModelID: "deepseek/deepseek-r1"},
				},
			},
		},
	}
}
