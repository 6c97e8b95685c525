package registry

// DefaultProviderConfigs is the static provider table. Endpoint and base URL
// templates carry tokens substituted at resolve time.
func DefaultProviderConfigs() map[Provider]ProviderConfig {
	return map[Provider]ProviderConfig{
		ProviderOpenAI: {
			BaseURL:          "https://api.openai.com",
			AuthHeaderConfig: AuthHeaderConfig{Header: "Authorization", Prefix: "Bearer "},
			DefaultEndpoint:  "/v1/chat/completions",
			DefaultMapper:    "openai-chat",
		},
		ProviderAzure: {
			BaseURL:          "https://{ENDPOINT}",
			AuthHeaderConfig: AuthHeaderConfig{Header: "api-key"},
			DefaultEndpoint:  "/openai/deployments/{DEPLOYMENT}/chat/completions?api-version=2025-01-01-preview",
			DefaultMapper:    "openai-chat",
		},
		ProviderAnthropic: {
			BaseURL:          "https://api.anthropic.com",
			AuthHeaderConfig: AuthHeaderConfig{Header: "x-api-key"},
			DefaultHeaders:   map[string]string{"anthropic-version": "2023-06-01"},
			DefaultEndpoint:  "/v1/messages",
			DefaultMapper:    "anthropic-chat",
		},
		ProviderBedrock: {
			BaseURL:          "https://bedrock-runtime.{REGION}.amazonaws.com",
			AuthHeaderConfig: AuthHeaderConfig{Header: "Authorization"},
			DefaultEndpoint:  "/model/{model}/invoke",
			DefaultMapper:    "anthropic-chat",
		},
		ProviderGoogleGemini: {
			BaseURL:          "https://generativelanguage.googleapis.com",
			AuthHeaderConfig: AuthHeaderConfig{Header: "x-goog-api-key"},
			DefaultEndpoint:  "/v1beta/models/{model}:generateContent",
			DefaultMapper:    "gemini-chat",
		},
		ProviderGoogleVertexAI: {
			BaseURL:          "https://{LOCATION}-aiplatform.googleapis.com",
			AuthHeaderConfig: AuthHeaderConfig{Header: "Authorization", Prefix: "Bearer "},
			DefaultEndpoint:  "/v1/projects/{PROJECT}/locations/{LOCATION}/publishers/google/models/{model}:generateContent",
			DefaultMapper:    "gemini-chat",
		},
		ProviderOpenRouter: {
			BaseURL:          "https://openrouter.ai",
			AuthHeaderConfig: AuthHeaderConfig{Header: "Authorization", Prefix: "Bearer "},
			DefaultEndpoint:  "/api/v1/chat/completions",
			DefaultMapper:    "openai-chat",
		},
		ProviderDeepSeek: {
			BaseURL:          "https://api.deepseek.com",
			AuthHeaderConfig: AuthHeaderConfig{Header: "Authorization", Prefix: "Bearer "},
			DefaultEndpoint:  "/chat/completions",
			DefaultMapper:    "openai-chat",
		},
	}
}
