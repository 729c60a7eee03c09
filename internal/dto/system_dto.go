package dto

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type EnvStatusResponse struct {
	Environment      string `json:"environment"`
	DatabaseSet      bool   `json:"database_configured"`
	OpenRouterKeySet bool   `json:"openrouter_key_configured"`
	ServiceKeySet    bool   `json:"service_key_configured"`
	LlmProvider      string `json:"llm_provider"`
}
