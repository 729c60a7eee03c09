package dto

import "forge-ai-be/internal/entity"

type PromptInfo struct {
	Name               string                  `json:"name"`
	Version            int                     `json:"version"`
	Description        string                  `json:"description"`
	ExpectedVars       []string                `json:"expected_vars"`
	Parameters         entity.PromptParameters `json:"parameters"`
	AssertivenessLevel *int                    `json:"assertivenessLevel,omitempty"`
}

type PromptsListResponse struct {
	Prompts    []PromptInfo `json:"prompts"`
	TotalCount int          `json:"total_count"`
}

type PromptDetailResponse struct {
	Prompt          PromptInfo        `json:"prompt"`
	TemplatePreview string            `json:"template_preview"`
	SampleVariables map[string]string `json:"sample_variables"`
}

type PromptUsageExample struct {
	Curl        string `json:"curl"`
	Description string `json:"description"`
}

type PromptSampleResponse struct {
	PromptName      string             `json:"prompt_name"`
	PromptVersion   int                `json:"prompt_version"`
	SampleVariables map[string]string  `json:"sample_variables"`
	UsageExample    PromptUsageExample `json:"usage_example"`
}

type PromptTestRequest struct {
	Variables map[string]interface{} `json:"variables" validate:"required"`
}

type PromptTestResponse struct {
	PromptName      string `json:"prompt_name"`
	PromptVersion   int    `json:"prompt_version"`
	RenderedPrompt  string `json:"rendered_prompt"`
	ModelResponse   string `json:"model_response"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
	ModelUsed       string `json:"model_used"`
	TokensUsed      *int   `json:"tokens_used,omitempty"`
}
