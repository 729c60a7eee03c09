package dto

type ChatRequest struct {
	ForgeId    string `json:"forge_id" validate:"required"`
	RoleId     string `json:"role_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
	IsQuestion bool   `json:"is_question"`
}

type ChatResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	AiResponse *string `json:"ai_response,omitempty"`
}
