package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	PromptStatusActive     = "active"
	PromptStatusInactive   = "inactive"
	PromptStatusDeprecated = "deprecated"
)

// Prompt names the pipeline depends on. The templates live in the database;
// these are only the lookup keys.
const (
	PromptTriageAgent          = "contribution_triage_agent"
	PromptDirectResponseAgent  = "direct_response_agent"
	PromptSynthesisFacilitator = "synthesis_facilitator_default"
)

type ResponseFormat struct {
	Type string `json:"type"` // "text" or "json_object"
}

type PromptParameters struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Prompt is a named, versioned template plus the model parameters used to run
// it. Operators tune model/temperature per task in the database without a
// redeploy; request traffic never mutates prompts.
type Prompt struct {
	Id                 uuid.UUID
	Name               string
	Version            int
	Status             string
	Description        string
	Parameters         PromptParameters
	ExpectedVars       []string
	Template           string
	AssertivenessLevel *int
	CreatedAt          time.Time
}
