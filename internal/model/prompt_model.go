package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AiPrompt is one version of a named prompt template with its model
// parameters. Seeded out of band; read-only at request time.
type AiPrompt struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_prompt_name_version,priority:1;index"`
	Version            int            `gorm:"not null;uniqueIndex:idx_prompt_name_version,priority:2"`
	Status             string         `gorm:"type:varchar(20);not null;default:'active';index"`
	Description        string         `gorm:"type:text"`
	Parameters         datatypes.JSON `gorm:"not null"`
	ExpectedVars       datatypes.JSON `gorm:"not null"`
	Template           string         `gorm:"type:text;not null"`
	AssertivenessLevel *int
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

func (AiPrompt) TableName() string {
	return "ai_prompts"
}
