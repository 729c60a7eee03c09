package model

import (
	"time"

	"gorm.io/datatypes"
)

// ForgeSession stores the whole session document in a JSON column, one row
// per forge id. Version backs the conditional write on save.
type ForgeSession struct {
	ForgeId   string         `gorm:"type:varchar(100);primaryKey"`
	Document  datatypes.JSON `gorm:"not null"`
	Version   int64          `gorm:"not null;default:0"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (ForgeSession) TableName() string {
	return "forge_sessions"
}
