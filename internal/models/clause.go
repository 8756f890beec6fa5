package models

import (
	"time"

	"gorm.io/gorm"
)

// Clause is a reusable block of legal/business text. Content is HTML and may
// contain [Placeholder] tokens. ClauseType is unique within a Category by
// convention: the clause service rewrites colliding names at creation time,
// there is no database constraint backing it.
type Clause struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	ClauseType    string         `gorm:"not null;index" json:"clause_type"`
	Content       string         `gorm:"type:text" json:"content"`
	Category      string         `gorm:"type:varchar(50);index" json:"category"`
	IsAIGenerated bool           `gorm:"default:false" json:"is_ai_generated"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Clause) TableName() string {
	return "clauses"
}

// ClauseInput is one entry of a batch-create request.
type ClauseInput struct {
	ClauseType    string `json:"clause_type"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	IsAIGenerated bool   `json:"is_ai_generated"`
}
