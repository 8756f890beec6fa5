package models

import (
	"time"

	"gorm.io/gorm"
)

// Template composes clauses into a reusable document layout. Clauses are
// referenced through template_clauses position rows, not owned: deleting a
// template leaves the underlying clauses in place.
type Template struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	TemplateName  string         `gorm:"not null" json:"template_name"`
	DocumentType  string         `gorm:"type:varchar(100);index" json:"document_type"`
	Description   string         `json:"description"`
	IsAIGenerated bool           `gorm:"default:false" json:"is_ai_generated"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relations, ordered by TemplateClause.Position
	Clauses []TemplateClause `gorm:"foreignKey:TemplateID" json:"clauses,omitempty"`
}

func (Template) TableName() string {
	return "clause_templates"
}

// TemplateClause maps a clause into a template at a 1-based position.
// Positions stay contiguous: removals trigger a recompute.
type TemplateClause struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	TemplateID string         `gorm:"not null;index" json:"template_id"`
	ClauseID   string         `gorm:"not null;index" json:"clause_id"`
	Position   int            `gorm:"not null" json:"position"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Clause Clause `gorm:"foreignKey:ClauseID" json:"clause,omitempty"`
}

func (TemplateClause) TableName() string {
	return "template_clauses"
}
