package models

import (
	"time"

	"gorm.io/gorm"
)

// Operation names recorded in usage_logs.
const (
	OpTranslatePreview = "translate_preview"
	OpClauseDraft      = "clause_draft"
	OpBulkGenerate     = "bulk_generate"
)

// UsageLog is a best-effort accounting row for one AI-text call. Inserts are
// wrapped so a failure here never fails the primary operation.
type UsageLog struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Operation  string         `gorm:"type:varchar(50);not null;index" json:"operation"`
	OriginalID string         `gorm:"type:varchar(191);index" json:"original_id,omitempty"`
	TokensUsed int            `json:"tokens_used"`
	ModelUsed  string         `gorm:"type:varchar(100)" json:"model_used"`
	UserID     string         `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}
