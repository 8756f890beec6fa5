package models

import (
	"time"

	"gorm.io/gorm"
)

// TranslationStatusConfirmed is the only status a durable translation carries.
const TranslationStatusConfirmed = "confirmed"

// PreviewValidity is how long a translation preview can be confirmed.
const PreviewValidity = 30 * time.Minute

// TranslationPreview is the unconfirmed first phase of a translation. It is
// created with a fixed validity window, flipped to Confirmed exactly once
// while still valid, and kept around afterwards for audit. Expired previews
// are never deleted automatically, just unusable for confirmation.
type TranslationPreview struct {
	ID                string         `gorm:"primaryKey" json:"preview_id"`
	OriginalID        string         `gorm:"not null;index" json:"original_id"`
	OriginalType      string         `gorm:"type:varchar(50);not null" json:"original_type"`
	Lang              string         `gorm:"type:varchar(10);not null" json:"lang"`
	TranslatedContent string         `gorm:"type:text" json:"translated_content"`
	CreatedBy         string         `json:"created_by"`
	ExpiresAt         time.Time      `gorm:"not null;index" json:"expires_at"`
	Confirmed         bool           `gorm:"default:false" json:"confirmed"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TranslationPreview) TableName() string {
	return "translation_previews"
}

// Translation is the durable record, unique per (original_id, original_type,
// lang). Confirming a newer preview for the same triple overwrites content
// and bumps VerifiedBy rather than appending a row.
type Translation struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	OriginalID   string         `gorm:"not null;index" json:"original_id"`
	OriginalType string         `gorm:"type:varchar(50);not null" json:"original_type"`
	Lang         string         `gorm:"type:varchar(10);not null" json:"lang"`
	Content      string         `gorm:"type:text" json:"content"`
	Status       string         `gorm:"type:varchar(20);default:'confirmed'" json:"status"`
	CreatedBy    string         `json:"created_by"`
	VerifiedBy   string         `json:"verified_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Translation) TableName() string {
	return "translations"
}
