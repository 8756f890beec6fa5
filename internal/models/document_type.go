package models

import (
	"time"

	"gorm.io/gorm"
)

// DocumentType is a catalog entry grouping templates of the same kind, e.g.
// "employment_contract" or "nda". The AI bulk-generation path takes one of
// these names as its generation subject.
type DocumentType struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Category    string         `gorm:"type:varchar(50)" json:"category"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (DocumentType) TableName() string {
	return "document_types"
}
