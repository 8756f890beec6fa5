package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityLog is one persisted request log row, written by the logging
// middleware after the handler finishes.
type ActivityLog struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	Method       string         `gorm:"type:varchar(10);not null;index" json:"method"`
	Path         string         `gorm:"type:varchar(255);not null;index" json:"path"`
	UserAgent    string         `gorm:"type:text" json:"user_agent"`
	IPAddress    string         `gorm:"type:varchar(45)" json:"ip_address"`
	QueryParams  string         `gorm:"type:text" json:"query_params,omitempty"`
	StatusCode   int            `gorm:"not null" json:"status_code"`
	ResponseTime int64          `gorm:"not null" json:"response_time"`
	UserID       string         `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
