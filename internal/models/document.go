package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DocumentClause is one clause snapshot inside a document's content JSON.
type DocumentClause struct {
	ClauseType string `json:"clause_type"`
	Content    string `json:"content"`
	Category   string `json:"category"`
}

// DocumentContent is the frozen clause snapshot stored in documents.content.
// Later template edits never change existing documents.
type DocumentContent struct {
	Clauses []DocumentClause `json:"clauses"`
}

// Document is a generated business document. TemplateID is nil for the
// direct-content and full-AI creation paths. Variables holds the placeholder
// values the document was filled with. PDFPath is the storage object name of
// the rendered PDF, empty until a render succeeded.
type Document struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	TemplateID   *string        `gorm:"index" json:"template_id"`
	UserID       string         `gorm:"index" json:"user_id"`
	DocumentName string         `gorm:"not null" json:"document_name"`
	DocumentType string         `gorm:"type:varchar(100)" json:"document_type"`
	Content      string         `gorm:"type:jsonb" json:"content"`
	Variables    string         `gorm:"type:jsonb" json:"variables"`
	PDFPath      string         `gorm:"column:pdf_path" json:"pdf_path,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Template *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// ContentClauses decodes the stored content JSON.
func (d *Document) ContentClauses() ([]DocumentClause, error) {
	if d.Content == "" {
		return nil, nil
	}
	var content DocumentContent
	if err := json.Unmarshal([]byte(d.Content), &content); err != nil {
		return nil, err
	}
	return content.Clauses, nil
}

// AssembledText joins the snapshot clause contents with a blank line, falling
// back to the document name when the snapshot has no clauses.
func (d *Document) AssembledText() string {
	clauses, err := d.ContentClauses()
	if err != nil || len(clauses) == 0 {
		return d.DocumentName
	}
	parts := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		if strings.TrimSpace(clause.Content) != "" {
			parts = append(parts, clause.Content)
		}
	}
	if len(parts) == 0 {
		return d.DocumentName
	}
	return strings.Join(parts, "\n\n")
}
