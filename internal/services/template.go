package services

import (
	"fmt"

	"clauseforge/internal"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// TemplateInput carries the template fields for creation.
type TemplateInput struct {
	TemplateName  string `json:"template_name"`
	DocumentType  string `json:"document_type"`
	Description   string `json:"description"`
	IsAIGenerated bool   `json:"is_ai_generated"`
}

// CreateWithClauses inserts the template row and one position row per clause
// as a single transaction: either everything lands or nothing does.
// Positions are 1-based and follow the order of clauseIDs.
func (s *TemplateService) CreateWithClauses(input TemplateInput, clauseIDs []string) (*models.Template, error) {
	if input.TemplateName == "" {
		return nil, apperrors.Validation("template_name is required")
	}

	template := &models.Template{
		ID:            uuid.New().String(),
		TemplateName:  input.TemplateName,
		DocumentType:  input.DocumentType,
		Description:   input.Description,
		IsAIGenerated: input.IsAIGenerated,
	}

	err := internal.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}

		for i, clauseID := range clauseIDs {
			var clause models.Clause
			if err := tx.First(&clause, "id = ?", clauseID).Error; err != nil {
				return apperrors.NotFound("clause not found: %s", clauseID)
			}

			mapping := models.TemplateClause{
				ID:         uuid.New().String(),
				TemplateID: template.ID,
				ClauseID:   clauseID,
				Position:   i + 1,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return fmt.Errorf("failed to save template clause mapping: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetWithClauses(template.ID)
}

// GetWithClauses returns a template with its clause mappings ordered by
// position, each mapping preloaded with its clause.
func (s *TemplateService) GetWithClauses(templateID string) (*models.Template, error) {
	var template models.Template
	err := internal.DB.
		Preload("Clauses", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_clauses.position ASC")
		}).
		Preload("Clauses.Clause").
		First(&template, "id = ?", templateID).Error
	if err != nil {
		return nil, apperrors.NotFound("template not found: %s", templateID)
	}
	return &template, nil
}

func (s *TemplateService) List() ([]models.Template, error) {
	var templates []models.Template
	if err := internal.DB.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	return templates, nil
}

// AddClause appends a clause at the end of the template's clause sequence.
func (s *TemplateService) AddClause(templateID, clauseID string) (*models.Template, error) {
	template, err := s.GetWithClauses(templateID)
	if err != nil {
		return nil, err
	}

	var clause models.Clause
	if err := internal.DB.First(&clause, "id = ?", clauseID).Error; err != nil {
		return nil, apperrors.NotFound("clause not found: %s", clauseID)
	}

	mapping := models.TemplateClause{
		ID:         uuid.New().String(),
		TemplateID: templateID,
		ClauseID:   clauseID,
		Position:   len(template.Clauses) + 1,
	}
	if err := internal.DB.Create(&mapping).Error; err != nil {
		return nil, fmt.Errorf("failed to add clause to template: %w", err)
	}

	return s.GetWithClauses(templateID)
}

// RemoveClause removes a clause mapping and recomputes the remaining
// positions so they stay contiguous and 1-based.
func (s *TemplateService) RemoveClause(templateID, clauseID string) (*models.Template, error) {
	err := internal.DB.Transaction(func(tx *gorm.DB) error {
		var mapping models.TemplateClause
		if err := tx.First(&mapping, "template_id = ? AND clause_id = ?", templateID, clauseID).Error; err != nil {
			return apperrors.NotFound("clause %s is not part of template %s", clauseID, templateID)
		}

		if err := tx.Delete(&mapping).Error; err != nil {
			return fmt.Errorf("failed to remove clause from template: %w", err)
		}

		var remaining []models.TemplateClause
		if err := tx.Where("template_id = ?", templateID).
			Order("position ASC").Find(&remaining).Error; err != nil {
			return fmt.Errorf("failed to load remaining clauses: %w", err)
		}

		for i := range remaining {
			if remaining[i].Position != i+1 {
				if err := tx.Model(&remaining[i]).UpdateColumn("position", i+1).Error; err != nil {
					return fmt.Errorf("failed to recompute clause positions: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetWithClauses(templateID)
}

// Delete soft-deletes a template and its mappings. The underlying clauses are
// referenced, not owned, and stay untouched.
func (s *TemplateService) Delete(templateID string) error {
	template, err := s.GetWithClauses(templateID)
	if err != nil {
		return err
	}

	return internal.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).
			Delete(&models.TemplateClause{}).Error; err != nil {
			return fmt.Errorf("failed to delete template clause mappings: %w", err)
		}
		return tx.Delete(template).Error
	})
}
