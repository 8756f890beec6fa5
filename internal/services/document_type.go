package services

import (
	"fmt"
	"strings"

	"clauseforge/internal"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"

	"github.com/google/uuid"
)

type DocumentTypeService struct{}

func NewDocumentTypeService() *DocumentTypeService {
	return &DocumentTypeService{}
}

// List returns active document types ordered for display.
func (s *DocumentTypeService) List() ([]models.DocumentType, error) {
	var types []models.DocumentType
	if err := internal.DB.
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to get document types: %w", err)
	}
	return types, nil
}

func (s *DocumentTypeService) Create(code, name, description, category string) (*models.DocumentType, error) {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("code and name are required")
	}

	docType := &models.DocumentType{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Description: description,
		Category:    category,
		IsActive:    true,
	}

	if err := internal.DB.Create(docType).Error; err != nil {
		return nil, fmt.Errorf("failed to save document type: %w", err)
	}
	return docType, nil
}

// InitializeDefaults seeds the catalog when it is empty.
func (s *DocumentTypeService) InitializeDefaults() error {
	var count int64
	if err := internal.DB.Model(&models.DocumentType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count document types: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []models.DocumentType{
		{ID: uuid.New().String(), Code: "employment_contract", Name: "Employment Contract", Category: "contract", SortOrder: 1, IsActive: true},
		{ID: uuid.New().String(), Code: "nda", Name: "Non-Disclosure Agreement", Category: "contract", SortOrder: 2, IsActive: true},
		{ID: uuid.New().String(), Code: "offer_letter", Name: "Offer Letter", Category: "letter", SortOrder: 3, IsActive: true},
		{ID: uuid.New().String(), Code: "service_agreement", Name: "Service Agreement", Category: "contract", SortOrder: 4, IsActive: true},
	}

	for _, docType := range defaults {
		if err := internal.DB.Create(&docType).Error; err != nil {
			return fmt.Errorf("failed to seed document type %s: %w", docType.Code, err)
		}
	}
	return nil
}
