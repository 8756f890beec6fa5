package services

import (
	"errors"
	"fmt"
	"time"

	"clauseforge/internal"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPreviewStore persists translation previews through the shared gorm
// handle.
type GormPreviewStore struct{}

func NewGormPreviewStore() *GormPreviewStore {
	return &GormPreviewStore{}
}

func (s *GormPreviewStore) Insert(preview *models.TranslationPreview) error {
	return internal.DB.Create(preview).Error
}

// FindValidByID returns the preview only while it has not expired. A missing
// and an expired preview both come back as nil.
func (s *GormPreviewStore) FindValidByID(previewID string, now time.Time) (*models.TranslationPreview, error) {
	var preview models.TranslationPreview
	err := internal.DB.
		Where("id = ? AND expires_at > ?", previewID, now).
		First(&preview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query translation preview: %w", err)
	}
	return &preview, nil
}

func (s *GormPreviewStore) MarkConfirmed(previewID string) error {
	return internal.DB.Model(&models.TranslationPreview{}).
		Where("id = ?", previewID).
		UpdateColumn("confirmed", true).Error
}

// GormTranslationStore persists durable translations, one row per
// (original_id, original_type, lang).
type GormTranslationStore struct{}

func NewGormTranslationStore() *GormTranslationStore {
	return &GormTranslationStore{}
}

// Upsert overwrites the existing row for the triple or creates a new one.
// Status is forced to confirmed either way. A concurrent create losing the
// race against the unique index falls back to the update path.
func (s *GormTranslationStore) Upsert(originalID, originalType, lang, content, createdBy, verifiedBy string) error {
	var existing models.Translation
	err := internal.DB.
		Where("original_id = ? AND original_type = ? AND lang = ?", originalID, originalType, lang).
		First(&existing).Error
	if err == nil {
		return internal.DB.Model(&existing).Updates(map[string]interface{}{
			"content":     content,
			"status":      models.TranslationStatusConfirmed,
			"verified_by": verifiedBy,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to query translation: %w", err)
	}

	translation := models.Translation{
		ID:           uuid.New().String(),
		OriginalID:   originalID,
		OriginalType: originalType,
		Lang:         lang,
		Content:      content,
		Status:       models.TranslationStatusConfirmed,
		CreatedBy:    createdBy,
		VerifiedBy:   verifiedBy,
	}
	if createErr := internal.DB.Create(&translation).Error; createErr != nil {
		// Another request may have created the row first; update it instead.
		return internal.DB.Model(&models.Translation{}).
			Where("original_id = ? AND original_type = ? AND lang = ?", originalID, originalType, lang).
			Updates(map[string]interface{}{
				"content":     content,
				"status":      models.TranslationStatusConfirmed,
				"verified_by": verifiedBy,
			}).Error
	}
	return nil
}

func (s *GormTranslationStore) FindByTriple(originalID, originalType, lang string) (*models.Translation, error) {
	var translation models.Translation
	err := internal.DB.
		Where("original_id = ? AND original_type = ? AND lang = ?", originalID, originalType, lang).
		First(&translation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("translation not found for %s/%s/%s", originalID, originalType, lang)
		}
		return nil, fmt.Errorf("failed to query translation: %w", err)
	}
	return &translation, nil
}
