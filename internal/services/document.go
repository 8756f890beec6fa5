package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"clauseforge/internal"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"
	"clauseforge/internal/placeholder"
	"clauseforge/internal/storage"

	"github.com/google/uuid"
)

type DocumentService struct {
	templateService *TemplateService
}

func NewDocumentService(templateService *TemplateService) *DocumentService {
	return &DocumentService{
		templateService: templateService,
	}
}

// Create persists a document with a frozen clause snapshot and the variable
// values it was filled with. templateID is nil for the direct-content and
// AI paths.
func (s *DocumentService) Create(templateID *string, name, documentType string, content models.DocumentContent, variables map[string]string, userID string) (*models.Document, error) {
	if name == "" {
		return nil, apperrors.Validation("document_name is required")
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document content: %w", err)
	}

	if variables == nil {
		variables = map[string]string{}
	}
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document variables: %w", err)
	}

	document := &models.Document{
		ID:           uuid.New().String(),
		TemplateID:   templateID,
		UserID:       userID,
		DocumentName: name,
		DocumentType: documentType,
		Content:      string(contentJSON),
		Variables:    string(variablesJSON),
	}

	if err := internal.DB.Create(document).Error; err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return document, nil
}

// CreateFromTemplate fills every template clause with the supplied values and
// persists the result. Unfilled placeholders keep their bracket form.
func (s *DocumentService) CreateFromTemplate(templateID, name string, values map[string]string, userID string) (*models.Document, error) {
	template, err := s.templateService.GetWithClauses(templateID)
	if err != nil {
		return nil, err
	}

	content := models.DocumentContent{}
	for _, mapping := range template.Clauses {
		content.Clauses = append(content.Clauses, models.DocumentClause{
			ClauseType: mapping.Clause.ClauseType,
			Content:    placeholder.Substitute(mapping.Clause.Content, values),
			Category:   mapping.Clause.Category,
		})
	}

	if name == "" {
		name = template.TemplateName
	}

	return s.Create(&template.ID, name, template.DocumentType, content, values, userID)
}

// RenderPDF renders the document's clause snapshot to PDF, stores the
// artifact and records its object name on the document.
func (s *DocumentService) RenderPDF(ctx context.Context, document *models.Document, renderer Renderer, store storage.Client) error {
	clauses, err := document.ContentClauses()
	if err != nil {
		return fmt.Errorf("failed to decode document content: %w", err)
	}

	pdf, err := renderer.RenderFromHTML(ctx, documentHTML(document.DocumentName, clauses))
	if err != nil {
		return apperrors.Provider("pdf", err)
	}
	if len(pdf) == 0 {
		return apperrors.Provider("pdf", fmt.Errorf("rendering produced no output"))
	}

	objectName := storage.DocumentPDFObjectName(document.ID, placeholder.CleanForFilename(document.DocumentName))
	if _, err := store.UploadFile(ctx, bytes.NewReader(pdf), objectName, "application/pdf"); err != nil {
		return fmt.Errorf("failed to store PDF: %w", err)
	}
	if err := s.SetPDFPath(document.ID, objectName); err != nil {
		return err
	}
	document.PDFPath = objectName
	return nil
}

func (s *DocumentService) Get(documentID string) (*models.Document, error) {
	var document models.Document
	if err := internal.DB.First(&document, "id = ?", documentID).Error; err != nil {
		return nil, apperrors.NotFound("document not found: %s", documentID)
	}
	return &document, nil
}

// SetPDFPath records the storage object name of the document's rendered PDF.
func (s *DocumentService) SetPDFPath(documentID, pdfPath string) error {
	result := internal.DB.Model(&models.Document{}).
		Where("id = ?", documentID).
		UpdateColumn("pdf_path", pdfPath)
	if result.Error != nil {
		return fmt.Errorf("failed to update document pdf path: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("document not found: %s", documentID)
	}
	return nil
}

// ListByUser returns a user's documents, newest first, with pagination.
func (s *DocumentService) ListByUser(userID string, page, limit int) ([]models.Document, int64, error) {
	var documents []models.Document
	var total int64

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	if err := internal.DB.Model(&models.Document{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	if err := internal.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&documents).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get documents: %w", err)
	}

	return documents, total, nil
}

// ContentForLanguage returns the document text in the requested language.
// English is assembled directly from the snapshot; other languages come from
// the most recently updated confirmed translation. When no translation
// exists, the English text is returned with translated=false rather than an
// error.
func (s *DocumentService) ContentForLanguage(documentID, lang string) (content string, translated bool, err error) {
	document, err := s.Get(documentID)
	if err != nil {
		return "", false, err
	}

	if lang == "" || lang == "en" {
		return document.AssembledText(), true, nil
	}

	var translation models.Translation
	result := internal.DB.
		Where("original_id = ? AND original_type = ? AND lang = ? AND status = ?",
			documentID, "document", lang, models.TranslationStatusConfirmed).
		Order("updated_at DESC").
		First(&translation)
	if result.Error != nil {
		return document.AssembledText(), false, nil
	}

	return translation.Content, true, nil
}
