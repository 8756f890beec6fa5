package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"clauseforge/internal/ai"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"

	"github.com/google/uuid"
)

// PreviewStore is the translation-preview persistence capability.
type PreviewStore interface {
	Insert(preview *models.TranslationPreview) error
	FindValidByID(previewID string, now time.Time) (*models.TranslationPreview, error)
	MarkConfirmed(previewID string) error
}

// TranslationStore is the durable-translation persistence capability.
type TranslationStore interface {
	Upsert(originalID, originalType, lang, content, createdBy, verifiedBy string) error
	FindByTriple(originalID, originalType, lang string) (*models.Translation, error)
}

// DocumentSource resolves a document when a preview request does not carry
// its source text directly.
type DocumentSource interface {
	Get(documentID string) (*models.Document, error)
}

// PreviewResult is what CreatePreview hands back to the caller.
type PreviewResult struct {
	PreviewID  string    `json:"preview_id"`
	Translated string    `json:"translated"`
	ExpiresAt  time.Time `json:"expires_at"`
}

var (
	htmlTagPattern      = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	bracketTokenPattern = regexp.MustCompile(`\[[^\[\]]+\]`)
)

const htmlTranslationPrompt = "Translate the following HTML content to %s. " +
	"Preserve every HTML tag and attribute exactly as given and keep all bracketed " +
	"placeholders like [Name] untranslated. Translate only the textual content " +
	"between tags. Respond with the translated HTML only.\n\n%s"

const plainTranslationPrompt = "Translate the following text to %s. " +
	"Keep all bracketed placeholders like [Name] untranslated and preserve the " +
	"original formatting and line breaks. Respond with the translation only.\n\n%s"

// TranslationWorkflow drives the two-phase preview/confirm lifecycle of
// machine translations. A preview is valid for a fixed window; confirming
// moves its content into the durable translation record keyed by
// (original_id, original_type, lang).
type TranslationWorkflow struct {
	aiClient     ai.TextCompleter
	previews     PreviewStore
	translations TranslationStore
	documents    DocumentSource
	usage        UsageRecorder
}

func NewTranslationWorkflow(aiClient ai.TextCompleter, previews PreviewStore, translations TranslationStore, documents DocumentSource, usage UsageRecorder) *TranslationWorkflow {
	return &TranslationWorkflow{
		aiClient:     aiClient,
		previews:     previews,
		translations: translations,
		documents:    documents,
		usage:        usage,
	}
}

// CreatePreview translates text (resolved from the document's assembled
// content when not supplied) and stores an unconfirmed preview row valid for
// 30 minutes. Placeholder and markup consistency problems in the model
// output are logged, never fatal: translation is best effort by nature.
func (w *TranslationWorkflow) CreatePreview(ctx context.Context, originalID, originalType, lang, text, createdBy string) (*PreviewResult, error) {
	if strings.TrimSpace(lang) == "" {
		return nil, apperrors.Validation("lang is required")
	}

	if strings.TrimSpace(text) == "" && originalType == "document" {
		document, err := w.documents.Get(originalID)
		if err != nil {
			return nil, err
		}
		text = document.AssembledText()
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("nothing to translate")
	}

	isHTML := htmlTagPattern.MatchString(text)
	promptTemplate := plainTranslationPrompt
	if isHTML {
		promptTemplate = htmlTranslationPrompt
	}

	completion, err := w.aiClient.Complete(ctx, []ai.Message{
		{Role: "system", Content: "You are a professional translator for legal and business documents."},
		{Role: "user", Content: fmt.Sprintf(promptTemplate, lang, text)},
	}, 0.2)
	if err != nil {
		return nil, err
	}

	if isHTML && !htmlTagPattern.MatchString(completion.Text) {
		log.Printf("Warning: translation of %s/%s dropped all HTML markup", originalType, originalID)
	}
	inTokens := len(bracketTokenPattern.FindAllString(text, -1))
	outTokens := len(bracketTokenPattern.FindAllString(completion.Text, -1))
	if inTokens != outTokens {
		log.Printf("Warning: translation of %s/%s changed placeholder count from %d to %d",
			originalType, originalID, inTokens, outTokens)
	}

	preview := &models.TranslationPreview{
		ID:                uuid.New().String(),
		OriginalID:        originalID,
		OriginalType:      originalType,
		Lang:              lang,
		TranslatedContent: completion.Text,
		CreatedBy:         createdBy,
		ExpiresAt:         time.Now().Add(models.PreviewValidity),
	}
	if err := w.previews.Insert(preview); err != nil {
		return nil, fmt.Errorf("failed to save translation preview: %w", err)
	}

	if w.usage != nil {
		w.usage.Record(models.OpTranslatePreview, originalID, completion.TokensUsed, completion.ModelUsed, createdBy)
	}

	return &PreviewResult{
		PreviewID:  preview.ID,
		Translated: preview.TranslatedContent,
		ExpiresAt:  preview.ExpiresAt,
	}, nil
}

// ConfirmPreview promotes a still-valid preview into the durable translation
// record. Missing and expired previews are indistinguishable here: both are
// a NotFound. The preview's confirmed flag is informational and does not
// block a later preview for the same triple from overwriting the record.
func (w *TranslationWorkflow) ConfirmPreview(previewID, userID string) (string, error) {
	preview, err := w.previews.FindValidByID(previewID, time.Now())
	if err != nil {
		return "", err
	}
	if preview == nil {
		return "", apperrors.NotFound("translation preview not found or expired: %s", previewID)
	}

	verifiedBy := userID
	if verifiedBy == "" {
		verifiedBy = preview.CreatedBy
	}

	if err := w.translations.Upsert(preview.OriginalID, preview.OriginalType, preview.Lang,
		preview.TranslatedContent, preview.CreatedBy, verifiedBy); err != nil {
		return "", fmt.Errorf("failed to save translation: %w", err)
	}

	if err := w.previews.MarkConfirmed(previewID); err != nil {
		log.Printf("Warning: failed to mark preview %s confirmed: %v", previewID, err)
	}

	// The upsert does not return the row id on every backend; re-query by
	// the triple.
	translation, err := w.translations.FindByTriple(preview.OriginalID, preview.OriginalType, preview.Lang)
	if err != nil {
		return "", fmt.Errorf("failed to load confirmed translation: %w", err)
	}

	return translation.ID, nil
}
