package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clauseforge/internal/ai"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"
)

type memoryPreviewStore struct {
	previews map[string]*models.TranslationPreview
}

func newMemoryPreviewStore() *memoryPreviewStore {
	return &memoryPreviewStore{previews: make(map[string]*models.TranslationPreview)}
}

func (s *memoryPreviewStore) Insert(preview *models.TranslationPreview) error {
	s.previews[preview.ID] = preview
	return nil
}

func (s *memoryPreviewStore) FindValidByID(previewID string, now time.Time) (*models.TranslationPreview, error) {
	preview, ok := s.previews[previewID]
	if !ok || !preview.ExpiresAt.After(now) {
		return nil, nil
	}
	return preview, nil
}

func (s *memoryPreviewStore) MarkConfirmed(previewID string) error {
	if preview, ok := s.previews[previewID]; ok {
		preview.Confirmed = true
	}
	return nil
}

type memoryTranslationStore struct {
	records []*models.Translation
}

func (s *memoryTranslationStore) Upsert(originalID, originalType, lang, content, createdBy, verifiedBy string) error {
	for _, record := range s.records {
		if record.OriginalID == originalID && record.OriginalType == originalType && record.Lang == lang {
			record.Content = content
			record.VerifiedBy = verifiedBy
			return nil
		}
	}
	s.records = append(s.records, &models.Translation{
		ID:           fmt.Sprintf("tr-%d", len(s.records)+1),
		OriginalID:   originalID,
		OriginalType: originalType,
		Lang:         lang,
		Content:      content,
		Status:       models.TranslationStatusConfirmed,
		CreatedBy:    createdBy,
		VerifiedBy:   verifiedBy,
	})
	return nil
}

func (s *memoryTranslationStore) FindByTriple(originalID, originalType, lang string) (*models.Translation, error) {
	for _, record := range s.records {
		if record.OriginalID == originalID && record.OriginalType == originalType && record.Lang == lang {
			return record, nil
		}
	}
	return nil, apperrors.NotFound("translation not found")
}

type memoryDocumentSource struct {
	document *models.Document
}

func (s *memoryDocumentSource) Get(documentID string) (*models.Document, error) {
	if s.document == nil {
		return nil, apperrors.NotFound("document not found: %s", documentID)
	}
	return s.document, nil
}

// promptCompleter records the last prompt and echoes a canned translation.
type promptCompleter struct {
	text       string
	lastPrompt string
}

func (f *promptCompleter) Complete(ctx context.Context, messages []ai.Message, temperature float64) (*ai.Completion, error) {
	f.lastPrompt = messages[len(messages)-1].Content
	return &ai.Completion{Text: f.text, TokensUsed: 10, ModelUsed: "test-model"}, nil
}

func newTestWorkflow(completer ai.TextCompleter, previews PreviewStore, translations TranslationStore, documents DocumentSource) *TranslationWorkflow {
	return NewTranslationWorkflow(completer, previews, translations, documents, nil)
}

func TestCreatePreviewRequiresLang(t *testing.T) {
	workflow := newTestWorkflow(&promptCompleter{}, newMemoryPreviewStore(), &memoryTranslationStore{}, &memoryDocumentSource{})
	_, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "", "some text", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreatePreviewStoresPreview(t *testing.T) {
	previews := newMemoryPreviewStore()
	completer := &promptCompleter{text: "สวัสดี [Name]"}
	workflow := newTestWorkflow(completer, previews, &memoryTranslationStore{}, &memoryDocumentSource{})

	before := time.Now()
	result, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "th", "Hello [Name]", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.PreviewID)
	assert.Equal(t, "สวัสดี [Name]", result.Translated)
	assert.WithinDuration(t, before.Add(models.PreviewValidity), result.ExpiresAt, 5*time.Second)

	stored := previews.previews[result.PreviewID]
	require.NotNil(t, stored)
	assert.False(t, stored.Confirmed)
	assert.Equal(t, "th", stored.Lang)

	// Plain text gets the plain prompt.
	assert.NotContains(t, completer.lastPrompt, "HTML tag")
}

func TestCreatePreviewHTMLPrompt(t *testing.T) {
	completer := &promptCompleter{text: "<p>สวัสดี</p>"}
	workflow := newTestWorkflow(completer, newMemoryPreviewStore(), &memoryTranslationStore{}, &memoryDocumentSource{})

	_, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "th", "<p>Hello</p>", "")
	require.NoError(t, err)
	assert.Contains(t, completer.lastPrompt, "HTML")
	assert.Contains(t, completer.lastPrompt, "<p>Hello</p>")
}

func TestCreatePreviewResolvesDocumentText(t *testing.T) {
	document := &models.Document{
		ID:           "doc-1",
		DocumentName: "Offer",
		Content:      `{"clauses":[{"clause_type":"greeting","content":"Dear [Name],"}]}`,
	}
	completer := &promptCompleter{text: "translated"}
	workflow := newTestWorkflow(completer, newMemoryPreviewStore(), &memoryTranslationStore{}, &memoryDocumentSource{document: document})

	_, err := workflow.CreatePreview(context.Background(), "doc-1", "document", "de", "", "")
	require.NoError(t, err)
	assert.Contains(t, completer.lastPrompt, "Dear [Name],")
}

func TestCreatePreviewNothingToTranslate(t *testing.T) {
	workflow := newTestWorkflow(&promptCompleter{}, newMemoryPreviewStore(), &memoryTranslationStore{}, &memoryDocumentSource{})
	_, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "th", "   ", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestConfirmPreviewRoundtrip(t *testing.T) {
	previews := newMemoryPreviewStore()
	translations := &memoryTranslationStore{}
	workflow := newTestWorkflow(&promptCompleter{text: "übersetzt"}, previews, translations, &memoryDocumentSource{})

	result, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "de", "original", "user-1")
	require.NoError(t, err)

	translationID, err := workflow.ConfirmPreview(result.PreviewID, "reviewer-1")
	require.NoError(t, err)
	assert.NotEmpty(t, translationID)

	record, err := translations.FindByTriple("clause-1", "clause", "de")
	require.NoError(t, err)
	assert.Equal(t, "übersetzt", record.Content)
	assert.Equal(t, models.TranslationStatusConfirmed, record.Status)
	assert.Equal(t, "reviewer-1", record.VerifiedBy)
	assert.True(t, previews.previews[result.PreviewID].Confirmed)
}

func TestConfirmPreviewMissing(t *testing.T) {
	workflow := newTestWorkflow(&promptCompleter{}, newMemoryPreviewStore(), &memoryTranslationStore{}, &memoryDocumentSource{})
	_, err := workflow.ConfirmPreview("no-such-preview", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestConfirmPreviewExpired(t *testing.T) {
	previews := newMemoryPreviewStore()
	workflow := newTestWorkflow(&promptCompleter{text: "x"}, previews, &memoryTranslationStore{}, &memoryDocumentSource{})

	result, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "fr", "text", "")
	require.NoError(t, err)

	previews.previews[result.PreviewID].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = workflow.ConfirmPreview(result.PreviewID, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestConfirmPreviewUpsertsSameTriple(t *testing.T) {
	previews := newMemoryPreviewStore()
	translations := &memoryTranslationStore{}
	completer := &promptCompleter{text: "first version"}
	workflow := newTestWorkflow(completer, previews, translations, &memoryDocumentSource{})

	first, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "de", "text", "user-1")
	require.NoError(t, err)
	firstID, err := workflow.ConfirmPreview(first.PreviewID, "user-1")
	require.NoError(t, err)

	completer.text = "second version"
	second, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "de", "text", "user-2")
	require.NoError(t, err)
	secondID, err := workflow.ConfirmPreview(second.PreviewID, "user-2")
	require.NoError(t, err)

	// One record per triple, latest content, same id.
	assert.Equal(t, firstID, secondID)
	require.Len(t, translations.records, 1)
	assert.Equal(t, "second version", translations.records[0].Content)
	assert.Equal(t, "user-2", translations.records[0].VerifiedBy)
}

func TestConfirmPreviewFallsBackToCreator(t *testing.T) {
	previews := newMemoryPreviewStore()
	translations := &memoryTranslationStore{}
	workflow := newTestWorkflow(&promptCompleter{text: "x"}, previews, translations, &memoryDocumentSource{})

	result, err := workflow.CreatePreview(context.Background(), "clause-1", "clause", "es", "text", "creator-1")
	require.NoError(t, err)
	_, err = workflow.ConfirmPreview(result.PreviewID, "")
	require.NoError(t, err)

	record, err := translations.FindByTriple("clause-1", "clause", "es")
	require.NoError(t, err)
	assert.Equal(t, "creator-1", record.VerifiedBy)
}

func TestHTMLTagPattern(t *testing.T) {
	assert.True(t, htmlTagPattern.MatchString("<p>hi</p>"))
	assert.True(t, htmlTagPattern.MatchString(`<div class="x">`))
	assert.False(t, htmlTagPattern.MatchString("a < b and b > c"))
	assert.False(t, htmlTagPattern.MatchString("[Name] is not markup"))
}

func TestBracketTokenPattern(t *testing.T) {
	found := bracketTokenPattern.FindAllString("Dear [Name], start on [Start Date].", -1)
	assert.Equal(t, []string{"[Name]", "[Start Date]"}, found)
	assert.Empty(t, bracketTokenPattern.FindAllString(strings.Repeat("no tokens ", 3), -1))
}
