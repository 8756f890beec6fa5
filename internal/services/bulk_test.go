package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clauseforge/internal/ai"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"
)

type fakeTemplateLoader struct {
	template *models.Template
	err      error
}

func (f *fakeTemplateLoader) GetWithClauses(templateID string) (*models.Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.template, nil
}

type createdDocument struct {
	name      string
	variables map[string]string
	content   models.DocumentContent
}

type fakeDocumentWriter struct {
	created  []createdDocument
	pdfPaths map[string]string
	err      error
}

func (f *fakeDocumentWriter) Create(templateID *string, name, documentType string, content models.DocumentContent, variables map[string]string, userID string) (*models.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, createdDocument{name: name, variables: variables, content: content})
	return &models.Document{
		ID:           fmt.Sprintf("doc-%d", len(f.created)),
		DocumentName: name,
		DocumentType: documentType,
	}, nil
}

func (f *fakeDocumentWriter) SetPDFPath(documentID, pdfPath string) error {
	if f.pdfPaths == nil {
		f.pdfPaths = make(map[string]string)
	}
	f.pdfPaths[documentID] = pdfPath
	return nil
}

// fakeRenderer echoes the input HTML as the PDF bytes so tests can assert on
// the substituted content without a real converter.
type fakeRenderer struct {
	calls int
	err   error
	empty bool
}

func (f *fakeRenderer) RenderFromHTML(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}
	return []byte(html), nil
}

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.Message, temperature float64) (*ai.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Completion{Text: f.text, TokensUsed: 42, ModelUsed: "test-model"}, nil
}

func letterTemplate() *models.Template {
	return &models.Template{
		ID:           "tpl-1",
		TemplateName: "offer letter",
		DocumentType: "offer_letter",
		Clauses: []models.TemplateClause{
			{Position: 1, Clause: models.Clause{ClauseType: "greeting", Content: "<p>Dear [Name],</p>"}},
			{Position: 2, Clause: models.Clause{ClauseType: "body", Content: "<p>Your salary is [Salary].</p>"}},
		},
	}
}

func archiveEntries(t *testing.T, archive []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	entries := make(map[string]string, len(zr.File))
	for _, file := range zr.File {
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[file.Name] = string(data)
	}
	return entries
}

func TestAssembleFromTemplate(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	writer := &fakeDocumentWriter{}
	renderer := &fakeRenderer{}
	assembler := NewBulkAssembler(loader, writer, renderer, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Salary"},
		Rows: []map[string]string{
			{"Name": "Alice", "Salary": "50000"},
			{"Name": "Bob", "Salary": "60000"},
		},
	}

	result, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Regexp(t, `^documents_\d{8}_\d{6}\.zip$`, result.Filename)

	entries := archiveEntries(t, result.Archive)
	require.Len(t, entries, 2)
	assert.Contains(t, entries["Offerletter_Alice.pdf"], "Dear Alice,")
	assert.Contains(t, entries["Offerletter_Alice.pdf"], "Your salary is 50000.")
	assert.Contains(t, entries["Offerletter_Bob.pdf"], "Dear Bob,")

	require.Len(t, writer.created, 2)
	assert.Equal(t, "Offerletter_Alice", writer.created[0].name)
	assert.Equal(t, "Alice", writer.created[0].variables["Name"])
}

func TestAssembleFromTemplateNormalizedHeaders(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	writer := &fakeDocumentWriter{}
	assembler := NewBulkAssembler(loader, writer, &fakeRenderer{}, nil, nil, nil)

	// Headers differ from placeholder names but normalize to the same keys.
	sheet := &Sheet{
		Headers: []string{"name", "SALARY"},
		Rows:    []map[string]string{{"name": "Alice", "SALARY": "50000"}},
	}

	result, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.NoError(t, err)
	entries := archiveEntries(t, result.Archive)
	assert.Contains(t, entries["Offerletter_Alice.pdf"], "Dear Alice,")
}

func TestAssembleFromTemplateMissingColumn(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	writer := &fakeDocumentWriter{}
	renderer := &fakeRenderer{}
	assembler := NewBulkAssembler(loader, writer, renderer, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name"},
		Rows:    []map[string]string{{"Name": "Alice"}},
	}

	_, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Salary")
	// Coverage failed before any row work.
	assert.Zero(t, renderer.calls)
	assert.Empty(t, writer.created)
}

func TestAssembleFromTemplateEmptyValue(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	assembler := NewBulkAssembler(loader, &fakeDocumentWriter{}, &fakeRenderer{}, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Salary"},
		Rows: []map[string]string{
			{"Name": "Alice", "Salary": ""},
		},
	}

	_, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.Error(t, err)
	var rowErr *apperrors.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, []string{"Salary"}, rowErr.Fields)
}

func TestAssembleFromTemplateFailFastKeepsEarlierDocuments(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	writer := &fakeDocumentWriter{}
	assembler := NewBulkAssembler(loader, writer, &fakeRenderer{}, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Salary"},
		Rows: []map[string]string{
			{"Name": "Alice", "Salary": "50000"},
			{"Name": "Bob", "Salary": ""},
		},
	}

	_, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.Error(t, err)
	var rowErr *apperrors.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	// Row 2 was fully processed before row 3 failed; it is not rolled back.
	require.Len(t, writer.created, 1)
	assert.Equal(t, "Offerletter_Alice", writer.created[0].name)
}

func TestAssembleFromTemplateEmptyPDFAborts(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	assembler := NewBulkAssembler(loader, &fakeDocumentWriter{}, &fakeRenderer{empty: true}, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Salary"},
		Rows:    []map[string]string{{"Name": "Alice", "Salary": "50000"}},
	}

	_, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.Error(t, err)
	var rowErr *apperrors.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Contains(t, rowErr.Reason, "no output")
}

func TestAssembleFromTemplateRenderFailure(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	assembler := NewBulkAssembler(loader, &fakeDocumentWriter{}, &fakeRenderer{err: errors.New("converter down")}, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Salary"},
		Rows:    []map[string]string{{"Name": "Alice", "Salary": "50000"}},
	}

	_, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
	assert.Contains(t, err.Error(), "row 2")
}

func TestAssembleFromTemplateDuplicateIdentifierOverwrites(t *testing.T) {
	loader := &fakeTemplateLoader{template: letterTemplate()}
	assembler := NewBulkAssembler(loader, &fakeDocumentWriter{}, &fakeRenderer{}, nil, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Salary"},
		Rows: []map[string]string{
			{"Name": "Alice", "Salary": "50000"},
			{"Name": "Alice", "Salary": "70000"},
		},
	}

	result, err := assembler.AssembleFromTemplate(context.Background(), "tpl-1", sheet, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	// Both rows produced the same archive name; the later row's bytes win.
	entries := archiveEntries(t, result.Archive)
	require.Len(t, entries, 1)
	assert.Contains(t, entries["Offerletter_Alice.pdf"], "70000")
}

func TestAssembleWithAI(t *testing.T) {
	completer := &fakeCompleter{
		text: `[{"clause_type":"greeting","content":"<p>Dear Alice,</p>"},{"clause_type":"body","content":"<p>Welcome.</p>"}]`,
	}
	writer := &fakeDocumentWriter{}
	assembler := NewBulkAssembler(nil, writer, &fakeRenderer{}, completer, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name", "Position"},
		Rows:    []map[string]string{{"Name": "Alice", "Position": "Engineer"}},
	}

	result, err := assembler.AssembleWithAI(context.Background(), "offer letter", sheet, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	entries := archiveEntries(t, result.Archive)
	require.Len(t, entries, 1)
	assert.Contains(t, entries["offerletter_Alice.pdf"], "Dear Alice,")

	require.Len(t, writer.created, 1)
	require.Len(t, writer.created[0].content.Clauses, 2)
	assert.Equal(t, "greeting", writer.created[0].content.Clauses[0].ClauseType)
}

func TestAssembleWithAINonJSONFallback(t *testing.T) {
	completer := &fakeCompleter{text: "Dear Alice, welcome aboard."}
	writer := &fakeDocumentWriter{}
	assembler := NewBulkAssembler(nil, writer, &fakeRenderer{}, completer, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Name"},
		Rows:    []map[string]string{{"Name": "Alice"}},
	}

	_, err := assembler.AssembleWithAI(context.Background(), "offer letter", sheet, "")
	require.NoError(t, err)
	require.Len(t, writer.created, 1)
	require.Len(t, writer.created[0].content.Clauses, 1)
	assert.Equal(t, "body", writer.created[0].content.Clauses[0].ClauseType)
	assert.Equal(t, "Dear Alice, welcome aboard.", writer.created[0].content.Clauses[0].Content)
}

func TestAssembleWithAIRequiresDocumentType(t *testing.T) {
	assembler := NewBulkAssembler(nil, &fakeDocumentWriter{}, &fakeRenderer{}, &fakeCompleter{}, nil, nil)
	_, err := assembler.AssembleWithAI(context.Background(), "  ", &Sheet{}, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAssembleWithAIRowFallbackIdentifier(t *testing.T) {
	completer := &fakeCompleter{text: "generated"}
	writer := &fakeDocumentWriter{}
	assembler := NewBulkAssembler(nil, writer, &fakeRenderer{}, completer, nil, nil)

	sheet := &Sheet{
		Headers: []string{"Notes"},
		Rows:    []map[string]string{{"Notes": ""}},
	}

	result, err := assembler.AssembleWithAI(context.Background(), "nda", sheet, "")
	require.NoError(t, err)
	entries := archiveEntries(t, result.Archive)
	assert.Contains(t, entries, "nda_Row1.pdf")
}

func TestCheckHeaderCoverage(t *testing.T) {
	err := checkHeaderCoverage([]string{"Name", "start date"}, []string{"Name", "Start Date", "Salary"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Salary")
	assert.NotContains(t, err.Error(), "Start Date")

	assert.NoError(t, checkHeaderCoverage([]string{"Name"}, []string{"name"}))
	assert.NoError(t, checkHeaderCoverage([]string{"Name"}, nil))
}
