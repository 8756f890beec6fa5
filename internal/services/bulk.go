package services

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"clauseforge/internal/ai"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"
	"clauseforge/internal/placeholder"
	"clauseforge/internal/storage"
)

// TemplateLoader is the template-repository read capability the assembler
// needs.
type TemplateLoader interface {
	GetWithClauses(templateID string) (*models.Template, error)
}

// DocumentWriter is the document-repository write capability.
type DocumentWriter interface {
	Create(templateID *string, name, documentType string, content models.DocumentContent, variables map[string]string, userID string) (*models.Document, error)
	SetPDFPath(documentID, pdfPath string) error
}

// UsageRecorder is the best-effort usage-accounting capability.
type UsageRecorder interface {
	Record(operation, originalID string, tokensUsed int, modelUsed, userID string)
}

// BulkResult is one finished bulk run: a zip archive of PDFs and the
// suggested download filename.
type BulkResult struct {
	Archive  []byte
	Filename string
	Count    int
}

// BulkAssembler turns one spreadsheet into one document and PDF per row,
// packaged as a single archive. Rows are processed strictly sequentially in
// sheet order; the first failing row aborts the whole request. Documents
// persisted for earlier rows are deliberately left in place.
type BulkAssembler struct {
	templates TemplateLoader
	documents DocumentWriter
	renderer  Renderer
	aiClient  ai.TextCompleter
	storage   storage.Client
	usage     UsageRecorder
}

func NewBulkAssembler(templates TemplateLoader, documents DocumentWriter, renderer Renderer, aiClient ai.TextCompleter, storageClient storage.Client, usage UsageRecorder) *BulkAssembler {
	return &BulkAssembler{
		templates: templates,
		documents: documents,
		renderer:  renderer,
		aiClient:  aiClient,
		storage:   storageClient,
		usage:     usage,
	}
}

// AssembleFromTemplate fills the template once per sheet row. Every
// placeholder extracted from the template's clauses must be covered by a
// column (raw or normalized header match) and must have a non-empty value in
// every row.
func (a *BulkAssembler) AssembleFromTemplate(ctx context.Context, templateID string, sheet *Sheet, userID string) (*BulkResult, error) {
	template, err := a.templates.GetWithClauses(templateID)
	if err != nil {
		return nil, err
	}

	contents := make([]string, 0, len(template.Clauses))
	for _, mapping := range template.Clauses {
		contents = append(contents, mapping.Clause.Content)
	}
	required := placeholder.Extract(contents)

	if err := checkHeaderCoverage(sheet.Headers, required); err != nil {
		return nil, err
	}

	archive := newArchiveBuilder()
	base := placeholder.FileBase(template.TemplateName)

	for i, row := range sheet.Rows {
		rowNum := i + 2 // 1-indexed counting the header row
		normalized := sheet.normalizedView(row, placeholder.NormalizeKey)

		values := make(map[string]string, len(required))
		var emptyFields []string
		for _, name := range required {
			value, ok := row[name]
			if !ok {
				value = normalized[placeholder.NormalizeKey(name)]
			}
			values[name] = value
			if strings.TrimSpace(value) == "" {
				emptyFields = append(emptyFields, name)
			}
		}
		if len(emptyFields) > 0 {
			return nil, apperrors.Row(rowNum, "missing values", emptyFields...)
		}

		identifier := placeholder.DerivePrimaryIdentifier(row, sheet.Headers)
		if identifier == "" {
			return nil, apperrors.Row(rowNum, "no identifier value found")
		}

		filename := base + "_" + placeholder.CleanForFilename(identifier)

		content := models.DocumentContent{}
		for _, mapping := range template.Clauses {
			content.Clauses = append(content.Clauses, models.DocumentClause{
				ClauseType: mapping.Clause.ClauseType,
				Content:    placeholder.Substitute(mapping.Clause.Content, values),
				Category:   mapping.Clause.Category,
			})
		}

		document, err := a.documents.Create(&template.ID, filename, template.DocumentType, content, values, userID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if err := a.renderAndCollect(ctx, document, filename, content.Clauses, rowNum, archive); err != nil {
			return nil, err
		}
	}

	return &BulkResult{
		Archive:  archive.bytes(),
		Filename: archiveFilename(),
		Count:    len(sheet.Rows),
	}, nil
}

// literalIdentifierHeaders are tried verbatim on the AI path before the
// normalized derivation and the Row<N> fallback.
var literalIdentifierHeaders = []string{"Name", "Full Name", "Employee Name", "Recipient"}

// AssembleWithAI generates one document per row from scratch: there is no
// template and no fixed placeholder set, so the row's raw values become the
// generation context and no column coverage check is possible.
func (a *BulkAssembler) AssembleWithAI(ctx context.Context, documentType string, sheet *Sheet, userID string) (*BulkResult, error) {
	if strings.TrimSpace(documentType) == "" {
		return nil, apperrors.Validation("document_type is required")
	}

	archive := newArchiveBuilder()
	base := placeholder.CleanForFilename(documentType)

	for i, row := range sheet.Rows {
		rowNum := i + 2

		clauses, tokens, model, err := a.generateClauses(ctx, documentType, sheet.Headers, row)
		if err != nil {
			return nil, apperrors.Provider("ai", fmt.Errorf("row %d: %w", rowNum, err))
		}

		identifier := ""
		for _, header := range literalIdentifierHeaders {
			if value := strings.TrimSpace(row[header]); value != "" {
				identifier = value
				break
			}
		}
		if identifier == "" {
			identifier = placeholder.DerivePrimaryIdentifier(row, sheet.Headers)
		}
		if identifier == "" {
			identifier = fmt.Sprintf("Row%d", i+1)
		}

		filename := base + "_" + placeholder.CleanForFilename(identifier)

		content := models.DocumentContent{Clauses: clauses}
		document, err := a.documents.Create(nil, filename, documentType, content, row, userID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if a.usage != nil {
			a.usage.Record(models.OpBulkGenerate, document.ID, tokens, model, userID)
		}

		if err := a.renderAndCollect(ctx, document, filename, content.Clauses, rowNum, archive); err != nil {
			return nil, err
		}
	}

	return &BulkResult{
		Archive:  archive.bytes(),
		Filename: archiveFilename(),
		Count:    len(sheet.Rows),
	}, nil
}

// renderAndCollect renders a document to PDF, stores the artifact and adds it
// to the archive. An empty render result aborts the batch at this row.
// Storage upload failure is non-fatal: the archive still carries the bytes.
func (a *BulkAssembler) renderAndCollect(ctx context.Context, document *models.Document, filename string, clauses []models.DocumentClause, rowNum int, archive *archiveBuilder) error {
	pdf, err := a.renderer.RenderFromHTML(ctx, documentHTML(document.DocumentName, clauses))
	if err != nil {
		return apperrors.Provider("pdf", fmt.Errorf("row %d: %w", rowNum, err))
	}
	if len(pdf) == 0 {
		return apperrors.Row(rowNum, "PDF rendering produced no output")
	}

	if a.storage != nil {
		objectName := storage.DocumentPDFObjectName(document.ID, filename)
		if _, err := a.storage.UploadFile(ctx, bytes.NewReader(pdf), objectName, "application/pdf"); err != nil {
			log.Printf("Warning: failed to store PDF for document %s: %v", document.ID, err)
		} else if err := a.documents.SetPDFPath(document.ID, objectName); err != nil {
			log.Printf("Warning: failed to record PDF path for document %s: %v", document.ID, err)
		}
	}

	archive.add(filename+".pdf", pdf)
	return nil
}

// generateClauses asks the AI capability for the document's clauses. The
// model is instructed to answer with a JSON array; a response that is not
// valid JSON becomes a single body clause instead of failing the row.
func (a *BulkAssembler) generateClauses(ctx context.Context, documentType string, headers []string, row map[string]string) ([]models.DocumentClause, int, string, error) {
	var details strings.Builder
	for _, header := range headers {
		if value := strings.TrimSpace(row[header]); value != "" {
			fmt.Fprintf(&details, "- %s: %s\n", header, value)
		}
	}

	prompt := fmt.Sprintf(
		"Write a complete %q business document using these details:\n%s\n"+
			"Respond with a JSON array of clauses, each an object with \"clause_type\" and \"content\" "+
			"(HTML allowed in content). Respond with the JSON array only.",
		documentType, details.String())

	completion, err := a.aiClient.Complete(ctx, []ai.Message{
		{Role: "system", Content: "You are a legal drafting assistant."},
		{Role: "user", Content: prompt},
	}, 0.4)
	if err != nil {
		return nil, 0, "", err
	}

	var generated []struct {
		ClauseType string `json:"clause_type"`
		Content    string `json:"content"`
	}
	text := strings.TrimSpace(completion.Text)
	if err := json.Unmarshal([]byte(text), &generated); err != nil || len(generated) == 0 {
		return []models.DocumentClause{{
			ClauseType: "body",
			Content:    completion.Text,
			Category:   documentType,
		}}, completion.TokensUsed, completion.ModelUsed, nil
	}

	clauses := make([]models.DocumentClause, 0, len(generated))
	for _, g := range generated {
		clauses = append(clauses, models.DocumentClause{
			ClauseType: g.ClauseType,
			Content:    g.Content,
			Category:   documentType,
		})
	}
	return clauses, completion.TokensUsed, completion.ModelUsed, nil
}

// checkHeaderCoverage fails with the full list of missing placeholders when
// any required placeholder has neither an exact nor a normalized header
// match. Runs once per request, before any row is processed.
func checkHeaderCoverage(headers, required []string) error {
	rawSet := make(map[string]bool, len(headers))
	normalizedSet := make(map[string]bool, len(headers))
	for _, header := range headers {
		rawSet[header] = true
		normalizedSet[placeholder.NormalizeKey(header)] = true
	}

	var missing []string
	for _, name := range required {
		if rawSet[name] || normalizedSet[placeholder.NormalizeKey(name)] {
			continue
		}
		missing = append(missing, name)
	}

	if len(missing) > 0 {
		return apperrors.Validation("missing columns for placeholders: %s", strings.Join(missing, ", "))
	}
	return nil
}

// documentHTML wraps the clause snapshot into a minimal HTML page for the
// PDF renderer. Clause content is already HTML.
func documentHTML(name string, clauses []models.DocumentClause) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(name)
	b.WriteString("</title></head><body>")
	for _, clause := range clauses {
		b.WriteString("<div class=\"clause\">")
		b.WriteString(clause.Content)
		b.WriteString("</div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func archiveFilename() string {
	return fmt.Sprintf("documents_%s.zip", time.Now().Format("20060102_150405"))
}

// archiveBuilder collects named PDF entries in row order. A duplicate name
// replaces the earlier entry's bytes, matching the overwrite behavior of
// writing the same path twice.
type archiveBuilder struct {
	names   []string
	entries map[string][]byte
}

func newArchiveBuilder() *archiveBuilder {
	return &archiveBuilder{entries: make(map[string][]byte)}
}

func (b *archiveBuilder) add(name string, data []byte) {
	if _, exists := b.entries[name]; !exists {
		b.names = append(b.names, name)
	}
	b.entries[name] = data
}

// bytes packages the entries as a deflate archive at maximum compression.
func (b *archiveBuilder) bytes() []byte {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, name := range b.names {
		w, err := zw.Create(name)
		if err != nil {
			continue
		}
		w.Write(b.entries[name])
	}

	zw.Close()
	return buf.Bytes()
}
