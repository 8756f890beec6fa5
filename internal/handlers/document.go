package handlers

import (
	"io"
	"net/http"
	"strconv"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"
	"clauseforge/internal/services"
	"clauseforge/internal/storage"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	renderer        services.Renderer
	storageClient   storage.Client
}

func NewDocumentHandler(documentService *services.DocumentService, renderer services.Renderer, storageClient storage.Client) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		renderer:        renderer,
		storageClient:   storageClient,
	}
}

type CreateDocumentRequest struct {
	DocumentName string                  `json:"document_name"`
	DocumentType string                  `json:"document_type"`
	Clauses      []models.DocumentClause `json:"clauses"`
	Variables    map[string]string       `json:"variables"`
}

type FillTemplateRequest struct {
	TemplateID   string            `json:"template_id"`
	DocumentName string            `json:"document_name"`
	Values       map[string]string `json:"values"`
}

// Create persists a document from directly supplied clause content.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	document, err := h.documentService.Create(nil, req.DocumentName, req.DocumentType,
		models.DocumentContent{Clauses: req.Clauses}, req.Variables, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.documentService.RenderPDF(c.Request.Context(), document, h.renderer, h.storageClient); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"document":     document,
		"download_url": "/documents/" + document.ID + "/download",
	})
}

// FillTemplate creates a document by filling a template's clauses with the
// supplied values.
func (h *DocumentHandler) FillTemplate(c *gin.Context) {
	var req FillTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}
	if req.TemplateID == "" {
		respondError(c, apperrors.Validation("template_id is required"))
		return
	}

	document, err := h.documentService.CreateFromTemplate(req.TemplateID, req.DocumentName, req.Values, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.documentService.RenderPDF(c.Request.Context(), document, h.renderer, h.storageClient); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"document":     document,
		"download_url": "/documents/" + document.ID + "/download",
	})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	document, err := h.documentService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "document": document})
}

func (h *DocumentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	documents, total, err := h.documentService.ListByUser(c.GetHeader("X-User-ID"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"documents": documents,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// Content returns the document text in the requested language. When no
// confirmed translation exists, the English text is returned with
// translated=false instead of an error.
func (h *DocumentHandler) Content(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")

	content, translated, err := h.documentService.ContentForLanguage(c.Param("id"), lang)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"lang":       lang,
		"content":    content,
		"translated": translated,
	})
}

// Download streams the document's rendered PDF from storage.
func (h *DocumentHandler) Download(c *gin.Context) {
	document, err := h.documentService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if document.PDFPath == "" {
		respondError(c, apperrors.NotFound("document %s has no rendered PDF", document.ID))
		return
	}

	reader, err := h.storageClient.ReadFile(c.Request.Context(), document.PDFPath)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+document.DocumentName+".pdf\"")
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Response already started; nothing to send back.
		return
	}
}
