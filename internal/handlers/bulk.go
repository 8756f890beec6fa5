package handlers

import (
	"net/http"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/services"

	"github.com/gin-gonic/gin"
)

type BulkHandler struct {
	assembler *services.BulkAssembler
}

func NewBulkHandler(assembler *services.BulkAssembler) *BulkHandler {
	return &BulkHandler{assembler: assembler}
}

// GenerateFromTemplate handles template-based bulk generation: a template id
// plus an xlsx upload, one PDF per data row, returned as one zip archive.
func (h *BulkHandler) GenerateFromTemplate(c *gin.Context) {
	templateID := c.PostForm("template_id")
	if templateID == "" {
		respondError(c, apperrors.Validation("template_id is required"))
		return
	}

	sheet, err := h.parseUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.assembler.AssembleFromTemplate(c.Request.Context(), templateID, sheet, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondArchive(c, result)
}

// GenerateWithAI handles the template-less variant: a document-type string
// plus an xlsx upload; each row's values become the AI generation context.
func (h *BulkHandler) GenerateWithAI(c *gin.Context) {
	documentType := c.PostForm("document_type")
	if documentType == "" {
		respondError(c, apperrors.Validation("document_type is required"))
		return
	}

	sheet, err := h.parseUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.assembler.AssembleWithAI(c.Request.Context(), documentType, sheet, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondArchive(c, result)
}

func (h *BulkHandler) parseUpload(c *gin.Context) (*services.Sheet, error) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		return nil, apperrors.Validation("spreadsheet file is required")
	}
	defer file.Close()

	return services.ParseSheet(file)
}

func (h *BulkHandler) respondArchive(c *gin.Context, result *services.BulkResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	c.Data(http.StatusOK, "application/zip", result.Archive)
}
