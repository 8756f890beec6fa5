package handlers

import (
	"net/http"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/services"

	"github.com/gin-gonic/gin"
)

type TranslationHandler struct {
	workflow *services.TranslationWorkflow
}

func NewTranslationHandler(workflow *services.TranslationWorkflow) *TranslationHandler {
	return &TranslationHandler{workflow: workflow}
}

type CreatePreviewRequest struct {
	OriginalID   string `json:"original_id"`
	OriginalType string `json:"original_type"`
	Lang         string `json:"lang"`
	Text         string `json:"text"`
}

type ConfirmPreviewRequest struct {
	PreviewID string `json:"preview_id"`
}

func (h *TranslationHandler) CreatePreview(c *gin.Context) {
	var req CreatePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}
	if req.OriginalType == "" {
		req.OriginalType = "document"
	}

	result, err := h.workflow.CreatePreview(c.Request.Context(),
		req.OriginalID, req.OriginalType, req.Lang, req.Text, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "preview": result})
}

func (h *TranslationHandler) ConfirmPreview(c *gin.Context) {
	var req ConfirmPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PreviewID == "" {
		respondError(c, apperrors.Validation("preview_id is required"))
		return
	}

	translationID, err := h.workflow.ConfirmPreview(req.PreviewID, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "translation_id": translationID})
}
