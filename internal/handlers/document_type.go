package handlers

import (
	"net/http"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/services"

	"github.com/gin-gonic/gin"
)

type DocumentTypeHandler struct {
	documentTypeService *services.DocumentTypeService
}

func NewDocumentTypeHandler(documentTypeService *services.DocumentTypeService) *DocumentTypeHandler {
	return &DocumentTypeHandler{documentTypeService: documentTypeService}
}

func (h *DocumentTypeHandler) List(c *gin.Context) {
	types, err := h.documentTypeService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "document_types": types})
}

func (h *DocumentTypeHandler) Create(c *gin.Context) {
	var req struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	docType, err := h.documentTypeService.Create(req.Code, req.Name, req.Description, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "document_type": docType})
}
