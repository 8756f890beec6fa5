package handlers

import (
	"net/http"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

type CreateTemplateRequest struct {
	TemplateName  string   `json:"template_name"`
	DocumentType  string   `json:"document_type"`
	Description   string   `json:"description"`
	IsAIGenerated bool     `json:"is_ai_generated"`
	ClauseIDs     []string `json:"clause_ids"`
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	template, err := h.templateService.CreateWithClauses(services.TemplateInput{
		TemplateName:  req.TemplateName,
		DocumentType:  req.DocumentType,
		Description:   req.Description,
		IsAIGenerated: req.IsAIGenerated,
	}, req.ClauseIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "template": template})
}

func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.templateService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templateService.GetWithClauses(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
}

func (h *TemplateHandler) AddClause(c *gin.Context) {
	var req struct {
		ClauseID string `json:"clause_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ClauseID == "" {
		respondError(c, apperrors.Validation("clause_id is required"))
		return
	}

	template, err := h.templateService.AddClause(c.Param("id"), req.ClauseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
}

func (h *TemplateHandler) RemoveClause(c *gin.Context) {
	template, err := h.templateService.RemoveClause(c.Param("id"), c.Param("clauseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templateService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Template deleted"})
}
