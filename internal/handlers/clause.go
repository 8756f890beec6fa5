package handlers

import (
	"net/http"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"
	"clauseforge/internal/services"

	"github.com/gin-gonic/gin"
)

type ClauseHandler struct {
	clauseService *services.ClauseService
}

func NewClauseHandler(clauseService *services.ClauseService) *ClauseHandler {
	return &ClauseHandler{clauseService: clauseService}
}

type BatchCreateRequest struct {
	Clauses []models.ClauseInput `json:"clauses"`
}

type GenerateClauseRequest struct {
	ClauseType   string `json:"clause_type"`
	Category     string `json:"category"`
	Instructions string `json:"instructions"`
}

func (h *ClauseHandler) Create(c *gin.Context) {
	var input models.ClauseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	clause, err := h.clauseService.Create(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "clause": clause})
}

// BatchCreate inserts the clauses strictly in request order so later name
// resolutions see the earlier inserts of the same batch.
func (h *ClauseHandler) BatchCreate(c *gin.Context) {
	var req BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}
	if len(req.Clauses) == 0 {
		respondError(c, apperrors.Validation("clauses is required"))
		return
	}

	clauses, err := h.clauseService.BatchCreate(req.Clauses)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "clauses": clauses})
}

func (h *ClauseHandler) Generate(c *gin.Context) {
	var req GenerateClauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	clause, err := h.clauseService.GenerateClause(c.Request.Context(), req.ClauseType, req.Category, req.Instructions, c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "clause": clause})
}

func (h *ClauseHandler) List(c *gin.Context) {
	clauses, err := h.clauseService.List(c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clauses": clauses})
}

func (h *ClauseHandler) Get(c *gin.Context) {
	clause, err := h.clauseService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clause": clause})
}

func (h *ClauseHandler) Update(c *gin.Context) {
	var req struct {
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body: %v", err))
		return
	}

	clause, err := h.clauseService.Update(c.Param("id"), req.Content, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clause": clause})
}

func (h *ClauseHandler) Delete(c *gin.Context) {
	if err := h.clauseService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Clause deleted"})
}
