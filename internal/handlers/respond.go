package handlers

import (
	"errors"
	"net/http"

	"clauseforge/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP responses. Every error body
// carries success=false and a human-readable message; row errors additionally
// name the 1-indexed row and the offending fields so a spreadsheet author can
// fix the sheet without server-side help.
func respondError(c *gin.Context, err error) {
	var rowErr *apperrors.RowError
	if errors.As(err, &rowErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   rowErr.Error(),
			"row":     rowErr.Row,
			"fields":  rowErr.Fields,
		})
		return
	}

	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case apperrors.IsProvider(err):
		// Internal tool: keep the upstream message for diagnosability.
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
