package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"clauseforge/internal"
	"clauseforge/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActivityLogService struct{}

func NewActivityLogService() *ActivityLogService {
	return &ActivityLogService{}
}

// LoggingMiddleware persists one activity_logs row per request after the
// handler chain finishes. Persistence failures are logged and never affect
// the response.
func (s *ActivityLogService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		go s.logRequest(c.Copy(), c.Writer.Status(), time.Since(start))
	}
}

func (s *ActivityLogService) logRequest(c *gin.Context, statusCode int, responseTime time.Duration) {
	queryParams := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}
	queryJSON, _ := json.Marshal(queryParams)

	entry := models.ActivityLog{
		ID:           uuid.New().String(),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    c.ClientIP(),
		QueryParams:  string(queryJSON),
		StatusCode:   statusCode,
		ResponseTime: responseTime.Milliseconds(),
		UserID:       c.GetHeader("X-User-ID"),
	}

	if err := internal.DB.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to save activity log: %v", err)
	}
}

// RecentLogs returns the newest activity log rows, capped at limit.
func (s *ActivityLogService) RecentLogs(limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var logs []models.ActivityLog
	if err := internal.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get activity logs: %w", err)
	}
	return logs, nil
}
