package services

import (
	"fmt"
	"log"

	"clauseforge/internal"
	"clauseforge/internal/models"

	"github.com/google/uuid"
)

type UsageService struct{}

func NewUsageService() *UsageService {
	return &UsageService{}
}

// Record writes one usage-accounting row for an AI call. Best effort: a
// failure is logged and swallowed so it can never fail the primary operation.
func (s *UsageService) Record(operation, originalID string, tokensUsed int, modelUsed, userID string) {
	entry := models.UsageLog{
		ID:         uuid.New().String(),
		Operation:  operation,
		OriginalID: originalID,
		TokensUsed: tokensUsed,
		ModelUsed:  modelUsed,
		UserID:     userID,
	}

	if err := internal.DB.Create(&entry).Error; err != nil {
		log.Printf("Warning: failed to record usage for %s: %v", operation, err)
	}
}

// TotalTokens sums recorded token usage for one operation, or all operations
// when operation is empty.
func (s *UsageService) TotalTokens(operation string) (int64, error) {
	var total int64
	query := internal.DB.Model(&models.UsageLog{}).Select("COALESCE(SUM(tokens_used), 0)")
	if operation != "" {
		query = query.Where("operation = ?", operation)
	}
	if err := query.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum token usage: %w", err)
	}
	return total, nil
}
