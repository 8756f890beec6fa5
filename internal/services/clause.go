package services

import (
	"context"
	"fmt"
	"strings"

	"clauseforge/internal"
	"clauseforge/internal/ai"
	"clauseforge/internal/apperrors"
	"clauseforge/internal/models"

	"github.com/google/uuid"
)

// TypeLookup returns the existing clause types starting with prefix within a
// category.
type TypeLookup func(prefix, category string) ([]string, error)

type ClauseService struct {
	aiClient     ai.TextCompleter
	usageService *UsageService
}

func NewClauseService(aiClient ai.TextCompleter, usageService *UsageService) *ClauseService {
	return &ClauseService{
		aiClient:     aiClient,
		usageService: usageService,
	}
}

// ResolveUniqueName finds a clause-type name that does not collide with the
// existing types the lookup reports. The desired name is returned unchanged
// when free; otherwise desired-1, desired-2, ... are probed in order until an
// unused name is found. Callers creating clauses in a batch must run their
// resolutions sequentially so each one observes the previous inserts.
func ResolveUniqueName(desired, category string, lookup TypeLookup) (string, error) {
	existing, err := lookup(desired, category)
	if err != nil {
		return "", fmt.Errorf("failed to look up clause types: %w", err)
	}

	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	if !taken[desired] {
		return desired, nil
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", desired, i)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}

// TypesByPrefix lists clause types starting with prefix in a category.
// Soft-deleted clauses are included so a freed name is never handed out again.
func (s *ClauseService) TypesByPrefix(prefix, category string) ([]string, error) {
	var types []string
	query := internal.DB.Unscoped().Model(&models.Clause{}).
		Where("clause_type LIKE ?", prefix+"%")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Pluck("clause_type", &types).Error; err != nil {
		return nil, fmt.Errorf("failed to query clause types: %w", err)
	}
	return types, nil
}

// Create inserts one clause, rewriting its type through ResolveUniqueName
// first so it cannot collide with an existing type in the same category.
func (s *ClauseService) Create(input models.ClauseInput) (*models.Clause, error) {
	if strings.TrimSpace(input.ClauseType) == "" {
		return nil, apperrors.Validation("clause_type is required")
	}

	resolved, err := ResolveUniqueName(input.ClauseType, input.Category, s.TypesByPrefix)
	if err != nil {
		return nil, err
	}

	clause := &models.Clause{
		ID:            uuid.New().String(),
		ClauseType:    resolved,
		Content:       input.Content,
		Category:      input.Category,
		IsAIGenerated: input.IsAIGenerated,
	}

	if err := internal.DB.Create(clause).Error; err != nil {
		return nil, fmt.Errorf("failed to save clause: %w", err)
	}

	return clause, nil
}

// BatchCreate inserts clauses one at a time, in input order, so every name
// resolution sees the effects of the earlier ones in the same batch.
// Concurrent batches may still race; uniqueness is a convention, not a
// database constraint.
func (s *ClauseService) BatchCreate(inputs []models.ClauseInput) ([]models.Clause, error) {
	clauses := make([]models.Clause, 0, len(inputs))
	for i, input := range inputs {
		clause, err := s.Create(input)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i+1, err)
		}
		clauses = append(clauses, *clause)
	}
	return clauses, nil
}

// GenerateClause asks the AI capability to draft clause text for a type and
// category, then persists it through the normal collision-safe create path.
func (s *ClauseService) GenerateClause(ctx context.Context, clauseType, category, instructions, userID string) (*models.Clause, error) {
	if strings.TrimSpace(clauseType) == "" {
		return nil, apperrors.Validation("clause_type is required")
	}

	prompt := fmt.Sprintf(
		"Draft the body of a %q clause for a %s business document. "+
			"Write formal, neutral legal prose. Use bracketed placeholders like [Employee Name] "+
			"for any party- or date-specific value. Return only the clause text.",
		clauseType, category)
	if strings.TrimSpace(instructions) != "" {
		prompt += "\n\nAdditional instructions: " + instructions
	}

	completion, err := s.aiClient.Complete(ctx, []ai.Message{
		{Role: "system", Content: "You are a legal drafting assistant."},
		{Role: "user", Content: prompt},
	}, 0.4)
	if err != nil {
		return nil, err
	}

	s.usageService.Record(models.OpClauseDraft, "", completion.TokensUsed, completion.ModelUsed, userID)

	return s.Create(models.ClauseInput{
		ClauseType:    clauseType,
		Content:       completion.Text,
		Category:      category,
		IsAIGenerated: true,
	})
}

// Get returns one clause by id.
func (s *ClauseService) Get(clauseID string) (*models.Clause, error) {
	var clause models.Clause
	if err := internal.DB.First(&clause, "id = ?", clauseID).Error; err != nil {
		return nil, apperrors.NotFound("clause not found: %s", clauseID)
	}
	return &clause, nil
}

// List returns clauses, optionally filtered by category.
func (s *ClauseService) List(category string) ([]models.Clause, error) {
	var clauses []models.Clause
	query := internal.DB.Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&clauses).Error; err != nil {
		return nil, fmt.Errorf("failed to get clauses: %w", err)
	}
	return clauses, nil
}

// Update rewrites a clause's content and category. The clause type is fixed
// after creation.
func (s *ClauseService) Update(clauseID, content, category string) (*models.Clause, error) {
	clause, err := s.Get(clauseID)
	if err != nil {
		return nil, err
	}

	clause.Content = content
	if category != "" {
		clause.Category = category
	}

	if err := internal.DB.Save(clause).Error; err != nil {
		return nil, fmt.Errorf("failed to update clause: %w", err)
	}
	return clause, nil
}

func (s *ClauseService) Delete(clauseID string) error {
	clause, err := s.Get(clauseID)
	if err != nil {
		return err
	}
	return internal.DB.Delete(clause).Error
}
