// Package incomes stores income rows in PostgreSQL.
package incomes

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.Income) error
	// ListByUser returns the user's incomes, newest occurredAt first. A
	// limit <= 0 returns all of them.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Income, error)
}
