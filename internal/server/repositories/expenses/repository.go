// Package expenses stores expense rows in PostgreSQL.
package expenses

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.Expense) error
	// ListByUser returns the user's expenses, newest occurredAt first. A
	// limit <= 0 returns all of them.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Expense, error)
}
