// Package profiles stores one profile row per user in PostgreSQL.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no profile.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}
