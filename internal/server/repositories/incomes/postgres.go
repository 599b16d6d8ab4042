package incomes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// limitArg turns a non-positive limit into NULL, which PostgreSQL reads as
// no limit.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Income) error {
	query := `
		INSERT INTO incomes (id, user_id, amount, source, note, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.UserID, e.Amount, string(e.Source), e.Note, e.OccurredAt,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert income: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Income, error) {
	query := `
		SELECT id, user_id, amount, source, note, occurred_at, created_at
		FROM incomes
		WHERE user_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to select incomes: %w", err)
	}
	defer rows.Close()

	result := []*models.Income{}
	for rows.Next() {
		var item models.Income
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Amount, &item.Source, &item.Note, &item.OccurredAt, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}
	return result, nil
}
