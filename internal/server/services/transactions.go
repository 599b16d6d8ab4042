// Package services holds the API server's business logic: validating and
// storing transactions, the dashboard, and profiles.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Dashboard is the body of GET /api/dashboard.
type Dashboard struct {
	Expenses []*models.Expense `json:"expenses"`
	Incomes  []*models.Income  `json:"incomes"`
}

type TransactionService struct {
	db    dbx.DBTX
	repos repomanager.RepositoryManager
	now   func() time.Time
}

func NewTransactionService(db dbx.DBTX, repos repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repos: repos, now: time.Now}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// OccurredAt picks the time a transaction is booked at: the explicit value,
// else the next occurrence of the recurrence rule, else now.
func OccurredAt(in models.TransactionInput, now time.Time) (time.Time, error) {
	if in.OccurredAt != nil {
		return in.OccurredAt.UTC(), nil
	}
	if in.Recurrence != "" {
		next, err := ledger.NextOccurrence(in.Recurrence, now)
		if err != nil {
			return time.Time{}, validationError("recurrence: %v", err)
		}
		return next.UTC(), nil
	}
	return now.UTC(), nil
}

func (s *TransactionService) prepare(in models.TransactionInput) (string, time.Time, error) {
	if !ledger.ValidAmount(in.Amount) {
		return "", time.Time{}, validationError("amount must be positive")
	}
	at, err := OccurredAt(in, s.now())
	if err != nil {
		return "", time.Time{}, err
	}
	return uuid.NewString(), at, nil
}

func (s *TransactionService) CreateExpense(ctx context.Context, userID string, in models.TransactionInput) (*models.Expense, error) {
	if !in.Category.Valid() {
		return nil, validationError("invalid category %q", in.Category)
	}
	id, at, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	e := &models.Expense{
		ID:         id,
		UserID:     userID,
		Amount:     in.Amount,
		Category:   in.Category,
		Note:       in.Note,
		OccurredAt: at,
	}
	if err := s.repos.Expenses(s.db).Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *TransactionService) CreateIncome(ctx context.Context, userID string, in models.TransactionInput) (*models.Income, error) {
	if !in.Source.Valid() {
		return nil, validationError("invalid source %q", in.Source)
	}
	id, at, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	i := &models.Income{
		ID:         id,
		UserID:     userID,
		Amount:     in.Amount,
		Source:     in.Source,
		Note:       in.Note,
		OccurredAt: at,
	}
	if err := s.repos.Incomes(s.db).Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *TransactionService) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.repos.Expenses(s.db).ListByUser(ctx, userID, 0)
}

func (s *TransactionService) ListIncomes(ctx context.Context, userID string) ([]*models.Income, error) {
	return s.repos.Incomes(s.db).ListByUser(ctx, userID, 0)
}

// Dashboard returns the latest limit expenses and incomes of userID.
func (s *TransactionService) Dashboard(ctx context.Context, userID string, limit int) (*Dashboard, error) {
	e, err := s.repos.Expenses(s.db).ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	i, err := s.repos.Incomes(s.db).ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Expenses: e, Incomes: i}, nil
}
