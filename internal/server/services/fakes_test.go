package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/incomes"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/profiles"
)

type memRepos struct {
	mu       sync.Mutex
	expenses []*models.Expense
	incomes  []*models.Income
	profiles map[string]*models.Profile
	err      error
}

func newMemRepos() *memRepos {
	return &memRepos{profiles: make(map[string]*models.Profile)}
}

func (m *memRepos) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepos) Expenses(dbx.DBTX) expenses.Repository         { return memExpenses{m} }
func (m *memRepos) Incomes(dbx.DBTX) incomes.Repository           { return memIncomes{m} }
func (m *memRepos) Profiles(dbx.DBTX) profiles.Repository         { return memProfiles{m} }

func limited[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

type memExpenses struct{ m *memRepos }

func (r memExpenses) Create(_ context.Context, e *models.Expense) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	e.CreatedAt = time.Now().UTC()
	r.m.expenses = append(r.m.expenses, e)
	return nil
}

func (r memExpenses) ListByUser(_ context.Context, userID string, limit int) ([]*models.Expense, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	out := []*models.Expense{}
	for _, e := range r.m.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return limited(out, limit), nil
}

type memIncomes struct{ m *memRepos }

func (r memIncomes) Create(_ context.Context, i *models.Income) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	i.CreatedAt = time.Now().UTC()
	r.m.incomes = append(r.m.incomes, i)
	return nil
}

func (r memIncomes) ListByUser(_ context.Context, userID string, limit int) ([]*models.Income, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	out := []*models.Income{}
	for _, i := range r.m.incomes {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].OccurredAt.After(out[b].OccurredAt) })
	return limited(out, limit), nil
}

type memProfiles struct{ m *memRepos }

func (r memProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return nil, r.m.err
	}
	p, ok := r.m.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProfiles) Upsert(_ context.Context, p *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.err != nil {
		return r.m.err
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	r.m.profiles[p.UserID] = &cp
	return nil
}
