package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/incomes"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/profiles"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Expenses(db dbx.DBTX) expenses.Repository
	Incomes(db dbx.DBTX) incomes.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
