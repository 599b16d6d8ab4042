package models

import (
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/shopspring/decimal"
)

// Expense is an expense row as returned by the API.
type Expense struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"userId"`
	Amount     decimal.Decimal        `json:"amount"`
	Category   ledger.ExpenseCategory `json:"category"`
	Note       *string                `json:"note"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Income is an income row as returned by the API.
type Income struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId"`
	Amount     decimal.Decimal     `json:"amount"`
	Source     ledger.IncomeSource `json:"source"`
	Note       *string             `json:"note"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// Dashboard is the latest expenses and incomes of the signed-in user.
type Dashboard struct {
	Expenses []Expense `json:"expenses"`
	Incomes  []Income  `json:"incomes"`
}

// Profile holds user preferences kept on the server.
type Profile struct {
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	Currency    string  `json:"currency,omitempty"`
}

// Summary is the client-side aggregation of a Dashboard.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	ByCategory    map[ledger.ExpenseCategory]decimal.Decimal
	BySource      map[ledger.IncomeSource]decimal.Decimal
}

// Summarize totals the dashboard rows.
func (d Dashboard) Summarize() Summary {
	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    make(map[ledger.ExpenseCategory]decimal.Decimal),
		BySource:      make(map[ledger.IncomeSource]decimal.Decimal),
	}
	for _, e := range d.Expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
	}
	for _, i := range d.Incomes {
		s.TotalIncome = s.TotalIncome.Add(i.Amount)
		s.BySource[i.Source] = s.BySource[i.Source].Add(i.Amount)
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}
