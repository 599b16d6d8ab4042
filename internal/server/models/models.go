// Package models defines the rows the API server stores in PostgreSQL and
// returns as JSON.
package models

import (
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"userId"`
	Amount     decimal.Decimal        `json:"amount"`
	Category   ledger.ExpenseCategory `json:"category"`
	Note       *string                `json:"note"`
	OccurredAt time.Time              `json:"occurredAt"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type Income struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId"`
	Amount     decimal.Decimal     `json:"amount"`
	Source     ledger.IncomeSource `json:"source"`
	Note       *string             `json:"note"`
	OccurredAt time.Time           `json:"occurredAt"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// Profile is keyed by the user id; there is at most one per user.
type Profile struct {
	UserID      string    `json:"userId"`
	DisplayName *string   `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	Currency    string    `json:"currency"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TransactionInput is the body of POST /api/expense and /api/income. The
// userId a client may send is ignored.
type TransactionInput struct {
	Amount     decimal.Decimal        `json:"amount"`
	Category   ledger.ExpenseCategory `json:"category,omitempty"`
	Source     ledger.IncomeSource    `json:"source,omitempty"`
	Note       *string                `json:"note,omitempty"`
	OccurredAt *time.Time             `json:"occurredAt,omitempty"`
	Recurrence string                 `json:"recurrence,omitempty"`
}

// ProfileInput is the body of PUT /api/profile.
type ProfileInput struct {
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	Currency    string  `json:"currency"`
}
