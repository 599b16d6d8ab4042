// Package models defines client-side data models used by the budget CLI:
// queued offline actions and the records read back from the API.
package models

import (
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/shopspring/decimal"
)

// Kind discriminates what an OfflineAction creates on the server.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Payload carries the fields the server needs to build an Expense or an
// Income row. Category is set for expenses, Source for incomes.
type Payload struct {
	UserID   string                 `json:"userId,omitempty"`
	Amount   decimal.Decimal        `json:"amount"`
	Category ledger.ExpenseCategory `json:"category,omitempty"`
	Source   ledger.IncomeSource    `json:"source,omitempty"`
	Note     *string                `json:"note,omitempty"`

	// OccurredAt is optional; when nil the server derives it from
	// Recurrence or uses its own clock.
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
	Recurrence string     `json:"recurrence,omitempty"`
}

// OfflineAction is a write recorded while disconnected. It has no identity
// of its own: its position in the queue is its only handle.
type OfflineAction struct {
	Type    Kind     `json:"type"`
	Payload *Payload `json:"payload"`
}

// NewExpenseAction builds an expense action.
func NewExpenseAction(p Payload) OfflineAction {
	return OfflineAction{Type: KindExpense, Payload: &p}
}

// NewIncomeAction builds an income action.
func NewIncomeAction(p Payload) OfflineAction {
	return OfflineAction{Type: KindIncome, Payload: &p}
}

// Valid reports whether the action can be replayed. Entries failing this
// check are dropped when the queue is read back from storage.
func (a OfflineAction) Valid() bool {
	if !a.Type.Valid() || a.Payload == nil {
		return false
	}
	if !ledger.ValidAmount(a.Payload.Amount) {
		return false
	}
	switch a.Type {
	case KindExpense:
		return a.Payload.Category.Valid()
	case KindIncome:
		return a.Payload.Source.Valid()
	}
	return false
}
