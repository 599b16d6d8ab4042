package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/shopspring/decimal"
)

// ParseAmount reads a positive decimal amount such as "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !ledger.ValidAmount(d) {
		return decimal.Zero, errors.New("amount must be positive")
	}
	return d, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC3339, "2006-01-02T15:04" or "2006-01-02" in the
// local time zone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD or RFC3339)", s)
}

type entryInput struct {
	Amount string
	Class  string
	Note   string
	Date   string
	Every  string
}

// buildAction turns command-line input into a well-formed action. The
// recurrence is checked here so the queue never holds a rule the server
// would reject.
func buildAction(kind models.Kind, in entryInput) (models.OfflineAction, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return models.OfflineAction{}, err
	}

	p := models.Payload{Amount: amount}

	if in.Note != "" {
		note := in.Note
		p.Note = &note
	}
	if in.Date != "" && in.Every != "" {
		return models.OfflineAction{}, errors.New("--date and --every are mutually exclusive")
	}
	if in.Date != "" {
		at, err := ParseDate(in.Date)
		if err != nil {
			return models.OfflineAction{}, err
		}
		at = at.UTC()
		p.OccurredAt = &at
	}
	if in.Every != "" {
		if _, err := ledger.ParseRecurrence(in.Every); err != nil {
			return models.OfflineAction{}, err
		}
		p.Recurrence = in.Every
	}

	switch kind {
	case models.KindExpense:
		c, err := ledger.ParseExpenseCategory(in.Class)
		if err != nil {
			return models.OfflineAction{}, err
		}
		p.Category = c
		return models.NewExpenseAction(p), nil
	case models.KindIncome:
		s, err := ledger.ParseIncomeSource(in.Class)
		if err != nil {
			return models.OfflineAction{}, err
		}
		p.Source = s
		return models.NewIncomeAction(p), nil
	}
	return models.OfflineAction{}, fmt.Errorf("unknown kind %q", kind)
}
