// Package ledger holds the vocabulary shared by the client and the server:
// expense categories, income sources and amount rules.
package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an expense.
type ExpenseCategory string

const (
	CategoryGroceries     ExpenseCategory = "GROCERIES"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryMaintenance   ExpenseCategory = "MAINTENANCE"
	CategoryMisc          ExpenseCategory = "MISC"
	CategoryLoans         ExpenseCategory = "LOANS"
	CategorySubscriptions ExpenseCategory = "SUBSCRIPTIONS"
	CategorySavings       ExpenseCategory = "SAVINGS"
	CategoryInsurance     ExpenseCategory = "INSURANCE"
	CategoryTuitions      ExpenseCategory = "TUITIONS"
	CategoryAllowances    ExpenseCategory = "ALLOWANCES"
)

// ExpenseCategories lists every category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryGroceries, CategoryUtilities, CategoryMaintenance, CategoryMisc, CategoryLoans,
	CategorySubscriptions, CategorySavings, CategoryInsurance, CategoryTuitions, CategoryAllowances,
}

// IncomeSource classifies an income.
type IncomeSource string

const (
	SourceSalary     IncomeSource = "SALARY"
	SourceInvestment IncomeSource = "INVESTMENT"
	SourceOther      IncomeSource = "OTHER"
)

var IncomeSources = []IncomeSource{SourceSalary, SourceInvestment, SourceOther}

func (c ExpenseCategory) Valid() bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (s IncomeSource) Valid() bool {
	for _, v := range IncomeSources {
		if v == s {
			return true
		}
	}
	return false
}

// ParseExpenseCategory accepts any letter case.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	c := ExpenseCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown expense category %q", s)
	}
	return c, nil
}

// ParseIncomeSource accepts any letter case.
func ParseIncomeSource(s string) (IncomeSource, error) {
	src := IncomeSource(strings.ToUpper(strings.TrimSpace(s)))
	if !src.Valid() {
		return "", fmt.Errorf("unknown income source %q", s)
	}
	return src, nil
}

// ValidAmount reports whether a is strictly positive.
func ValidAmount(a decimal.Decimal) bool {
	return a.IsPositive()
}
