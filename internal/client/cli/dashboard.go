package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/spf13/cobra"
)

func newDashboardCommand(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals of the latest expenses and incomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, get())
		},
	}
}

func runDashboard(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	d, err := app.api.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("load dashboard: %w", err)
	}

	currency := ""
	if p, err := app.api.Profile(ctx); err == nil && p != nil && p.Currency != "" {
		currency = " " + p.Currency
	}

	printSummary(out, d.Summarize(), currency)

	if n := len(app.queue.Pending(ctx)); n > 0 {
		_, _ = fmt.Fprintln(out, Warning(fmt.Sprintf("%d offline item(s) not yet synced", n)))
	}
	return nil
}

func printSummary(out io.Writer, s models.Summary, currency string) {
	line := func(label, value string) {
		_, _ = fmt.Fprintf(out, "  %-14s %12s%s\n", label, value, currency)
	}

	_, _ = fmt.Fprintln(out, Header("Summary"))
	line("Income", s.TotalIncome.StringFixed(2))
	line("Expenses", s.TotalExpenses.StringFixed(2))
	line("Balance", s.Balance.StringFixed(2))

	if len(s.ByCategory) > 0 {
		_, _ = fmt.Fprintln(out, Header("Expenses by category"))
		for _, c := range ledger.ExpenseCategories {
			if v, ok := s.ByCategory[c]; ok {
				line(string(c), v.StringFixed(2))
			}
		}
	}
	if len(s.BySource) > 0 {
		_, _ = fmt.Fprintln(out, Header("Income by source"))
		for _, src := range ledger.IncomeSources {
			if v, ok := s.BySource[src]; ok {
				line(string(src), v.StringFixed(2))
			}
		}
	}
}
