package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/ledger"
	"github.com/spf13/cobra"
)

func newAddCommand(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense or an income",
	}
	cmd.AddCommand(
		newAddKindCommand(get, models.KindExpense),
		newAddKindCommand(get, models.KindIncome),
	)
	return cmd
}

func newAddKindCommand(get func() *App, kind models.Kind) *cobra.Command {
	var in entryInput

	use, short := "expense <amount> <category>", "Record an expense"
	choices := make([]string, 0, len(ledger.ExpenseCategories))
	for _, c := range ledger.ExpenseCategories {
		choices = append(choices, strings.ToLower(string(c)))
	}
	if kind == models.KindIncome {
		use, short = "income <amount> <source>", "Record an income"
		choices = choices[:0]
		for _, s := range ledger.IncomeSources {
			choices = append(choices, strings.ToLower(string(s)))
		}
	}

	cmd := &cobra.Command{
		Use:       use,
		Short:     short,
		Long:      fmt.Sprintf("%s.\n\nOne of: %s", short, strings.Join(choices, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: choices,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Amount, in.Class = args[0], args[1]
			return runAdd(cmd, get(), kind, in)
		},
	}

	cmd.Flags().StringVarP(&in.Note, "note", "n", "", "free-text note")
	cmd.Flags().StringVar(&in.Date, "date", "", "when it happened (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&in.Every, "every", "", `recurrence, e.g. "monthly", "every friday" or an RRULE`)
	return cmd
}

func runAdd(cmd *cobra.Command, app *App, kind models.Kind, in entryInput) error {
	a, err := buildAction(kind, in)
	if err != nil {
		return err
	}

	res, err := app.tx.Record(cmd.Context(), a)
	out := cmd.OutOrStdout()
	if err != nil {
		_, _ = fmt.Fprintln(out, Error(res.Message))
		return err
	}

	if res.Queued {
		_, _ = fmt.Fprintln(out, Warning(res.Message))
	} else {
		_, _ = fmt.Fprintln(out, Success(res.Message))
	}
	return nil
}
