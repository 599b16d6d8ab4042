package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/spf13/cobra"
)

func newQueueCommand(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the offline queue",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List queued actions in replay order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueueList(cmd, get())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every queued action without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().queue.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("Offline queue cleared."))
			return nil
		},
	})

	return cmd
}

func describe(a models.OfflineAction) string {
	class := string(a.Payload.Category)
	if a.Type == models.KindIncome {
		class = string(a.Payload.Source)
	}
	when := "server time"
	switch {
	case a.Payload.OccurredAt != nil:
		when = a.Payload.OccurredAt.Local().Format(time.DateTime)
	case a.Payload.Recurrence != "":
		when = "next " + a.Payload.Recurrence
	}
	s := fmt.Sprintf("%-7s %10s  %-13s  %s", a.Type, a.Payload.Amount.StringFixed(2), class, when)
	if a.Payload.Note != nil && *a.Payload.Note != "" {
		s += "  " + *a.Payload.Note
	}
	return s
}

func runQueueList(cmd *cobra.Command, app *App) error {
	out := cmd.OutOrStdout()
	pending := app.queue.Pending(cmd.Context())
	if len(pending) == 0 {
		_, _ = fmt.Fprintln(out, Silent("Offline queue is empty."))
		return nil
	}

	for i, a := range pending {
		_, _ = fmt.Fprintf(out, "%s %s\n", Silent(fmt.Sprintf("%3d", i+1)), describe(a))
	}
	return nil
}
