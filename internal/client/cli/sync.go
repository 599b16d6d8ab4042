package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send queued actions now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, get())
		},
	}
}

func runSync(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	pending := len(app.queue.Pending(ctx))
	if pending == 0 {
		_, _ = fmt.Fprintln(out, Silent("Nothing to sync."))
		return nil
	}
	if !app.signal.Online(ctx) {
		_, _ = fmt.Fprintln(out, Warning(fmt.Sprintf("Offline: %d item(s) stay queued", pending)))
		return nil
	}

	res := app.queue.Flush(ctx)
	switch {
	case res.Flushed >= pending:
		_, _ = fmt.Fprintln(out, Success(fmt.Sprintf("%d offline item(s) synced", res.Flushed)))
	default:
		_, _ = fmt.Fprintln(out, Warning(fmt.Sprintf("%d of %d item(s) accepted; queue kept for retry", res.Flushed, pending)))
	}
	return nil
}
