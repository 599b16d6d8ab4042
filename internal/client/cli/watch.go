package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/connectivity"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newWatchCommand(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay running, show connectivity and sync the queue on reconnect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, get())
		},
	}
}

// renderBanner returns the banner text for v; empty when there is nothing
// to show.
func renderBanner(v connectivity.View) string {
	s := ""
	if v.Offline {
		s = offlineBannerStyle.Render("Offline mode: entries will be queued and synced when you reconnect.")
	}
	if v.Message != "" {
		if s != "" {
			s += " "
		}
		s += syncedBannerStyle.Render(v.Message)
	}
	return s
}

type bannerPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	inPlace bool
	printed bool
	last    string
}

func (p *bannerPrinter) print(v connectivity.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := renderBanner(v)
	if p.printed && s == p.last {
		return
	}
	p.printed = true
	p.last = s

	if p.inPlace {
		_, _ = fmt.Fprintf(p.out, "\r\033[K%s", s)
		return
	}
	if s == "" {
		s = Success("Online")
	}
	_, _ = fmt.Fprintf(p.out, "%s %s\n", Silent(time.Now().Format(time.TimeOnly)), s)
}

func serveMetrics(ctx context.Context, app *App) {
	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Error(ctx, "metrics server failed", "error", err)
		}
	}()
}

func runWatch(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if app.config.MetricsAddr != "" {
		serveMetrics(ctx, app)
	}

	printer := &bannerPrinter{out: out, inPlace: isTerminal(out)}
	banner := connectivity.NewBanner(app.config.NotificationTTL)
	banner.OnChange = printer.print
	defer banner.Close()

	monitor := connectivity.NewMonitor(app.signal, app.queue, banner, app.log)
	err := monitor.Run(ctx)
	if printer.inPlace {
		_, _ = fmt.Fprintln(out)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
