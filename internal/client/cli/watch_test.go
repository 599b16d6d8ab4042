package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBanner(t *testing.T) {
	assert.Empty(t, renderBanner(connectivity.View{}))
	assert.Contains(t, renderBanner(connectivity.View{Offline: true}), "Offline mode")

	s := renderBanner(connectivity.View{Offline: true, Message: "2 offline item(s) synced"})
	assert.Contains(t, s, "Offline mode")
	assert.Contains(t, s, "2 offline item(s) synced")
}

func TestBannerPrinter_SkipsRepeats(t *testing.T) {
	var out bytes.Buffer
	p := &bannerPrinter{out: &out}

	p.print(connectivity.View{})
	p.print(connectivity.View{})
	p.print(connectivity.View{Offline: true})
	p.print(connectivity.View{Offline: true})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Online")
	assert.Contains(t, lines[1], "Offline mode")
}

func TestBannerPrinter_InPlace(t *testing.T) {
	var out bytes.Buffer
	p := &bannerPrinter{out: &out, inPlace: true}

	p.print(connectivity.View{Offline: true})
	assert.True(t, strings.HasPrefix(out.String(), "\r\033[K"))
	assert.NotContains(t, out.String(), "\n")
}

func TestWatch_SyncsOnReconnect(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.run(t, "add", "expense", "9", "misc")
	require.NoError(t, err)

	sig := connectivity.NewChannelSignal(false)
	cfg := config.Default()
	cfg.UserID = "user-1"
	app := newApp(cfg, logging.Discard(), h.meta, h.api, sig)

	old := isTerminal
	isTerminal = func(io.Writer) bool { return false }
	defer func() { isTerminal = old }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	root := NewRootCommand(func(context.Context, *config.Config, logging.Logger) (*App, error) {
		return app, nil
	})
	root.SetOut(out)
	root.SetArgs([]string{"watch"})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Offline mode")
	}, 2*time.Second, 10*time.Millisecond)

	sig.Push(connectivity.Online)

	require.Eventually(t, func() bool {
		return len(app.queue.Pending(context.Background())) == 0
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "1 offline item(s) synced")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Len(t, h.api.submitted, 1)
}
