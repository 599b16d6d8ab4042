package connectivity

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
)

// Flusher replays queued actions.
type Flusher interface {
	Flush(ctx context.Context) services.FlushResult
}

// Notifier receives what the user should see.
type Notifier interface {
	StatusChanged(s State)
	Synced(n int)
}

// Monitor consumes Signal transitions. It flushes once at start when
// online and again on every offline to online change.
type Monitor struct {
	signal   Signal
	queue    Flusher
	notifier Notifier
	log      logging.Logger

	mu    sync.RWMutex
	state State
}

func NewMonitor(signal Signal, queue Flusher, notifier Notifier, log logging.Logger) *Monitor {
	return &Monitor{
		signal:   signal,
		queue:    queue,
		notifier: notifier,
		log:      log.With("module", "connectivity"),
		state:    Offline,
	}
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Online reports the last observed state, so a Monitor can be handed to
// code that only needs to ask.
func (m *Monitor) Online(context.Context) bool {
	return m.State() == Online
}

func (m *Monitor) set(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
	if m.notifier != nil {
		m.notifier.StatusChanged(s)
	}
}

// Run blocks until ctx is done or the signal closes its channel.
func (m *Monitor) Run(ctx context.Context) error {
	events := m.signal.Subscribe(ctx)

	initial := Offline
	if m.signal.Online(ctx) {
		initial = Online
	}
	m.set(initial)
	m.log.Info(ctx, "connectivity monitor started", "state", initial)

	if initial == Online {
		res := m.queue.Flush(ctx)
		m.log.Debug(ctx, "startup flush finished", "flushed", res.Flushed)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.handle(ctx, ev)
		}
	}
}

func (m *Monitor) handle(ctx context.Context, ev Transition) {
	if ev.To == m.State() {
		return
	}
	m.set(ev.To)
	m.log.Info(ctx, "connectivity changed", "state", ev.To)

	if ev.To != Online {
		return
	}

	res := m.queue.Flush(ctx)
	if res.Flushed > 0 && m.notifier != nil {
		m.notifier.Synced(res.Flushed)
	}
}
