package connectivity

import (
	"fmt"
	"sync"
	"time"
)

// NotificationTTL is how long a sync message stays visible.
const NotificationTTL = 3200 * time.Millisecond

// View is a snapshot of what the banner shows.
type View struct {
	Offline bool
	Message string
}

// Banner is a Notifier that keeps the offline indicator and a transient
// sync message. OnChange, when set, is called after every change with the
// new view; it must not call back into the Banner.
type Banner struct {
	OnChange func(View)

	mu    sync.Mutex
	ttl   time.Duration
	view  View
	timer *time.Timer
	gen   int
}

func NewBanner(ttl time.Duration) *Banner {
	if ttl <= 0 {
		ttl = NotificationTTL
	}
	return &Banner{ttl: ttl}
}

func (b *Banner) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

func (b *Banner) StatusChanged(s State) {
	b.mu.Lock()
	b.view.Offline = s == Offline
	v := b.view
	b.mu.Unlock()
	b.emit(v)
}

// Synced shows "<n> offline item(s) synced" and schedules its removal. A
// newer message restarts the timer.
func (b *Banner) Synced(n int) {
	b.mu.Lock()
	b.view.Message = fmt.Sprintf("%d offline item(s) synced", n)
	b.gen++
	gen := b.gen
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.ttl, func() { b.expire(gen) })
	v := b.view
	b.mu.Unlock()
	b.emit(v)
}

func (b *Banner) expire(gen int) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.view.Message = ""
	b.timer = nil
	v := b.view
	b.mu.Unlock()
	b.emit(v)
}

// Close stops a pending expiry timer.
func (b *Banner) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Banner) emit(v View) {
	if b.OnChange != nil {
		b.OnChange(v)
	}
}
