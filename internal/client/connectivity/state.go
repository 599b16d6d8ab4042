// Package connectivity tracks whether the budget API is reachable and
// drives the offline queue when it becomes reachable again.
package connectivity

import (
	"context"
	"time"
)

type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	if s == Online {
		return "online"
	}
	return "offline"
}

// Transition is a reachability event. Signals may repeat the current state;
// the Monitor ignores such events.
type Transition struct {
	To State
	At time.Time
}

// Signal is the host's view of network reachability.
type Signal interface {
	// Online reports the current state.
	Online(ctx context.Context) bool
	// Subscribe delivers transitions until ctx is done, then closes the
	// channel.
	Subscribe(ctx context.Context) <-chan Transition
}
