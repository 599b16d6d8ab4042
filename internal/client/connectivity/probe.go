package connectivity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe checks reachability once. A nil error means online.
type Probe interface {
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) error

func (f ProbeFunc) Check(ctx context.Context) error { return f(ctx) }

// Pinger is satisfied by client.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPProbe checks the API's /health endpoint through the API client.
func HTTPProbe(p Pinger) Probe {
	return ProbeFunc(p.Ping)
}

// GRPCHealthProbe queries the standard gRPC health service.
type GRPCHealthProbe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewGRPCHealthProbe(addr string) (*GRPCHealthProbe, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCHealthProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

func (p *GRPCHealthProbe) Check(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("health status %s", resp.GetStatus())
	}
	return nil
}

func (p *GRPCHealthProbe) Close() error {
	return p.conn.Close()
}

// ProbeSignal turns periodic probe results into Transitions. Only changes
// are emitted.
type ProbeSignal struct {
	probe    Probe
	interval time.Duration
	timeout  time.Duration

	mu    sync.Mutex
	known bool
	last  State
}

func NewProbeSignal(p Probe, interval, timeout time.Duration) *ProbeSignal {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &ProbeSignal{probe: p, interval: interval, timeout: timeout}
}

func (s *ProbeSignal) check(ctx context.Context) State {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.probe.Check(ctx); err != nil {
		return Offline
	}
	return Online
}

// observe records st and reports whether it differs from the previous
// observation.
func (s *ProbeSignal) observe(st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := !s.known || s.last != st
	s.known = true
	s.last = st
	return changed
}

func (s *ProbeSignal) Online(ctx context.Context) bool {
	st := s.check(ctx)
	s.observe(st)
	return st == Online
}

func (s *ProbeSignal) Subscribe(ctx context.Context) <-chan Transition {
	out := make(chan Transition)

	go func() {
		defer close(out)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				st := s.check(ctx)
				if !s.observe(st) {
					continue
				}
				select {
				case out <- Transition{To: st, At: now}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// ChannelSignal is a Signal fed by hand. Tests and embedders that already
// receive reachability events push them with Push.
type ChannelSignal struct {
	mu     sync.Mutex
	online bool
	ch     chan Transition
}

func NewChannelSignal(online bool) *ChannelSignal {
	return &ChannelSignal{online: online, ch: make(chan Transition)}
}

func (c *ChannelSignal) Online(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *ChannelSignal) Subscribe(context.Context) <-chan Transition {
	return c.ch
}

// Push delivers a transition and blocks until the subscriber takes it.
func (c *ChannelSignal) Push(to State) {
	c.mu.Lock()
	c.online = to == Online
	c.mu.Unlock()
	c.ch <- Transition{To: to, At: time.Now()}
}

// Close ends the subscription.
func (c *ChannelSignal) Close() {
	close(c.ch)
}
