// Package services contains application services for the budget client.
// This file defines the offline queue service: enqueueing writes made while
// disconnected and replaying them when connectivity returns.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ActionStore is the durable FIFO the queue service owns.
type ActionStore interface {
	Append(ctx context.Context, a models.OfflineAction) error
	ReadAll(ctx context.Context) []models.OfflineAction
	Clear(ctx context.Context) error
	DropHead(ctx context.Context, n int) error
}

// FlushResult reports how many actions a flush pass delivered.
type FlushResult struct {
	Flushed int
}

// QueueService defines the offline queue operations.
//
// Contract:
//   - Enqueue: validate and persist an action; never touches the network.
//   - Flush: replay a snapshot of the queue in order. The queue is truncated
//     only when every action of the snapshot was accepted; otherwise it is
//     kept intact and retried whole on the next pass.
//   - Pending: the currently queued actions.
//   - Clear: drop every queued action.
type QueueService interface {
	Enqueue(ctx context.Context, a models.OfflineAction) error
	Flush(ctx context.Context) FlushResult
	Pending(ctx context.Context) []models.OfflineAction
	Clear(ctx context.Context) error
}

type queueService struct {
	store   ActionStore
	client  client.Client
	log     logging.Logger
	metrics *QueueMetrics
	flights singleflight.Group
}

// NewQueueService constructs a QueueService. metrics may be nil.
func NewQueueService(store ActionStore, c client.Client, log logging.Logger, metrics *QueueMetrics) QueueService {
	if metrics == nil {
		metrics = NewQueueMetrics(nil)
	}
	return &queueService{
		store:   store,
		client:  c,
		log:     log.With("module", "queue"),
		metrics: metrics,
	}
}

func (s *queueService) Enqueue(ctx context.Context, a models.OfflineAction) error {
	if !a.Valid() {
		return fmt.Errorf("%w: type %q", common.ErrMalformedAction, a.Type)
	}

	if err := s.store.Append(ctx, a); err != nil {
		s.log.Error(ctx, "failed to enqueue offline action", "type", a.Type, "error", err)
		return err
	}

	s.metrics.Enqueued.Inc()
	s.metrics.Depth.Inc()
	s.log.Debug(ctx, "offline action queued", "type", a.Type)
	return nil
}

// Flush shares one pass between concurrent callers. A pass that has started
// runs to completion even if the caller's context is cancelled.
func (s *queueService) Flush(ctx context.Context) FlushResult {
	v, _, _ := s.flights.Do("flush", func() (any, error) {
		return s.flush(context.WithoutCancel(ctx)), nil
	})
	return v.(FlushResult)
}

func (s *queueService) flush(ctx context.Context) FlushResult {
	snapshot := s.store.ReadAll(ctx)
	if len(snapshot) == 0 {
		s.metrics.Depth.Set(0)
		return FlushResult{}
	}

	ok := 0
	for i, a := range snapshot {
		if err := s.client.Submit(ctx, a.Type, a.Payload); err != nil {
			s.metrics.FlushFailures.Inc()
			s.log.Warn(ctx, "failed to replay offline action", "index", i, "type", a.Type, "error", err)
			continue
		}
		ok++
	}
	s.metrics.Flushed.Add(float64(ok))

	if ok == len(snapshot) {
		if err := s.store.DropHead(ctx, ok); err != nil {
			s.log.Error(ctx, "failed to truncate offline queue", "error", err)
		}
		s.log.Info(ctx, "offline queue flushed", "flushed", ok)
	} else {
		s.log.Warn(ctx, "partial flush, keeping queue", "flushed", ok, "queued", len(snapshot))
	}

	s.metrics.Depth.Set(float64(len(s.store.ReadAll(ctx))))
	return FlushResult{Flushed: ok}
}

func (s *queueService) Pending(ctx context.Context) []models.OfflineAction {
	list := s.store.ReadAll(ctx)
	s.metrics.Depth.Set(float64(len(list)))
	return list
}

func (s *queueService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.metrics.Depth.Set(0)
	return nil
}
