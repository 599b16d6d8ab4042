// Package actions persists the offline action queue as a single JSON array
// under one key of the durable metadata store.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
)

// Store is a FIFO of offline actions. It is safe for concurrent use within
// one process; across processes the metadata transaction serializes writers.
type Store struct {
	mu   sync.Mutex
	repo metadata.Repository
	key  string
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{
		repo: repo,
		key:  common.OfflineQueueKey,
		log:  log.With("module", "actions"),
	}
}

// decode never fails: a value that is not a JSON array yields an empty list
// and elements that do not decode into a well-formed action are skipped.
func decode(raw []byte) (list []models.OfflineAction, dropped int) {
	if len(raw) == 0 {
		return nil, 0
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, 1
	}

	list = make([]models.OfflineAction, 0, len(elems))
	for _, e := range elems {
		var a models.OfflineAction
		if err := json.Unmarshal(e, &a); err != nil || !a.Valid() {
			dropped++
			continue
		}
		list = append(list, a)
	}
	return list, dropped
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrStorageUnavailable, err)
}

// Append adds a to the tail of the queue.
func (s *Store) Append(ctx context.Context, a models.OfflineAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Update(ctx, s.key, func(current []byte) ([]byte, error) {
		list, dropped := decode(current)
		if dropped > 0 {
			s.log.Warn(ctx, "discarding malformed queue entries", "dropped", dropped)
		}
		list = append(list, a)
		return json.Marshal(list)
	})
	if err != nil {
		return storageErr("append action", err)
	}
	return nil
}

// ReadAll returns the well-formed queued actions in insertion order. Any
// storage or decoding failure yields an empty list.
func (s *Store) ReadAll(ctx context.Context) []models.OfflineAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.log.Error(ctx, "failed to read offline queue", "error", err)
		return []models.OfflineAction{}
	}

	list, dropped := decode(raw)
	if dropped > 0 {
		s.log.Warn(ctx, "skipping malformed queue entries", "dropped", dropped)
	}
	if list == nil {
		return []models.OfflineAction{}
	}
	return list
}

// Len is the number of well-formed queued actions.
func (s *Store) Len(ctx context.Context) int {
	return len(s.ReadAll(ctx))
}

// Clear removes the queue key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		return storageErr("clear queue", err)
	}
	return nil
}

// DropHead removes the first n well-formed actions. Actions appended after a
// snapshot of length n was taken are kept. When nothing is left the key is
// removed.
func (s *Store) DropHead(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Update(ctx, s.key, func(current []byte) ([]byte, error) {
		list, _ := decode(current)
		if n >= len(list) {
			return nil, nil
		}
		return json.Marshal(list[n:])
	})
	if err != nil {
		return storageErr("drop queue head", err)
	}
	return nil
}
