package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
)

// OnlineChecker reports current reachability of the API.
type OnlineChecker interface {
	Online(ctx context.Context) bool
}

// RecordResult is what the user sees after recording a transaction.
type RecordResult struct {
	Queued  bool
	Message string
}

// TransactionService records expenses and incomes: directly when the server
// is reachable, through the offline queue otherwise.
type TransactionService interface {
	Record(ctx context.Context, a models.OfflineAction) (RecordResult, error)
}

type transactionService struct {
	client client.Client
	queue  QueueService
	online OnlineChecker
	userID string
	now    func() time.Time
	log    logging.Logger
}

func NewTransactionService(c client.Client, q QueueService, online OnlineChecker, userID string, log logging.Logger) TransactionService {
	return &transactionService{
		client: c,
		queue:  q,
		online: online,
		userID: userID,
		now:    time.Now,
		log:    log.With("module", "transactions"),
	}
}

func label(k models.Kind) string {
	if k == models.KindIncome {
		return "income"
	}
	return "expense"
}

func capitalized(k models.Kind) string {
	if k == models.KindIncome {
		return "Income"
	}
	return "Expense"
}

// Record validates a, stamps the submission time when neither a date nor a
// recurrence is given, and sends or queues it.
func (s *transactionService) Record(ctx context.Context, a models.OfflineAction) (RecordResult, error) {
	if !a.Valid() {
		return RecordResult{}, fmt.Errorf("%w: type %q", common.ErrMalformedAction, a.Type)
	}

	p := *a.Payload
	if p.OccurredAt == nil && p.Recurrence == "" {
		now := s.now().UTC()
		p.OccurredAt = &now
	}
	a.Payload = &p

	if !s.online.Online(ctx) {
		if p.UserID == "" {
			p.UserID = s.userID
		}
		if err := s.queue.Enqueue(ctx, a); err != nil {
			return RecordResult{Message: fmt.Sprintf("Could not save %s", label(a.Type))}, err
		}
		return RecordResult{Queued: true, Message: fmt.Sprintf("Offline: %s queued", label(a.Type))}, nil
	}

	if err := s.client.Submit(ctx, a.Type, a.Payload); err != nil {
		s.log.Error(ctx, "failed to save transaction", "type", a.Type, "error", err)
		return RecordResult{Message: fmt.Sprintf("Could not save %s", label(a.Type))}, err
	}
	return RecordResult{Message: fmt.Sprintf("%s saved", capitalized(a.Type))}, nil
}
