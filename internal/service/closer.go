package service

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"tableside/internal/connections/rabbitmq"
	"tableside/internal/domain"
	"tableside/internal/metrics"
	"tableside/internal/repository"
)

type SessionCloserServiceInterface interface {
	CloseSession(ctx context.Context, tableNo string) (domain.Receipt, error)
}

type SessionCloserService struct {
	receipts repository.ReceiptsRepositoryInterface
	pub      EventPublisher
	lg       *log.Entry
	m        *metrics.Metrics
}

func NewSessionCloserService(
	receipts repository.ReceiptsRepositoryInterface,
	pub EventPublisher,
	lg *log.Entry,
	m *metrics.Metrics,
) SessionCloserServiceInterface {
	return &SessionCloserService{receipts: receipts, pub: pub, lg: lg, m: m}
}

// CloseSession turns the table's current session into a durable receipt. The
// snapshot, the orders' terminal status, and the table rollover commit as one
// unit inside the repository. Closing a table with nothing ordered is a valid
// staff action and yields an empty receipt.
func (s *SessionCloserService) CloseSession(ctx context.Context, tableNo string) (domain.Receipt, error) {
	rcpt, err := s.receipts.CloseSessionTx(ctx, tableNo)
	if err != nil {
		return domain.Receipt{}, err
	}

	s.m.SessionsClosed.Inc()
	s.m.ReceiptTotal.Observe(float64(rcpt.TotalPrice))
	s.lg.WithFields(log.Fields{
		"action": "session_closed", "table_no": tableNo,
		"session_id": rcpt.SessionID, "total_items": rcpt.TotalItems,
		"total_price": rcpt.TotalPrice,
	}).Info("session closed")

	if s.pub != nil {
		body, err := json.Marshal(domain.SessionClosedEvent{
			TableNo:    rcpt.TableNo,
			SessionID:  rcpt.SessionID,
			TotalItems: rcpt.TotalItems,
			TotalPrice: rcpt.TotalPrice,
			ClosedAt:   time.Now().UTC(),
		})
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, publishTTL)
			defer cancel()
			if err := s.pub.Publish(pctx, rabbitmq.NotificationsExchange, "", body); err != nil {
				s.lg.WithFields(log.Fields{"action": "publish_failed", "table_no": tableNo}).
					WithError(err).Warn("receipt event not published")
			}
		}
	}

	return rcpt, nil
}
