package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"tableside/internal/metrics"
	"tableside/internal/repository"
)

// EventPublisher is the slice of the RabbitMQ client the services need.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type Service struct {
	Tables TableRegistryServiceInterface
	Ledger OrderLedgerServiceInterface
	Closer SessionCloserServiceInterface
}

func New(repo *repository.Repository, pub EventPublisher, lg *log.Entry, m *metrics.Metrics) *Service {
	return &Service{
		Tables: NewTableRegistryService(repo.Tables),
		Ledger: NewOrderLedgerService(repo.Orders, repo.Tables, pub, lg, m),
		Closer: NewSessionCloserService(repo.Receipts, pub, lg, m),
	}
}
