package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"tableside/internal/connections/rabbitmq"
	"tableside/internal/domain"
	"tableside/internal/metrics"
	"tableside/internal/repository"
)

const publishTTL = 5 * time.Second

type OrderLedgerServiceInterface interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (domain.Order, []domain.OrderItem, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	History(ctx context.Context, tableNo string, sessionID *int64) ([]domain.Order, error)
	TableItems(ctx context.Context, tableNo string) (domain.TableItems, error)
	UpdateItemQty(ctx context.Context, itemID int64, qty int) (domain.QtyUpdate, error)
	DeleteItem(ctx context.Context, itemID int64) (domain.ItemDeletion, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

type OrderLedgerService struct {
	orders repository.OrdersRepositoryInterface
	tables repository.TablesRepositoryInterface
	pub    EventPublisher
	lg     *log.Entry
	m      *metrics.Metrics
}

func NewOrderLedgerService(
	orders repository.OrdersRepositoryInterface,
	tables repository.TablesRepositoryInterface,
	pub EventPublisher,
	lg *log.Entry,
	m *metrics.Metrics,
) OrderLedgerServiceInterface {
	return &OrderLedgerService{orders: orders, tables: tables, pub: pub, lg: lg, m: m}
}

// CreateOrder validates the checkout payload, resolves line subtotals and the
// order total, and hands the whole set to one repository transaction. The
// order total is the caller-declared value when present, otherwise the sum of
// line subtotals.
func (s *OrderLedgerService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	var sum int64
	for _, in := range req.Items {
		sub := in.LineSubtotal()
		sum += sub
		juice := ""
		if in.Juice != nil {
			juice = in.Juice.Name
		}
		addons := in.Addons
		if addons == nil {
			addons = []domain.Addon{}
		}
		items = append(items, domain.OrderItem{
			Name:     in.Name,
			Price:    in.Price,
			Qty:      in.Qty,
			Subtotal: sub,
			Size:     in.Size,
			Spice:    in.Spice,
			Juice:    juice,
			Addons:   addons,
		})
	}

	total := sum
	if req.Total != nil {
		total = *req.Total
	}

	orderID, sessionID, err := s.orders.CreateOrderTx(ctx, req.TableNo, total, items)
	if err != nil {
		return 0, err
	}
	s.m.OrdersCreated.Inc()
	s.lg.WithFields(log.Fields{
		"action": "order_created", "order_id": orderID,
		"table_no": req.TableNo, "session_id": sessionID, "total": total,
	}).Info("order created")

	s.publishCreated(ctx, orderID, req.TableNo, sessionID, total, items)
	return orderID, nil
}

// publishCreated notifies the kitchen feed. Best effort: a broker outage must
// not fail a committed order.
func (s *OrderLedgerService) publishCreated(ctx context.Context, orderID int64, tableNo string, sessionID, total int64, items []domain.OrderItem) {
	if s.pub == nil {
		return
	}
	body, err := json.Marshal(domain.OrderCreatedEvent{
		OrderID:   orderID,
		TableNo:   tableNo,
		SessionID: sessionID,
		Total:     total,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTTL)
	defer cancel()
	key := fmt.Sprintf("kitchen.%s.created", tableNo)
	if err := s.pub.Publish(pctx, rabbitmq.OrdersExchange, key, body); err != nil {
		s.lg.WithFields(log.Fields{"action": "publish_failed", "order_id": orderID}).
			WithError(err).Warn("order event not published")
	}
}

// GetOrder is a self-healing read: a non-positive stored total whose items
// still sum positive is stale, and the read corrects it in place before
// answering.
func (s *OrderLedgerService) GetOrder(ctx context.Context, orderID int64) (domain.Order, []domain.OrderItem, error) {
	o, items, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if calc := domain.SumSubtotals(items); o.Total <= 0 && calc > 0 {
		if err := s.orders.UpdateOrderTotal(ctx, orderID, calc); err != nil {
			return domain.Order{}, nil, err
		}
		s.lg.WithFields(log.Fields{
			"action": "total_reconciled", "order_id": orderID, "total": calc,
		}).Info("stale order total corrected on read")
		o.Total = calc
	}
	return o, items, nil
}

func (s *OrderLedgerService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

// History returns a table's orders newest first. Without an explicit session
// it uses the table's live session from the registry; unknown tables are
// NotFound either way.
func (s *OrderLedgerService) History(ctx context.Context, tableNo string, sessionID *int64) ([]domain.Order, error) {
	if sessionID == nil {
		t, err := s.tables.GetStatus(ctx, tableNo)
		if err != nil {
			return nil, err
		}
		return s.orders.ListHistory(ctx, tableNo, t.SessionID)
	}
	if *sessionID < 1 {
		return nil, fmt.Errorf("%w: session must be >= 1", domain.ErrInvalidInput)
	}
	return s.orders.ListHistory(ctx, tableNo, *sessionID)
}

func (s *OrderLedgerService) TableItems(ctx context.Context, tableNo string) (domain.TableItems, error) {
	return s.orders.TableItems(ctx, tableNo)
}

func (s *OrderLedgerService) UpdateItemQty(ctx context.Context, itemID int64, qty int) (domain.QtyUpdate, error) {
	if qty < 1 {
		return domain.QtyUpdate{}, fmt.Errorf("%w: qty must be >= 1", domain.ErrInvalidInput)
	}
	upd, err := s.orders.UpdateItemQtyTx(ctx, itemID, qty)
	if err != nil {
		return domain.QtyUpdate{}, err
	}
	s.m.ItemsEdited.Inc()
	return upd, nil
}

func (s *OrderLedgerService) DeleteItem(ctx context.Context, itemID int64) (domain.ItemDeletion, error) {
	del, err := s.orders.DeleteItemTx(ctx, itemID)
	if err != nil {
		return domain.ItemDeletion{}, err
	}
	s.m.ItemsDeleted.Inc()
	if del.OrderDeleted {
		s.lg.WithFields(log.Fields{"action": "order_deleted", "item_id": itemID}).
			Info("last item removed, order deleted")
	}
	return del, nil
}

func (s *OrderLedgerService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
