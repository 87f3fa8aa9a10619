package notifier

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"tableside/internal/connections/rabbitmq"
	"tableside/internal/domain"
)

// Notifier tails the order and receipt queues and renders them as structured
// log lines: the kitchen display / receipt printer feed.
type Notifier struct {
	rmq *rabbitmq.Client
	lg  *log.Entry
}

func New(rmq *rabbitmq.Client, lg *log.Entry) *Notifier {
	return &Notifier{rmq: rmq, lg: lg}
}

func (n *Notifier) Run(ctx context.Context) error {
	orders, err := n.rmq.Consume(rabbitmq.KitchenQueue, "tableside-notifier-kitchen", 1)
	if err != nil {
		return err
	}
	receipts, err := n.rmq.Consume(rabbitmq.NotificationsQueue, "tableside-notifier-receipts", 1)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-orders:
			if !ok {
				return nil
			}
			n.handleOrder(d)
		case d, ok := <-receipts:
			if !ok {
				return nil
			}
			n.handleReceipt(d)
		}
	}
}

func (n *Notifier) handleOrder(d amqp.Delivery) {
	var ev domain.OrderCreatedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		n.lg.WithField("action", "bad_order_event").WithError(err).Warn("dropping message")
		_ = d.Nack(false, false)
		return
	}
	n.lg.WithFields(log.Fields{
		"action": "kitchen_ticket", "order_id": ev.OrderID,
		"table_no": ev.TableNo, "items": len(ev.Items), "total": ev.Total,
	}).Info("new order for the kitchen")
	_ = d.Ack(false)
}

func (n *Notifier) handleReceipt(d amqp.Delivery) {
	var ev domain.SessionClosedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		n.lg.WithField("action", "bad_receipt_event").WithError(err).Warn("dropping message")
		_ = d.Nack(false, false)
		return
	}
	n.lg.WithFields(log.Fields{
		"action": "receipt_printed", "table_no": ev.TableNo,
		"session_id": ev.SessionID, "total_items": ev.TotalItems,
		"total_price": ev.TotalPrice,
	}).Info("session closed")
	_ = d.Ack(false)
}
