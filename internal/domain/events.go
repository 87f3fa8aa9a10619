package domain

import "time"

// Messages published to RabbitMQ. Order events go to the orders_topic
// exchange with routing key kitchen.<table_no>.created; session closes fan
// out to notifications_fanout.

type OrderCreatedEvent struct {
	OrderID   int64       `json:"order_id"`
	TableNo   string      `json:"table_no"`
	SessionID int64       `json:"session_id"`
	Total     int64       `json:"total"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

type SessionClosedEvent struct {
	TableNo    string    `json:"table_no"`
	SessionID  int64     `json:"session_id"`
	TotalItems int       `json:"total_items"`
	TotalPrice int64     `json:"total_price"`
	ClosedAt   time.Time `json:"closed_at"`
}
