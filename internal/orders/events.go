package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderDeleted       = "OrderDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

type LinePayload struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	PriceAtTime int    `json:"price_at_time"`
}

type OrderCreatedPayload struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	TotalAmount   int           `json:"total_amount"`
	PaymentMethod string        `json:"payment_method"`
	Items         []LinePayload `json:"items"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type OrderDeletedPayload struct {
	OrderID string `json:"order_id"`
}
