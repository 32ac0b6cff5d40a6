package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

type OrderEvent struct {
	OrderID       string          `json:"orderId"`
	ShortID       int             `json:"shortId"`
	Customer      string          `json:"customer"`
	Product       string          `json:"product"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          decimal.Decimal `json:"paid"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Logistics     string          `json:"logistics"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewOrderEvent(o *Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:       o.ID,
		ShortID:       o.ShortID,
		Customer:      o.Customer,
		Product:       o.Product,
		Amount:        o.Amount,
		Paid:          o.Paid,
		PaymentStatus: o.PaymentStatus,
		Logistics:     o.Logistics,
		OccurredAt:    at,
	}
}
