package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ri4re/linebot/internal/domain"
)

func CreateMockOrder(id string, shortID int, customer, product string, amount, paid int64, status domain.PaymentStatus) *domain.Order {
	return &domain.Order{
		ID:            id,
		ShortID:       shortID,
		Customer:      customer,
		Product:       product,
		Quantity:      1,
		Amount:        decimal.NewFromInt(amount),
		Paid:          decimal.NewFromInt(paid),
		PaymentStatus: status,
		Logistics:     TestInitialLogistics,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

const (
	TestOrderID          = "page-7"
	TestShortID          = 7
	TestCustomer         = "Alice"
	TestProduct          = "Shirt"
	TestInitialLogistics = "未處理"
	TestArrived          = "已到貨"
	TestClosed           = "結單"
)

var TestLabels = LogisticsLabels{Arrived: TestArrived, Closed: TestClosed}
