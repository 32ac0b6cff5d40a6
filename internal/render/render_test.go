package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/repository"
)

func order(shortID int, customer string, status domain.PaymentStatus, amount, paid int64) domain.Order {
	return domain.Order{
		ID:            fmt.Sprintf("page-%d", shortID),
		ShortID:       shortID,
		Customer:      customer,
		Product:       "Shirt",
		Quantity:      1,
		Amount:        decimal.NewFromInt(amount),
		Paid:          decimal.NewFromInt(paid),
		PaymentStatus: status,
		Logistics:     "未處理",
	}
}

func TestRenderer_Card(t *testing.T) {
	r := New(domain.DefaultFieldMap())
	o := order(7, "Alice", domain.PaymentUnpaid, 500, 0)
	o.Quantity = 2
	o.Memo = "gift wrap"

	out := r.Card(&o)
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Shirt x2")
	assert.Contains(t, out, "500")
	assert.Contains(t, out, "尚欠 500")
	assert.Contains(t, out, string(domain.PaymentUnpaid))
	assert.Contains(t, out, "gift wrap")
}

func TestRenderer_DetailUsesFieldLabels(t *testing.T) {
	fields, err := domain.DefaultFieldMap().WithOverrides("customer=Buyer")
	require.NoError(t, err)
	r := New(fields)

	o := order(3, "Bob", domain.PaymentPartial, 300, 100)
	o.Style = "Red"
	o.IntlShipping = true

	out := r.Detail(&o)
	assert.Contains(t, out, "Buyer：Bob")
	assert.Contains(t, out, "款式：Red")
	assert.Contains(t, out, "含國際運：是")
	assert.Contains(t, out, "100（尚欠 200）")
}

func TestRenderer_ListCapsAtTen(t *testing.T) {
	r := New(domain.DefaultFieldMap())
	for _, n := range []int{0, 2, 10, 11, 37} {
		orders := make([]domain.Order, n)
		for i := range orders {
			orders[i] = order(i+1, "C", domain.PaymentUnpaid, 10, 0)
		}
		out := r.List(orders, "全部訂單")
		lines := strings.Split(out, "\n")

		assert.Contains(t, lines[0], fmt.Sprintf("共 %d 筆", n))
		entries := lines[1:]
		assert.LessOrEqual(t, len(entries), MaxListItems)
		if n <= MaxListItems {
			assert.Len(t, entries, n)
		}
	}
}

func TestRenderer_ListLine(t *testing.T) {
	r := New(domain.DefaultFieldMap())
	out := r.List([]domain.Order{order(4, "Alice", domain.PaymentPaid, 10, 10)}, "Alice")
	assert.Contains(t, out, "#4 Alice｜Shirt｜已付款/未處理")
}

func TestGroupByCustomer_WorstCaseWins(t *testing.T) {
	orders := []domain.Order{
		order(1, "Alice", domain.PaymentPaid, 100, 100),
		order(2, "Alice", domain.PaymentUnpaid, 100, 0),
		order(3, "Alice", domain.PaymentPartial, 100, 50),
		order(4, "Bob", domain.PaymentPaid, 100, 100),
		order(5, "Bob", domain.PaymentPartial, 100, 40),
		order(6, "Carol", domain.PaymentPaid, 100, 100),
		order(7, "Dan", domain.PaymentPaid, 100, 100),
		order(8, "Dan", domain.PaymentPaid, 100, 100),
	}

	groups := GroupByCustomer(orders)
	require.Len(t, groups, 4)

	assert.Equal(t, "Alice", groups[0].Customer)
	assert.Equal(t, 3, groups[0].Orders)
	assert.Equal(t, CategoryHasUnpaid, groups[0].Category)
	assert.Equal(t, "150", groups[0].Owed.String())

	assert.Equal(t, "Bob", groups[1].Customer)
	assert.Equal(t, CategoryPartialOnly, groups[1].Category)

	assert.Equal(t, "Dan", groups[2].Customer)
	assert.Equal(t, CategoryAllPaid, groups[2].Category)

	assert.Equal(t, "Carol", groups[3].Customer)
	assert.Equal(t, CategoryAllPaid, groups[3].Category)
}

func TestRenderer_Aggregate(t *testing.T) {
	r := New(domain.DefaultFieldMap())
	out := r.Aggregate([]domain.Order{
		order(1, "Alice", domain.PaymentUnpaid, 100, 0),
		order(2, "Bob", domain.PaymentPaid, 100, 100),
	}, "付款統計")

	assert.Contains(t, out, "2 位客人／2 筆訂單")
	assert.Contains(t, out, "有未付款（1）\nAlice 1 筆，尚欠 100")
	assert.Contains(t, out, "全部付清（1）\nBob 1 筆")
	assert.NotContains(t, out, "部分付款（")
}

func TestRenderer_Failure(t *testing.T) {
	r := New(domain.DefaultFieldMap())

	validation := &repository.StoreError{
		Op:         "update order",
		Validation: true,
		Field:      domain.FieldPaymentStatus,
		Message:    "Invalid select option",
	}
	assert.Equal(t, "❗ 欄位「付款狀態」寫入失敗：Invalid select option", r.Failure(validation))

	transport := &repository.StoreError{Op: "query orders", Message: "connection refused"}
	assert.Equal(t, "⚠️ store error: connection refused", r.Failure(fmt.Errorf("wrapped: %w", transport)))

	assert.Equal(t, "⚠️ store error: boom", r.Failure(errors.New("boom")))
}

func TestRenderer_NotFound(t *testing.T) {
	r := New(domain.DefaultFieldMap())
	assert.Equal(t, "找不到編號 7 的訂單", r.NotFound("7"))
	assert.Equal(t, "找不到：魚魚 / 相卡 的訂單", r.NotFoundFor("魚魚", "相卡"))
}
