package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ri4re/linebot/internal/domain"
)

func d(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		paid       int64
		update     PaymentUpdate
		wantPaid   int64
		wantStatus domain.PaymentStatus
	}{
		{"pay in full", 100, 0, PaymentUpdate{PayInFull: true}, 100, domain.PaymentPaid},
		{"partial unchanged", 100, 50, PaymentUpdate{}, 50, domain.PaymentPartial},
		{"unpaid unchanged", 100, 0, PaymentUpdate{}, 0, domain.PaymentUnpaid},
		{"zero amount is not paid", 0, 0, PaymentUpdate{}, 0, domain.PaymentUnpaid},
		{"explicit paid replaces", 300, 100, PaymentUpdate{Paid: domain.Some(d(300))}, 300, domain.PaymentPaid},
		{"explicit paid lowers", 300, 300, PaymentUpdate{Paid: domain.Some(d(20))}, 20, domain.PaymentPartial},
		{"explicit zero resets", 300, 300, PaymentUpdate{Paid: domain.Some(d(0))}, 0, domain.PaymentUnpaid},
		{"overpayment clamps to paid", 100, 0, PaymentUpdate{Paid: domain.Some(d(150))}, 150, domain.PaymentPaid},
		{"pay in full wins over explicit", 80, 0, PaymentUpdate{PayInFull: true, Paid: domain.Some(d(10))}, 80, domain.PaymentPaid},
		{
			"forced status",
			100, 0,
			PaymentUpdate{ForceStatus: domain.Some(domain.PaymentPaid)},
			0, domain.PaymentPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(d(tt.amount), d(tt.paid), tt.update)
			assert.True(t, d(tt.wantPaid).Equal(got.Paid), "paid = %s", got.Paid)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestReconcile_StatusAlwaysRecomputed(t *testing.T) {
	for _, amount := range []int64{0, 1, 100} {
		for _, paid := range []int64{0, 1, 50, 100, 200} {
			got := Reconcile(d(amount), d(paid), PaymentUpdate{})
			assert.True(t, d(paid).Equal(got.Paid))
			assert.Equal(t, DerivePaymentStatus(d(amount), d(paid)), got.Status)
		}
	}
}

func TestDerivePaymentStatus_Fractional(t *testing.T) {
	amount := decimal.RequireFromString("99.5")
	assert.Equal(t, domain.PaymentPartial, DerivePaymentStatus(amount, decimal.RequireFromString("99.4")))
	assert.Equal(t, domain.PaymentPaid, DerivePaymentStatus(amount, decimal.RequireFromString("99.5")))
}
