package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrder_Owed(t *testing.T) {
	o := Order{Amount: decimal.NewFromInt(500), Paid: decimal.NewFromInt(200)}
	assert.Equal(t, "300", o.Owed().String())

	o.Paid = decimal.NewFromInt(800)
	assert.True(t, o.Owed().IsZero())
}

func TestOrder_DisplayID(t *testing.T) {
	assert.Equal(t, "#7", Order{ShortID: 7}.DisplayID())
	assert.Equal(t, "ORD-12", Order{ShortID: 12, ShortPrefix: "ORD"}.DisplayID())
}

func TestOrderPatch_Empty(t *testing.T) {
	assert.True(t, OrderPatch{}.Empty())
	assert.False(t, OrderPatch{Memo: Some("")}.Empty())
	assert.False(t, OrderPatch{IntlShipping: Some(false)}.Empty())
}

func TestPaymentStatus_Valid(t *testing.T) {
	assert.True(t, PaymentPartial.Valid())
	assert.False(t, PaymentStatus("paid").Valid())
}

func TestOptional(t *testing.T) {
	var unset Optional[string]
	_, ok := unset.Get()
	assert.False(t, ok)

	v, ok := Some("x").Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}
