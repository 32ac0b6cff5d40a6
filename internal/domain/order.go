package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

// Values must match the option names configured on the store's select property.
const (
	PaymentUnpaid  PaymentStatus = "未付款"
	PaymentPartial PaymentStatus = "部分付款"
	PaymentPaid    PaymentStatus = "已付款"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

type Order struct {
	ID            string
	ShortID       int
	ShortPrefix   string
	Customer      string
	Product       string
	Quantity      int
	Amount        decimal.Decimal
	Paid          decimal.Decimal
	PaymentStatus PaymentStatus
	Logistics     string
	Memo          string
	Style         string
	Cost          decimal.Decimal
	Weight        decimal.Decimal
	ShippingFee   decimal.Decimal
	URL           string
	ShipDate      string
	MemberID      string
	IntlShipping  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Owed is never negative; overpayment reads as nothing owed.
func (o Order) Owed() decimal.Decimal {
	owed := o.Amount.Sub(o.Paid)
	if owed.IsNegative() {
		return decimal.Zero
	}
	return owed
}

// DisplayID renders the short id the way operators type it.
func (o Order) DisplayID() string {
	if o.ShortPrefix != "" {
		return o.ShortPrefix + "-" + itoa(o.ShortID)
	}
	return "#" + itoa(o.ShortID)
}

// OrderPatch is a partial update. Fields left unset are not written to the store; a set
// field holding the zero value clears the stored property.
type OrderPatch struct {
	Paid          Optional[decimal.Decimal]
	PaymentStatus Optional[PaymentStatus]
	Logistics     Optional[string]
	Memo          Optional[string]
	Style         Optional[string]
	Cost          Optional[decimal.Decimal]
	Weight        Optional[decimal.Decimal]
	ShippingFee   Optional[decimal.Decimal]
	URL           Optional[string]
	ShipDate      Optional[string]
	MemberID      Optional[string]
	IntlShipping  Optional[bool]
}

// Empty reports whether the patch would write nothing.
func (p OrderPatch) Empty() bool {
	return !p.Paid.Set && !p.PaymentStatus.Set && !p.Logistics.Set && !p.Memo.Set &&
		!p.Style.Set && !p.Cost.Set && !p.Weight.Set && !p.ShippingFee.Set &&
		!p.URL.Set && !p.ShipDate.Set && !p.MemberID.Set && !p.IntlShipping.Set
}

// OrderUpdate is what an update command asks for before reconciliation.
type OrderUpdate struct {
	ShortID     string
	PayInFull   bool
	ForceStatus Optional[PaymentStatus]
	Patch       OrderPatch
}
