package services

import (
	"github.com/shopspring/decimal"

	"github.com/ri4re/linebot/internal/domain"
)

// PaymentUpdate is the payment part of an update command.
type PaymentUpdate struct {
	PayInFull   bool
	Paid        domain.Optional[decimal.Decimal]
	ForceStatus domain.Optional[domain.PaymentStatus]
}

type Reconciliation struct {
	Paid   decimal.Decimal
	Status domain.PaymentStatus
}

// Reconcile computes the paid amount and payment status after an update. An explicit
// paid amount replaces the stored one; it is never added to it.
func Reconcile(amount, paid decimal.Decimal, u PaymentUpdate) Reconciliation {
	newPaid := paid
	switch {
	case u.PayInFull:
		newPaid = amount
	case u.Paid.Set:
		newPaid = u.Paid.Value
	}

	status := DerivePaymentStatus(amount, newPaid)
	if u.ForceStatus.Set {
		status = u.ForceStatus.Value
	}
	return Reconciliation{Paid: newPaid, Status: status}
}

// DerivePaymentStatus clamps overpayment to Paid. A zero amount is never Paid.
func DerivePaymentStatus(amount, paid decimal.Decimal) domain.PaymentStatus {
	switch {
	case amount.IsPositive() && paid.GreaterThanOrEqual(amount):
		return domain.PaymentPaid
	case paid.IsPositive() && paid.LessThan(amount):
		return domain.PaymentPartial
	default:
		return domain.PaymentUnpaid
	}
}

func paymentUpdateOf(u domain.OrderUpdate) PaymentUpdate {
	return PaymentUpdate{
		PayInFull:   u.PayInFull,
		Paid:        u.Patch.Paid,
		ForceStatus: u.ForceStatus,
	}
}
