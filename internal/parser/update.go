package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ri4re/linebot/internal/domain"
)

var updateKeywords = map[string]bool{
	"update": true,
	"更新":     true,
	"改":      true,
}

type arity int

const (
	arityNone arity = iota
	arityNumber
	arityOne
	arityRest
)

// updateField applies one keyword's value; it reports false when the value is unusable.
type updateField struct {
	arity arity
	apply func(u *domain.OrderUpdate, value string) bool
}

func numberField(set func(p *domain.OrderPatch, v domain.Optional[decimal.Decimal])) updateField {
	return updateField{arity: arityNumber, apply: func(u *domain.OrderUpdate, value string) bool {
		d, ok := parseNumber(value)
		if !ok {
			return false
		}
		set(&u.Patch, domain.Some(d))
		return true
	}}
}

func textField(a arity, set func(p *domain.OrderPatch, v string)) updateField {
	return updateField{arity: a, apply: func(u *domain.OrderUpdate, value string) bool {
		set(&u.Patch, value)
		return true
	}}
}

var (
	paidField = numberField(func(p *domain.OrderPatch, v domain.Optional[decimal.Decimal]) { p.Paid = v })
	fullField = updateField{arity: arityNone, apply: func(u *domain.OrderUpdate, _ string) bool {
		u.PayInFull = true
		return true
	}}
	payStatusField = updateField{arity: arityOne, apply: func(u *domain.OrderUpdate, value string) bool {
		s, ok := paymentStatusFor(value)
		if !ok {
			return false
		}
		u.ForceStatus = domain.Some(s)
		return true
	}}
	logisticsField = textField(arityOne, func(p *domain.OrderPatch, v string) { p.Logistics = domain.Some(v) })
	memoField      = textField(arityRest, func(p *domain.OrderPatch, v string) { p.Memo = domain.Some(v) })
	styleField     = textField(arityRest, func(p *domain.OrderPatch, v string) { p.Style = domain.Some(v) })
	costField      = numberField(func(p *domain.OrderPatch, v domain.Optional[decimal.Decimal]) { p.Cost = v })
	weightField    = numberField(func(p *domain.OrderPatch, v domain.Optional[decimal.Decimal]) { p.Weight = v })
	shippingField  = numberField(func(p *domain.OrderPatch, v domain.Optional[decimal.Decimal]) { p.ShippingFee = v })
	urlField       = textField(arityOne, func(p *domain.OrderPatch, v string) { p.URL = domain.Some(v) })
	memberField    = textField(arityOne, func(p *domain.OrderPatch, v string) { p.MemberID = domain.Some(v) })
	dateField      = updateField{arity: arityOne, apply: func(u *domain.OrderUpdate, value string) bool {
		d, ok := parseDate(value)
		if !ok {
			return false
		}
		u.Patch.ShipDate = domain.Some(d)
		return true
	}}
	intlField = updateField{arity: arityOne, apply: func(u *domain.OrderUpdate, value string) bool {
		b, ok := parseBool(value)
		if !ok {
			return false
		}
		u.Patch.IntlShipping = domain.Some(b)
		return true
	}}
)

var updateFields = map[string]updateField{
	"paid":      paidField,
	"已付":        paidField,
	"付":         paidField,
	"full":      fullField,
	"payfull":   fullField,
	"付清":        fullField,
	"paystatus": payStatusField,
	"付款狀態":      payStatusField,
	"status":    logisticsField,
	"物流":        logisticsField,
	"狀態":        logisticsField,
	"memo":      memoField,
	"備註":        memoField,
	"style":     styleField,
	"款式":        styleField,
	"cost":      costField,
	"成本":        costField,
	"weight":    weightField,
	"重量":        weightField,
	"ship":      shippingField,
	"shipping":  shippingField,
	"運費":        shippingField,
	"url":       urlField,
	"網址":        urlField,
	"連結":        urlField,
	"member":    memberField,
	"會員":        memberField,
	"date":      dateField,
	"shipdate":  dateField,
	"出貨日":       dateField,
	"intl":      intlField,
	"國際運":       intlField,
}

func paymentStatusFor(s string) (domain.PaymentStatus, bool) {
	switch strings.ToLower(s) {
	case "unpaid", string(domain.PaymentUnpaid):
		return domain.PaymentUnpaid, true
	case "partial", string(domain.PaymentPartial):
		return domain.PaymentPartial, true
	case "paid", string(domain.PaymentPaid):
		return domain.PaymentPaid, true
	}
	return "", false
}

// updateRule reads "update <short-id> <field> <value>...". Unknown keywords are skipped so
// newer clients can send fields this build does not know yet.
type updateRule struct{}

func (updateRule) Name() string { return "update" }

func (updateRule) Match(in Input) (Intent, bool) {
	toks := in.Tokens
	if len(toks) < 3 || !updateKeywords[strings.ToLower(toks[0])] {
		return nil, false
	}
	if digitsOnly(toks[1]) == "" {
		return nil, false
	}

	u := domain.OrderUpdate{ShortID: toks[1]}
	recognized := false
	for i := 2; i < len(toks); {
		f, ok := updateFields[strings.ToLower(toks[i])]
		if !ok {
			i++
			continue
		}
		switch f.arity {
		case arityNone:
			recognized = f.apply(&u, "") || recognized
			i++
		case arityNumber:
			if i+1 < len(toks) {
				if _, isNum := parseNumber(toks[i+1]); isNum {
					recognized = f.apply(&u, toks[i+1]) || recognized
					i += 2
					continue
				}
			}
			i++
		case arityOne:
			if i+1 < len(toks) {
				recognized = f.apply(&u, toks[i+1]) || recognized
				i += 2
				continue
			}
			i++
		case arityRest:
			recognized = f.apply(&u, join(toks[i+1:])) || recognized
			i = len(toks)
		}
	}
	if !recognized {
		return Unrecognized{Text: in.Text}, true
	}
	return UpdateOrder{Update: u}, true
}

var payKeywords = map[string]bool{
	"付款":  true,
	"pay": true,
}

// payRule reads "付款 <customer> <product> <payment status>". A short command is answered
// with the usage hint; an unknown status falls through so the text can still be an order.
type payRule struct{}

func (payRule) Name() string { return "pay" }

func (payRule) Match(in Input) (Intent, bool) {
	toks := in.Tokens
	if len(toks) == 0 || !payKeywords[strings.ToLower(toks[0])] {
		return nil, false
	}
	if len(toks) < 4 {
		return Unrecognized{Text: in.Text}, true
	}
	status, ok := paymentStatusFor(join(toks[3:]))
	if !ok {
		return nil, false
	}
	return PayByCustomer{Customer: toks[1], Product: toks[2], Status: status}, true
}
