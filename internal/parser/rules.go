package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ri4re/linebot/internal/domain"
)

var helpKeywords = map[string]bool{
	"help":     true,
	"format":   true,
	"commands": true,
	"格式":       true,
	"指令":       true,
	"說明":       true,
}

type helpRule struct{}

func (helpRule) Name() string { return "help" }

func (helpRule) Match(in Input) (Intent, bool) {
	if helpKeywords[strings.ToLower(in.Text)] {
		return Help{}, true
	}
	return nil, false
}

var queryKeywords = map[string]bool{
	"query": true,
	"查":     true,
}

// aggregateKeywords are whole-message queries that are not logistics labels.
var aggregateKeywords = map[string]Intent{
	"all":            Query{Kind: QueryAll},
	"query":          Query{Kind: QueryAll},
	"查詢":             Query{Kind: QueryAll},
	"unpaid":         Query{Kind: QueryPayment, Payment: domain.PaymentUnpaid},
	"未付款":            Query{Kind: QueryPayment, Payment: domain.PaymentUnpaid},
	"partial":        Query{Kind: QueryPayment, Payment: domain.PaymentPartial},
	"部分付款":           Query{Kind: QueryPayment, Payment: domain.PaymentPartial},
	"paid":           Query{Kind: QueryPayment, Payment: domain.PaymentPaid},
	"已付款":            Query{Kind: QueryPayment, Payment: domain.PaymentPaid},
	"ready-to-close": Query{Kind: QueryReadyToClose},
	"可結單":            Query{Kind: QueryReadyToClose},
	"status-totals":  StatusSummary{},
	"統計":             StatusSummary{},
}

type statusRule struct {
	labels []string
}

func (statusRule) Name() string { return "status" }

func (r statusRule) Match(in Input) (Intent, bool) {
	for _, label := range r.labels {
		if strings.EqualFold(in.Text, label) {
			return Query{Kind: QueryLogistics, Logistics: label}, true
		}
	}
	if intent, ok := aggregateKeywords[strings.ToLower(in.Text)]; ok {
		return intent, true
	}
	return nil, false
}

type keywordQueryRule struct{}

func (keywordQueryRule) Name() string { return "keyword_query" }

func (keywordQueryRule) Match(in Input) (Intent, bool) {
	if len(in.Tokens) < 2 || !queryKeywords[strings.ToLower(in.Tokens[0])] {
		return nil, false
	}
	keyword := join(in.Tokens[1:])
	if id := strings.TrimPrefix(fold(keyword), "#"); id != "" {
		if _, ok := parseInt(id); ok {
			return Query{Kind: QueryShortID, ShortID: id}, true
		}
	}
	return Query{Kind: QueryKeyword, Keyword: keyword}, true
}

type quickOrderRule struct {
	products map[string]string
	customer string
}

func (quickOrderRule) Name() string { return "quick_order" }

func (r quickOrderRule) Match(in Input) (Intent, bool) {
	if len(in.Tokens) < 2 {
		return nil, false
	}
	keyword := in.Tokens[0]
	product, ok := r.products[keyword]
	if !ok {
		product, ok = r.products[strings.ToLower(keyword)]
	}
	if !ok {
		return nil, false
	}

	var ints []int
	var memo []string
	for _, tok := range in.Tokens[1:] {
		if n, isInt := parseInt(tok); isInt && len(ints) < 2 {
			ints = append(ints, n)
			continue
		}
		memo = append(memo, tok)
	}

	qty, amount := 1, 0
	switch len(ints) {
	case 0:
		return nil, false
	case 1:
		amount = ints[0]
	default:
		qty, amount = ints[0], ints[1]
	}
	if qty <= 0 || amount <= 0 {
		return nil, false
	}

	return QuickOrder{
		Keyword: keyword,
		Order: domain.Order{
			Customer: r.customer,
			Product:  product,
			Quantity: qty,
			Amount:   decimal.NewFromInt(int64(amount)),
			Memo:     join(memo),
		},
	}, true
}

// newOrderRule reads "customer product... qty amount memo...". Product names may contain
// digits, so quantity and amount are the first two purely numeric tokens after the
// customer rather than fixed positions.
type newOrderRule struct{}

func (newOrderRule) Name() string { return "new_order" }

func (newOrderRule) Match(in Input) (Intent, bool) {
	toks := in.Tokens
	if len(toks) < 4 {
		return nil, false
	}

	qtyAt, amountAt := -1, -1
	var qty, amount int
	for i := 1; i < len(toks); i++ {
		n, ok := parseInt(toks[i])
		if !ok {
			continue
		}
		if qtyAt < 0 {
			qtyAt, qty = i, n
			continue
		}
		amountAt, amount = i, n
		break
	}
	if amountAt < 0 {
		return nil, false
	}

	product := join(toks[1:qtyAt])
	if product == "" || qty <= 0 || amount <= 0 {
		return nil, false
	}

	return NewOrder{Order: domain.Order{
		Customer: toks[0],
		Product:  product,
		Quantity: qty,
		Amount:   decimal.NewFromInt(int64(amount)),
		Memo:     join(toks[amountAt+1:]),
	}}, true
}
