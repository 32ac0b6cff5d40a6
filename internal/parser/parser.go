// Package parser turns operator chat text into order intents.
//
// Grammar rules are evaluated in a fixed order and the first rule that matches wins.
// Parsing never fails: text no rule accepts yields Unrecognized.
package parser

import (
	"strings"

	"github.com/ri4re/linebot/internal/domain"
)

type Intent interface {
	Name() string
}

type Help struct{}

// NewOrder is the free-form "customer product qty amount memo" grammar.
type NewOrder struct {
	Order domain.Order
}

// QuickOrder is a canned-product shortcut with a fixed customer.
type QuickOrder struct {
	Keyword string
	Order   domain.Order
}

type UpdateOrder struct {
	Update domain.OrderUpdate
}

// PayByCustomer sets the payment status of the newest order whose customer matches
// exactly and whose product contains Product.
type PayByCustomer struct {
	Customer string
	Product  string
	Status   domain.PaymentStatus
}

type QueryKind int

const (
	QueryAll QueryKind = iota
	QueryPayment
	QueryLogistics
	QueryReadyToClose
	QueryKeyword
	QueryShortID
)

type Query struct {
	Kind      QueryKind
	Payment   domain.PaymentStatus
	Logistics string
	Keyword   string
	ShortID   string
}

// StatusSummary asks for the per-customer payment aggregate.
type StatusSummary struct{}

type Unrecognized struct {
	Text string
}

func (Help) Name() string          { return "help" }
func (NewOrder) Name() string      { return "new_order" }
func (QuickOrder) Name() string    { return "quick_order" }
func (UpdateOrder) Name() string   { return "update_order" }
func (PayByCustomer) Name() string { return "pay_by_customer" }
func (Query) Name() string         { return "query" }
func (StatusSummary) Name() string { return "status_summary" }
func (Unrecognized) Name() string  { return "unrecognized" }

// Input is the pre-split form every rule matches against.
type Input struct {
	Text   string
	Tokens []string
}

func NewInput(text string) Input {
	text = strings.TrimSpace(text)
	return Input{Text: text, Tokens: strings.Fields(text)}
}

// Rule is one grammar production.
type Rule interface {
	Name() string
	Match(in Input) (Intent, bool)
}

type Options struct {
	// LogisticsStatuses are the operator-defined logistics labels that double as queries.
	LogisticsStatuses []string
	// QuickProducts maps a shortcut keyword to the product name it creates.
	QuickProducts map[string]string
	// QuickCustomer is the customer recorded on quick orders.
	QuickCustomer string
}

func DefaultOptions() Options {
	return Options{
		LogisticsStatuses: []string{"未處理", "處理中", "已到貨", "已出貨", "結單"},
		QuickProducts: map[string]string{
			"代購": "代購商品",
			"集運": "集運費",
		},
		QuickCustomer: "店長",
	}
}

type Parser struct {
	rules []Rule
}

func New(opts Options) *Parser {
	return &Parser{rules: []Rule{
		helpRule{},
		updateRule{},
		payRule{},
		statusRule{labels: opts.LogisticsStatuses},
		keywordQueryRule{},
		quickOrderRule{products: opts.QuickProducts, customer: opts.QuickCustomer},
		newOrderRule{},
	}}
}

// Rules returns the grammar in evaluation order.
func (p *Parser) Rules() []Rule {
	return p.rules
}

func (p *Parser) Parse(text string) Intent {
	in := NewInput(text)
	if in.Text == "" {
		return Unrecognized{}
	}
	for _, r := range p.rules {
		if intent, ok := r.Match(in); ok {
			return intent
		}
	}
	return Unrecognized{Text: in.Text}
}
