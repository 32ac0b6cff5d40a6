// Package render formats orders into chat replies. Nothing here does I/O.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/repository"
)

// MaxListItems is the number of orders shown in any list reply.
const MaxListItems = 10

type Renderer struct {
	fields domain.FieldMap
}

func New(fields domain.FieldMap) *Renderer {
	return &Renderer{fields: fields}
}

func (r *Renderer) label(f domain.Field) string {
	if p := r.fields.Property(f); p != "" {
		return p
	}
	return string(f)
}

func money(v decimal.Decimal) string {
	return v.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Card is the short confirmation for a just-created order.
func (r *Renderer) Card(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✔ 已新增訂單 %s\n", o.DisplayID())
	fmt.Fprintf(&b, "%s：%s\n", r.label(domain.FieldCustomer), o.Customer)
	fmt.Fprintf(&b, "%s：%s x%d\n", r.label(domain.FieldProduct), o.Product, o.Quantity)
	fmt.Fprintf(&b, "%s：%s\n", r.label(domain.FieldAmount), money(o.Amount))
	fmt.Fprintf(&b, "%s：%s（尚欠 %s）\n", r.label(domain.FieldPaid), money(o.Paid), money(o.Owed()))
	fmt.Fprintf(&b, "%s：%s／%s：%s", r.label(domain.FieldPaymentStatus), o.PaymentStatus,
		r.label(domain.FieldLogistics), orDash(o.Logistics))
	if o.Memo != "" {
		fmt.Fprintf(&b, "\n%s：%s", r.label(domain.FieldMemo), o.Memo)
	}
	return b.String()
}

// Detail lists every attribute of the order.
func (r *Renderer) Detail(o *domain.Order) string {
	return fmt.Sprintf("📦 訂單 %s\n%s", o.DisplayID(), r.detailBody(o))
}

// Updated confirms an update and echoes the stored result.
func (r *Renderer) Updated(o *domain.Order) string {
	return fmt.Sprintf("✔ 已更新訂單 %s\n%s", o.DisplayID(), r.detailBody(o))
}

func (r *Renderer) detailBody(o *domain.Order) string {
	intl := "否"
	if o.IntlShipping {
		intl = "是"
	}
	lines := []struct {
		field domain.Field
		value string
	}{
		{domain.FieldCustomer, o.Customer},
		{domain.FieldProduct, o.Product},
		{domain.FieldQuantity, fmt.Sprint(o.Quantity)},
		{domain.FieldAmount, money(o.Amount)},
		{domain.FieldPaid, fmt.Sprintf("%s（尚欠 %s）", money(o.Paid), money(o.Owed()))},
		{domain.FieldPaymentStatus, orDash(string(o.PaymentStatus))},
		{domain.FieldLogistics, orDash(o.Logistics)},
		{domain.FieldStyle, orDash(o.Style)},
		{domain.FieldCost, money(o.Cost)},
		{domain.FieldWeight, money(o.Weight)},
		{domain.FieldShippingFee, money(o.ShippingFee)},
		{domain.FieldIntlShipping, intl},
		{domain.FieldShipDate, orDash(o.ShipDate)},
		{domain.FieldMemberID, orDash(o.MemberID)},
		{domain.FieldURL, orDash(o.URL)},
		{domain.FieldMemo, orDash(o.Memo)},
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, fmt.Sprintf("%s：%s", r.label(l.field), l.value))
	}
	return strings.Join(out, "\n")
}

// List shows at most MaxListItems orders but always reports the true total.
func (r *Renderer) List(orders []domain.Order, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 %s：共 %d 筆", title, len(orders))
	if len(orders) > MaxListItems {
		fmt.Fprintf(&b, "（顯示最新 %d 筆）", MaxListItems)
	}
	for i, o := range orders {
		if i == MaxListItems {
			break
		}
		fmt.Fprintf(&b, "\n%s %s｜%s｜%s/%s", o.DisplayID(), o.Customer, o.Product,
			orDash(string(o.PaymentStatus)), orDash(o.Logistics))
	}
	return b.String()
}

type CustomerCategory string

const (
	CategoryHasUnpaid   CustomerCategory = "has_unpaid"
	CategoryPartialOnly CustomerCategory = "partial_only"
	CategoryAllPaid     CustomerCategory = "all_paid"
)

// CustomerGroup is one customer's orders in an aggregate.
type CustomerGroup struct {
	Customer string
	Orders   int
	Owed     decimal.Decimal
	Category CustomerCategory
}

// GroupByCustomer classifies each customer by its worst payment status: any unpaid
// order puts the customer in CategoryHasUnpaid, otherwise any partial order in
// CategoryPartialOnly. Groups are sorted by order count, then name.
func GroupByCustomer(orders []domain.Order) []CustomerGroup {
	index := make(map[string]*CustomerGroup)
	var groups []*CustomerGroup
	for _, o := range orders {
		g, ok := index[o.Customer]
		if !ok {
			g = &CustomerGroup{Customer: o.Customer, Category: CategoryAllPaid}
			index[o.Customer] = g
			groups = append(groups, g)
		}
		g.Orders++
		g.Owed = g.Owed.Add(o.Owed())
		switch o.PaymentStatus {
		case domain.PaymentPaid:
		case domain.PaymentPartial:
			if g.Category == CategoryAllPaid {
				g.Category = CategoryPartialOnly
			}
		default:
			g.Category = CategoryHasUnpaid
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Orders != groups[j].Orders {
			return groups[i].Orders > groups[j].Orders
		}
		return groups[i].Customer < groups[j].Customer
	})

	out := make([]CustomerGroup, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}

var categoryTitles = []struct {
	category CustomerCategory
	title    string
}{
	{CategoryHasUnpaid, "❗ 有未付款"},
	{CategoryPartialOnly, "🟡 部分付款"},
	{CategoryAllPaid, "✅ 全部付清"},
}

// Aggregate renders the per-customer payment summary.
func (r *Renderer) Aggregate(orders []domain.Order, title string) string {
	groups := GroupByCustomer(orders)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s（%d 位客人／%d 筆訂單）", title, len(groups), len(orders))
	for _, c := range categoryTitles {
		var lines []string
		for _, g := range groups {
			if g.Category != c.category {
				continue
			}
			line := fmt.Sprintf("%s %d 筆", g.Customer, g.Orders)
			if g.Owed.IsPositive() {
				line += fmt.Sprintf("，尚欠 %s", money(g.Owed))
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s（%d）\n%s", c.title, len(lines), strings.Join(lines, "\n"))
	}
	return b.String()
}

func (r *Renderer) Help() string {
	return strings.Join([]string{
		"📌 使用格式",
		"新增：客人 商品 數量 金額 備註",
		"　例：魚魚 相卡 2 350 宅配",
		"快速：代購 金額 備註／代購 數量 金額 備註",
		"更新：update 編號 欄位 值…",
		"　欄位：paid 金額｜full｜memo 文字｜status 物流｜cost｜weight｜ship｜url｜style｜member｜date｜intl",
		"　例：update 7 paid 300",
		"付款：付款 客人 商品 付款狀態",
		"　例：付款 魚魚 相卡 已付款",
		"查詢：query 關鍵字／query 編號",
		"狀態：unpaid｜partial｜paid｜可結單｜統計｜物流狀態名稱",
	}, "\n")
}

func (r *Renderer) Unrecognized() string {
	return "❓ 看不懂這個指令，輸入「help」或「格式」查看範例"
}

func (r *Renderer) NotFound(shortID string) string {
	return fmt.Sprintf("找不到編號 %s 的訂單", shortID)
}

// NotFoundFor answers a customer and product lookup that matched nothing.
func (r *Renderer) NotFoundFor(customer, product string) string {
	return fmt.Sprintf("找不到：%s / %s 的訂單", customer, product)
}

// Failure turns an execution error into a reply. Store validation errors name the
// offending column when it could be identified.
func (r *Renderer) Failure(err error) string {
	var se *repository.StoreError
	if errors.As(err, &se) {
		if se.Validation && se.Field != "" {
			return fmt.Sprintf("❗ 欄位「%s」寫入失敗：%s", r.label(se.Field), se.Message)
		}
		return fmt.Sprintf("⚠️ store error: %s", se.Message)
	}
	return fmt.Sprintf("⚠️ store error: %s", err.Error())
}
