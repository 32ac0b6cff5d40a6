package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a logical order field, independent of how the store names its property.
type Field string

const (
	FieldCustomer      Field = "customer"
	FieldProduct       Field = "product"
	FieldQuantity      Field = "quantity"
	FieldAmount        Field = "amount"
	FieldPaid          Field = "paid"
	FieldPaymentStatus Field = "payment_status"
	FieldLogistics     Field = "logistics"
	FieldMemo          Field = "memo"
	FieldStyle         Field = "style"
	FieldCost          Field = "cost"
	FieldWeight        Field = "weight"
	FieldShippingFee   Field = "shipping_fee"
	FieldURL           Field = "url"
	FieldShipDate      Field = "ship_date"
	FieldMemberID      Field = "member_id"
	FieldShortID       Field = "short_id"
	FieldIntlShipping  Field = "intl_shipping"
)

// FieldKind is the store property type backing a field.
type FieldKind string

const (
	KindText     FieldKind = "rich_text"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindURL      FieldKind = "url"
	KindDate     FieldKind = "date"
	KindUniqueID FieldKind = "unique_id"
	KindCheckbox FieldKind = "checkbox"
)

var fieldKinds = map[Field]FieldKind{
	FieldCustomer:      KindText,
	FieldProduct:       KindText,
	FieldQuantity:      KindNumber,
	FieldAmount:        KindNumber,
	FieldPaid:          KindNumber,
	FieldPaymentStatus: KindSelect,
	FieldLogistics:     KindSelect,
	FieldMemo:          KindText,
	FieldStyle:         KindText,
	FieldCost:          KindNumber,
	FieldWeight:        KindNumber,
	FieldShippingFee:   KindNumber,
	FieldURL:           KindURL,
	FieldShipDate:      KindDate,
	FieldMemberID:      KindText,
	FieldShortID:       KindUniqueID,
	FieldIntlShipping:  KindCheckbox,
}

// Kind returns the property type of f.
func (f Field) Kind() FieldKind {
	return fieldKinds[f]
}

// FieldMap maps logical fields to store property names.
type FieldMap map[Field]string

func DefaultFieldMap() FieldMap {
	return FieldMap{
		FieldCustomer:      "客人名稱",
		FieldProduct:       "商品名稱",
		FieldQuantity:      "數量",
		FieldAmount:        "金額",
		FieldPaid:          "已付金額",
		FieldPaymentStatus: "付款狀態",
		FieldLogistics:     "物流狀態",
		FieldMemo:          "備註",
		FieldStyle:         "款式",
		FieldCost:          "成本",
		FieldWeight:        "重量",
		FieldShippingFee:   "運費",
		FieldURL:           "網址",
		FieldShipDate:      "出貨日",
		FieldMemberID:      "會員編號",
		FieldShortID:       "編號",
		FieldIntlShipping:  "含國際運",
	}
}

// Property returns the store property name for f.
func (m FieldMap) Property(f Field) string {
	return m[f]
}

// FieldFor reverse-maps a property name.
func (m FieldMap) FieldFor(property string) (Field, bool) {
	for f, p := range m {
		if p == property {
			return f, true
		}
	}
	return "", false
}

// Mentioned returns the first field whose property name appears in msg. Longer property
// names are tried first so "已付金額" wins over "金額".
func (m FieldMap) Mentioned(msg string) (Field, bool) {
	names := make([]string, 0, len(m))
	for _, p := range m {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, p := range names {
		if p != "" && strings.Contains(msg, p) {
			return m.FieldFor(p)
		}
	}
	return "", false
}

// WithOverrides returns a copy of m with "field=Property" pairs applied. The input is a
// comma separated list, e.g. "customer=客人,amount=總額".
func (m FieldMap) WithOverrides(raw string) (FieldMap, error) {
	out := make(FieldMap, len(m))
	for f, p := range m {
		out[f] = p
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("field override %q: want field=property", pair)
		}
		f := Field(strings.TrimSpace(key))
		if _, known := fieldKinds[f]; !known {
			return nil, fmt.Errorf("field override %q: unknown field %q", pair, f)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("field override %q: empty property name", pair)
		}
		out[f] = value
	}
	return out, nil
}
