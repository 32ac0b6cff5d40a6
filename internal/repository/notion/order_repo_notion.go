package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/ri4re/linebot/internal/domain"
	notionapi "github.com/ri4re/linebot/internal/infra/notion"
	"github.com/ri4re/linebot/internal/repository"
)

const queryPageSize = 100

type orderRepo struct {
	client           *notionapi.Client
	databaseID       string
	fields           domain.FieldMap
	initialLogistics string
	logger           *zap.Logger
}

func NewOrderRepository(client *notionapi.Client, databaseID string, fields domain.FieldMap, initialLogistics string, logger *zap.Logger) repository.OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orderRepo{
		client:           client,
		databaseID:       databaseID,
		fields:           fields,
		initialLogistics: initialLogistics,
		logger:           logger,
	}
}

// Create writes every mapped property. Payment and logistics state always start from
// Unpaid, zero paid and the initial logistics label, whatever the input carries.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	p := r.fields.Property
	props := notionapi.Properties{
		p(domain.FieldCustomer):      notionapi.TextValue(order.Customer),
		p(domain.FieldProduct):       notionapi.TextValue(order.Product),
		p(domain.FieldQuantity):      intValue(order.Quantity),
		p(domain.FieldAmount):        decimalValue(order.Amount),
		p(domain.FieldPaid):          decimalValue(decimal.Zero),
		p(domain.FieldPaymentStatus): notionapi.SelectValue(string(domain.PaymentUnpaid)),
		p(domain.FieldLogistics):     notionapi.SelectValue(r.initialLogistics),
		p(domain.FieldMemo):          notionapi.TextValue(order.Memo),
		p(domain.FieldStyle):         notionapi.TextValue(order.Style),
		p(domain.FieldCost):          decimalValue(order.Cost),
		p(domain.FieldWeight):        decimalValue(order.Weight),
		p(domain.FieldShippingFee):   decimalValue(order.ShippingFee),
		p(domain.FieldURL):           notionapi.URLValue(order.URL),
		p(domain.FieldShipDate):      notionapi.DateValue(order.ShipDate),
		p(domain.FieldMemberID):      notionapi.TextValue(order.MemberID),
		p(domain.FieldIntlShipping):  notionapi.CheckboxValue(order.IntlShipping),
	}

	page, err := r.client.CreatePage(ctx, r.databaseID, props)
	if err != nil {
		return nil, r.wrap("create order", err)
	}
	return r.toOrder(page), nil
}

// FindIDByShortID ignores everything but digits in the token, so "#7" and "ORD-7" both
// look up 7.
func (r *orderRepo) FindIDByShortID(ctx context.Context, shortID string) (string, error) {
	n, ok := shortNumber(shortID)
	if !ok {
		return "", nil
	}

	res, err := r.client.QueryDatabase(ctx, r.databaseID, notionapi.QueryRequest{
		Filter: map[string]any{
			"property":  r.fields.Property(domain.FieldShortID),
			"unique_id": map[string]any{"equals": n},
		},
		Sorts:    []notionapi.Sort{notionapi.SortLastEditedDesc},
		PageSize: 5,
	})
	if err != nil {
		return "", r.wrap("find order", err)
	}
	if len(res.Results) == 0 {
		return "", nil
	}
	if len(res.Results) > 1 {
		r.logger.Warn("duplicate short id, using most recently edited",
			zap.Int("shortId", n), zap.Int("matches", len(res.Results)))
	}
	return res.Results[0].ID, nil
}

func (r *orderRepo) Retrieve(ctx context.Context, id string) (*domain.Order, error) {
	page, err := r.client.GetPage(ctx, id)
	if err != nil {
		var apiErr *notionapi.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, r.wrap("retrieve order", err)
	}
	return r.toOrder(page), nil
}

func (r *orderRepo) Update(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error) {
	props := r.patchProperties(patch)
	if len(props) == 0 {
		return r.Retrieve(ctx, id)
	}
	page, err := r.client.UpdatePage(ctx, id, props)
	if err != nil {
		return nil, r.wrap("update order", err)
	}
	return r.toOrder(page), nil
}

func (r *orderRepo) patchProperties(patch domain.OrderPatch) notionapi.Properties {
	p := r.fields.Property
	props := notionapi.Properties{}
	if v, ok := patch.Paid.Get(); ok {
		props[p(domain.FieldPaid)] = decimalValue(v)
	}
	if v, ok := patch.PaymentStatus.Get(); ok {
		props[p(domain.FieldPaymentStatus)] = notionapi.SelectValue(string(v))
	}
	if v, ok := patch.Logistics.Get(); ok {
		props[p(domain.FieldLogistics)] = notionapi.SelectValue(v)
	}
	if v, ok := patch.Memo.Get(); ok {
		props[p(domain.FieldMemo)] = notionapi.TextValue(v)
	}
	if v, ok := patch.Style.Get(); ok {
		props[p(domain.FieldStyle)] = notionapi.TextValue(v)
	}
	if v, ok := patch.Cost.Get(); ok {
		props[p(domain.FieldCost)] = decimalValue(v)
	}
	if v, ok := patch.Weight.Get(); ok {
		props[p(domain.FieldWeight)] = decimalValue(v)
	}
	if v, ok := patch.ShippingFee.Get(); ok {
		props[p(domain.FieldShippingFee)] = decimalValue(v)
	}
	if v, ok := patch.URL.Get(); ok {
		props[p(domain.FieldURL)] = notionapi.URLValue(v)
	}
	if v, ok := patch.ShipDate.Get(); ok {
		props[p(domain.FieldShipDate)] = notionapi.DateValue(v)
	}
	if v, ok := patch.MemberID.Get(); ok {
		props[p(domain.FieldMemberID)] = notionapi.TextValue(v)
	}
	if v, ok := patch.IntlShipping.Get(); ok {
		props[p(domain.FieldIntlShipping)] = notionapi.CheckboxValue(v)
	}
	return props
}

func (r *orderRepo) Query(ctx context.Context, filter *repository.Filter) ([]domain.Order, error) {
	translated, err := r.translate(filter)
	if err != nil {
		return nil, &repository.StoreError{Op: "query orders", Message: err.Error(), Err: err}
	}

	req := notionapi.QueryRequest{
		Filter:   translated,
		Sorts:    []notionapi.Sort{notionapi.SortLastEditedDesc},
		PageSize: queryPageSize,
	}
	var out []domain.Order
	for {
		res, err := r.client.QueryDatabase(ctx, r.databaseID, req)
		if err != nil {
			return nil, r.wrap("query orders", err)
		}
		for i := range res.Results {
			out = append(out, *r.toOrder(&res.Results[i]))
		}
		if !res.HasMore || res.NextCursor == nil || len(out) >= repository.MaxQueryResults {
			break
		}
		req.StartCursor = *res.NextCursor
	}
	if len(out) > repository.MaxQueryResults {
		out = out[:repository.MaxQueryResults]
	}
	return out, nil
}

func (r *orderRepo) translate(f *repository.Filter) (map[string]any, error) {
	if f == nil {
		return nil, nil
	}
	if f.IsCompound() {
		key, children := "and", f.And
		if len(f.Or) > 0 {
			key, children = "or", f.Or
		}
		parts := make([]map[string]any, 0, len(children))
		for _, c := range children {
			t, err := r.translate(c)
			if err != nil {
				return nil, err
			}
			parts = append(parts, t)
		}
		return map[string]any{key: parts}, nil
	}

	prop := r.fields.Property(f.Field)
	if prop == "" {
		return nil, fmt.Errorf("filter on unmapped field %q", f.Field)
	}
	kind := f.Field.Kind()

	var value any = f.Value
	switch kind {
	case domain.KindText, domain.KindURL:
	case domain.KindSelect, domain.KindDate:
		if f.Op == repository.OpContains {
			return nil, fmt.Errorf("%s filter on %q does not support contains", kind, f.Field)
		}
	case domain.KindNumber:
		n, err := strconv.ParseFloat(f.Value, 64)
		if err != nil || f.Op == repository.OpContains {
			return nil, fmt.Errorf("bad number filter on %q", f.Field)
		}
		value = n
	case domain.KindUniqueID:
		n, ok := shortNumber(f.Value)
		if !ok || f.Op == repository.OpContains {
			return nil, fmt.Errorf("bad unique id filter on %q", f.Field)
		}
		value = n
	case domain.KindCheckbox:
		b, err := strconv.ParseBool(f.Value)
		if err != nil || f.Op != repository.OpEquals {
			return nil, fmt.Errorf("bad checkbox filter on %q", f.Field)
		}
		value = b
	default:
		return nil, fmt.Errorf("filter on %q: unsupported kind %q", f.Field, kind)
	}

	return map[string]any{
		"property":   prop,
		string(kind): map[string]any{string(f.Op): value},
	}, nil
}

func (r *orderRepo) toOrder(page *notionapi.Page) *domain.Order {
	prop := func(f domain.Field) notionapi.Property {
		return page.Properties[r.fields.Property(f)]
	}

	o := &domain.Order{
		ID:            page.ID,
		Customer:      prop(domain.FieldCustomer).PlainText(),
		Product:       prop(domain.FieldProduct).PlainText(),
		Quantity:      int(numberOf(prop(domain.FieldQuantity)).IntPart()),
		Amount:        numberOf(prop(domain.FieldAmount)),
		Paid:          numberOf(prop(domain.FieldPaid)),
		PaymentStatus: domain.PaymentStatus(prop(domain.FieldPaymentStatus).Choice()),
		Logistics:     prop(domain.FieldLogistics).Choice(),
		Memo:          prop(domain.FieldMemo).PlainText(),
		Style:         prop(domain.FieldStyle).PlainText(),
		Cost:          numberOf(prop(domain.FieldCost)),
		Weight:        numberOf(prop(domain.FieldWeight)),
		ShippingFee:   numberOf(prop(domain.FieldShippingFee)),
		MemberID:      prop(domain.FieldMemberID).PlainText(),
		IntlShipping:  prop(domain.FieldIntlShipping).Checkbox,
		CreatedAt:     page.CreatedTime,
		UpdatedAt:     page.LastEditedTime,
	}
	if u := prop(domain.FieldURL).URL; u != nil {
		o.URL = *u
	}
	if dt := prop(domain.FieldShipDate).Date; dt != nil && len(dt.Start) >= 10 {
		o.ShipDate = dt.Start[:10]
	}
	if uid := prop(domain.FieldShortID).UniqueID; uid != nil {
		o.ShortID = uid.Number
		if uid.Prefix != nil {
			o.ShortPrefix = *uid.Prefix
		}
	}
	return o
}

// wrap converts client failures into StoreErrors, naming the offending field when a
// validation message mentions a mapped property.
func (r *orderRepo) wrap(op string, err error) error {
	var apiErr *notionapi.APIError
	if !errors.As(err, &apiErr) {
		return &repository.StoreError{Op: op, Message: err.Error(), Err: err}
	}
	se := &repository.StoreError{
		Op:         op,
		Validation: apiErr.IsValidation(),
		Message:    apiErr.Message,
		Err:        err,
	}
	if se.Validation {
		if f, ok := r.fields.Mentioned(apiErr.Message); ok {
			se.Field = f
			se.Property = r.fields.Property(f)
		}
	}
	return se
}

func numberOf(p notionapi.Property) decimal.Decimal {
	if p.Number == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*p.Number)
}

func decimalValue(d decimal.Decimal) map[string]any {
	f := d.InexactFloat64()
	return notionapi.NumberValue(&f)
}

func intValue(n int) map[string]any {
	f := float64(n)
	return notionapi.NumberValue(&f)
}

func shortNumber(token string) (int, bool) {
	var b strings.Builder
	for _, c := range width.Narrow.String(token) {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
