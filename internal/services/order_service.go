package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ri4re/linebot/internal/domain"
	rabbit "github.com/ri4re/linebot/internal/infra/rabbitmq"
	"github.com/ri4re/linebot/internal/parser"
	"github.com/ri4re/linebot/internal/render"
	"github.com/ri4re/linebot/internal/repository"
)

var ErrOrderNotFound = errors.New("order not found")

// LogisticsLabels are the logistics values queries depend on.
type LogisticsLabels struct {
	Arrived string
	Closed  string
}

type OrderService struct {
	repo      repository.OrderRepository
	renderer  *render.Renderer
	publisher rabbit.PublisherInterface
	labels    LogisticsLabels
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(r repository.OrderRepository, rd *render.Renderer, pub rabbit.PublisherInterface, labels LogisticsLabels, logger *zap.Logger) *OrderService {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      r,
		renderer:  rd,
		publisher: pub,
		labels:    labels,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute runs one parsed command and returns the reply text.
func (s *OrderService) Execute(ctx context.Context, intent parser.Intent) (string, error) {
	switch in := intent.(type) {
	case parser.Help:
		return s.renderer.Help(), nil

	case parser.NewOrder:
		o, err := s.CreateOrder(ctx, in.Order)
		if err != nil {
			return "", err
		}
		return s.renderer.Card(o), nil

	case parser.QuickOrder:
		o, err := s.CreateOrder(ctx, in.Order)
		if err != nil {
			return "", err
		}
		return s.renderer.Card(o), nil

	case parser.UpdateOrder:
		o, err := s.UpdateOrder(ctx, in.Update)
		if err != nil {
			return "", err
		}
		return s.renderer.Updated(o), nil

	case parser.PayByCustomer:
		o, err := s.PayByCustomer(ctx, in.Customer, in.Product, in.Status)
		if err != nil {
			return "", err
		}
		return s.renderer.Updated(o), nil

	case parser.Query:
		return s.query(ctx, in)

	case parser.StatusSummary:
		orders, err := s.repo.Query(ctx, repository.NotEquals(domain.FieldLogistics, s.labels.Closed))
		if err != nil {
			return "", err
		}
		return s.renderer.Aggregate(orders, "付款統計"), nil
	}
	return s.renderer.Unrecognized(), nil
}

func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	created, err := s.repo.Create(ctx, &order)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventOrderCreated, created)
	return created, nil
}

// UpdateOrder reads the current order, reconciles payment and writes the patch. Paid
// amount and payment status are always written so the stored status never drifts from
// the stored amounts.
func (s *OrderService) UpdateOrder(ctx context.Context, u domain.OrderUpdate) (*domain.Order, error) {
	id, current, err := s.find(ctx, u.ShortID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, current, u, u.ShortID)
}

// PayByCustomer forces the payment status of the most recently edited order for
// customer whose product name contains product.
func (s *OrderService) PayByCustomer(ctx context.Context, customer, product string, status domain.PaymentStatus) (*domain.Order, error) {
	orders, err := s.repo.Query(ctx, repository.And(
		repository.Equals(domain.FieldCustomer, customer),
		repository.Contains(domain.FieldProduct, product),
	))
	if err != nil {
		return nil, err
	}
	ref := customer + " / " + product
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, ref)
	}
	if len(orders) > 1 {
		s.logger.Info("several orders match, updating the newest",
			zap.String("customer", customer), zap.String("product", product), zap.Int("matches", len(orders)))
	}

	current := orders[0]
	return s.apply(ctx, current.ID, &current, domain.OrderUpdate{ForceStatus: domain.Some(status)}, ref)
}

func (s *OrderService) apply(ctx context.Context, id string, current *domain.Order, u domain.OrderUpdate, ref string) (*domain.Order, error) {
	rec := Reconcile(current.Amount, current.Paid, paymentUpdateOf(u))
	patch := u.Patch
	patch.Paid = domain.Some(rec.Paid)
	patch.PaymentStatus = domain.Some(rec.Status)

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, ref)
	}
	s.publish(ctx, domain.EventOrderUpdated, updated)
	return updated, nil
}

func (s *OrderService) GetOrderByShortID(ctx context.Context, shortID string) (*domain.Order, error) {
	_, o, err := s.find(ctx, shortID)
	return o, err
}

func (s *OrderService) find(ctx context.Context, shortID string) (string, *domain.Order, error) {
	id, err := s.repo.FindIDByShortID(ctx, shortID)
	if err != nil {
		return "", nil, err
	}
	if id == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrOrderNotFound, shortID)
	}
	o, err := s.repo.Retrieve(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if o == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrOrderNotFound, shortID)
	}
	return id, o, nil
}

func (s *OrderService) query(ctx context.Context, q parser.Query) (string, error) {
	var (
		filter *repository.Filter
		title  string
	)
	switch q.Kind {
	case parser.QueryShortID:
		o, err := s.GetOrderByShortID(ctx, q.ShortID)
		if err != nil {
			return "", err
		}
		return s.renderer.Detail(o), nil
	case parser.QueryPayment:
		filter = repository.Equals(domain.FieldPaymentStatus, string(q.Payment))
		title = string(q.Payment)
	case parser.QueryLogistics:
		filter = repository.Equals(domain.FieldLogistics, q.Logistics)
		title = q.Logistics
	case parser.QueryReadyToClose:
		filter = repository.And(
			repository.Equals(domain.FieldPaymentStatus, string(domain.PaymentPaid)),
			repository.Equals(domain.FieldLogistics, s.labels.Arrived),
		)
		title = "可結單"
	case parser.QueryKeyword:
		filter = repository.Or(
			repository.Contains(domain.FieldCustomer, q.Keyword),
			repository.Contains(domain.FieldProduct, q.Keyword),
			repository.Contains(domain.FieldMemo, q.Keyword),
			repository.Contains(domain.FieldStyle, q.Keyword),
		)
		title = fmt.Sprintf("「%s」", q.Keyword)
	default:
		title = "全部訂單"
	}

	orders, err := s.repo.Query(ctx, filter)
	if err != nil {
		return "", err
	}
	return s.renderer.List(orders, title), nil
}

// publish is best effort; a broker failure never fails the command.
func (s *OrderService) publish(ctx context.Context, routingKey string, o *domain.Order) {
	evt := domain.NewOrderEvent(o, s.now())
	if err := s.publisher.Publish(ctx, routingKey, evt); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("routingKey", routingKey), zap.String("orderId", o.ID), zap.Error(err))
	}
}
