package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalog-orders/internal/metrics"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
	"catalog-orders/internal/repository"
)

// MissingProductPolicy decide qué hacer al listar un pedido cuya línea
// referencia un producto que ya no existe.
type MissingProductPolicy int

const (
	// DropMissing omite la línea del pedido en la respuesta.
	DropMissing MissingProductPolicy = iota
	// PlaceholderMissing devuelve la línea con UnavailableProductName.
	PlaceholderMissing
	// FailMissing devuelve NotFoundError.
	FailMissing
)

const UnavailableProductName = "(unavailable)"

const joinConcurrency = 8

// ProductFinder es lo que el flujo de pedidos necesita del catálogo.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type OrderService struct {
	products ProductFinder
	orders   *repository.OrderRepository
	validate *validator.Validate
	metrics  *metrics.Catalog
	logger   *log.Entry
	now      func() time.Time
	missing  MissingProductPolicy
}

type OrderOption func(*OrderService)

func WithMissingProductPolicy(p MissingProductPolicy) OrderOption {
	return func(s *OrderService) { s.missing = p }
}

// WithClock fija la fuente de createdAt (tests).
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(products ProductFinder, orders *repository.OrderRepository, m *metrics.Catalog, logger *log.Entry, opts ...OrderOption) *OrderService {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	s := &OrderService{
		products: products,
		orders:   orders,
		validate: newValidator(),
		metrics:  m,
		logger:   logger,
		now:      time.Now,
		missing:  DropMissing,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder comprueba cada producto en el orden recibido y acumula el total.
// El primer producto inexistente aborta la operación sin escribir nada.
func (s *OrderService) CreateOrder(ctx context.Context, in models.OrderCreate) (string, error) {
	if err := validateInput(s.validate, in); err != nil {
		return "", err
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", &NotFoundError{Entity: "product", ID: item.ProductID}
			}
			return "", storeError("find product", err)
		}

		line := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Qty)))
		total = total.Add(line)
		items = append(items, models.OrderItem{ProductID: item.ProductID, Qty: item.Qty})
	}

	amount, _ := total.Float64()
	id, err := s.orders.Create(ctx, models.Order{
		UserID:    in.UserID,
		Items:     items,
		Total:     amount,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return "", storeError("create order", err)
	}

	s.metrics.RecordOrderCreated(amount)
	s.logger.WithFields(log.Fields{
		"order_id": id,
		"user_id":  in.UserID,
		"total":    total.String(),
	}).Info("order created")
	return id, nil
}

// ListUserOrders filtra por usuario antes de paginar: trae todos sus pedidos
// en orden de creación, corta la página en memoria y une cada línea con el producto.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, q models.OrderQuery) (models.OrderListResponse, error) {
	if userID == "" {
		return models.OrderListResponse{}, &ValidationError{Field: "userId", Message: "is required"}
	}
	if err := validateInput(s.validate, q); err != nil {
		return models.OrderListResponse{}, err
	}

	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return models.OrderListResponse{}, storeError("find orders", err)
	}

	total := len(orders)
	start := min(q.Offset, total)
	end := min(q.Offset+q.Limit, total)
	page := orders[start:end]

	products, err := s.lookupProducts(ctx, page)
	if err != nil {
		return models.OrderListResponse{}, err
	}

	data := make([]models.OrderView, 0, len(page))
	for _, order := range page {
		view, err := s.orderView(order, products)
		if err != nil {
			return models.OrderListResponse{}, err
		}
		data = append(data, view)
	}

	return models.OrderListResponse{
		Data: data,
		Page: pagination.Paginate(q.Offset, q.Limit, total, len(data)),
	}, nil
}

// lookupProducts resuelve en paralelo los productos distintos de la página.
// Los inexistentes quedan fuera del mapa.
func (s *OrderService) lookupProducts(ctx context.Context, orders []models.Order) (map[string]*models.Product, error) {
	ids := make(map[string]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			ids[item.ProductID] = struct{}{}
		}
	}

	var mu sync.Mutex
	found := make(map[string]*models.Product, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(joinConcurrency)
	for id := range ids {
		id := id
		g.Go(func() error {
			p, err := s.products.FindByID(gctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil
				}
				return storeError("find product", err)
			}
			mu.Lock()
			found[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *OrderService) orderView(order models.Order, products map[string]*models.Product) (models.OrderView, error) {
	items := make([]models.OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			switch s.missing {
			case FailMissing:
				return models.OrderView{}, &NotFoundError{Entity: "product", ID: item.ProductID}
			case PlaceholderMissing:
				items = append(items, models.OrderItemView{
					ProductDetails: models.ProductDetails{ID: item.ProductID, Name: UnavailableProductName},
					Qty:            item.Qty,
				})
			default:
				s.metrics.RecordDroppedOrderLine()
				s.logger.WithFields(log.Fields{
					"order_id":   order.ID,
					"product_id": item.ProductID,
				}).Warn("order line references a missing product, omitted from response")
			}
			continue
		}

		items = append(items, models.OrderItemView{
			ProductDetails: models.ProductDetails{ID: product.ID, Name: product.Name},
			Qty:            item.Qty,
		})
	}

	return models.OrderView{ID: order.ID, Items: items, Total: order.Total}, nil
}
