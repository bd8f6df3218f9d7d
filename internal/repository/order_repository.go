package repository

import (
	"context"

	"catalog-orders/internal/docstore"
	"catalog-orders/internal/models"
)

type OrderRepository struct {
	store docstore.Backend
}

func NewOrderRepository(store docstore.Backend) *OrderRepository {
	return &OrderRepository{store: store}
}

// Create inserta el pedido ya validado
func (r *OrderRepository) Create(ctx context.Context, order models.Order) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	order.ID = ""
	doc, err := encode(order)
	if err != nil {
		return "", err
	}
	return r.store.Insert(ctx, docstore.Orders, doc)
}

// FindByUser devuelve todos los pedidos del usuario en orden de creación.
func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	docs, _, err := r.store.FindMany(ctx, docstore.Orders,
		docstore.Filter{"userId": docstore.Equals(userID)},
		docstore.FindOptions{SortKey: docstore.IDField, SortDir: docstore.Ascending},
	)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Order](docs)
}
