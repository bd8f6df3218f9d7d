package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"catalog-orders/internal/cache"
	"catalog-orders/internal/docstore"
	"catalog-orders/internal/models"
)

// ErrNotFound se devuelve cuando el documento buscado no existe.
var ErrNotFound = errors.New("not found")

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	queryTimeout = 10 * time.Second
)

type ProductRepository struct {
	store docstore.Backend
	cache *cache.Cache[string, models.Product]
}

func NewProductRepository(store docstore.Backend) *ProductRepository {
	return &ProductRepository{store: store}
}

// WithCache activa la caché de FindByID. Los productos no cambian tras
// crearse, así que una entrada nunca queda desactualizada.
func (r *ProductRepository) WithCache(c *cache.Cache[string, models.Product]) *ProductRepository {
	r.cache = c
	return r
}

// Create inserta el producto y devuelve el identificador asignado
func (r *ProductRepository) Create(ctx context.Context, product models.Product) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = ""
	doc, err := encode(product)
	if err != nil {
		return "", err
	}
	return r.store.Insert(ctx, docstore.Products, doc)
}

// FindByID obtiene un producto por ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if r.cache != nil {
		if cached, found := r.cache.Get(id); found {
			cached.Sizes = slices.Clone(cached.Sizes)
			return &cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	doc, err := r.store.FindOne(ctx, docstore.Products, docstore.Filter{docstore.IDField: docstore.Equals(id)})
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	var product models.Product
	if err := decode(doc, &product); err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Put(id, product)
	}
	return &product, nil
}

// Count devuelve el total de productos que cumplen el filtro
func (r *ProductRepository) Count(ctx context.Context, filter docstore.Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.store.Count(ctx, docstore.Products, filter)
}

// Find lista productos con filtros, orden y paginación
func (r *ProductRepository) Find(ctx context.Context, filter docstore.Filter, opts docstore.FindOptions) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	docs, _, err := r.store.FindMany(ctx, docstore.Products, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Product](docs)
}
