package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"catalog-orders/internal/docstore"
	"catalog-orders/internal/metrics"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
	"catalog-orders/internal/repository"
)

type ProductService struct {
	products *repository.ProductRepository
	validate *validator.Validate
	metrics  *metrics.Catalog
	logger   *log.Entry
}

func NewProductService(products *repository.ProductRepository, m *metrics.Catalog, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.WithField("component", "product-service")
	}
	return &ProductService{
		products: products,
		validate: newValidator(),
		metrics:  m,
		logger:   logger,
	}
}

// CreateProduct valida el producto y lo persiste. No hay control de nombres duplicados.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductCreate) (string, error) {
	if err := validateInput(s.validate, in); err != nil {
		return "", err
	}

	id, err := s.products.Create(ctx, models.Product{
		Name:  in.Name,
		Price: in.Price,
		Sizes: in.Sizes,
	})
	if err != nil {
		return "", storeError("create product", err)
	}

	s.metrics.RecordProductCreated()
	s.logger.WithField("product_id", id).Debug("product created")
	return id, nil
}

// ListProducts traduce los parámetros a un filtro del almacén, cuenta el
// total filtrado y devuelve la página ordenada por id ascendente.
func (s *ProductService) ListProducts(ctx context.Context, q models.ProductQuery) (models.ProductListResponse, error) {
	if err := validateInput(s.validate, q); err != nil {
		return models.ProductListResponse{}, err
	}

	filter := productFilter(q)

	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return models.ProductListResponse{}, storeError("count products", err)
	}

	products, err := s.products.Find(ctx, filter, docstore.FindOptions{
		Skip:    int64(q.Offset),
		Limit:   int64(q.Limit),
		SortKey: docstore.IDField,
		SortDir: docstore.Ascending,
	})
	if err != nil {
		return models.ProductListResponse{}, storeError("find products", err)
	}

	data := make([]models.ProductSummary, 0, len(products))
	for _, p := range products {
		data = append(data, p.Summary())
	}

	return models.ProductListResponse{
		Data: data,
		Page: pagination.Paginate(q.Offset, q.Limit, int(total), len(data)),
	}, nil
}

// productFilter: el nombre se busca como texto literal sin distinguir
// mayúsculas; la talla debe coincidir exactamente con alguna entrada de sizes.
func productFilter(q models.ProductQuery) docstore.Filter {
	filter := docstore.Filter{}
	if q.Name != "" {
		filter["name"] = docstore.ContainsFold(q.Name)
	}
	if q.Size != "" {
		filter["sizes"] = docstore.ElementMatch("size", q.Size)
	}
	return filter
}
