package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"catalog-orders/internal/models"
)

// ProductService es el flujo de productos que consumen los handlers.
type ProductService interface {
	CreateProduct(ctx context.Context, in models.ProductCreate) (string, error)
	ListProducts(ctx context.Context, q models.ProductQuery) (models.ProductListResponse, error)
}

type ProductHandler struct {
	svc     ProductService
	logger  *log.Entry
	timeout time.Duration
}

func NewProductHandler(svc ProductService, logger *log.Entry, timeout time.Duration) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger, timeout: timeout}
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in models.ProductCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	id, err := h.svc.CreateProduct(ctx, in)
	if err != nil {
		respondError(c, h.logger, err, "could not create product")
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
}

// GET /products?name=&size=&limit=&offset=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var q models.ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	list, err := h.svc.ListProducts(ctx, q)
	if err != nil {
		respondError(c, h.logger, err, "could not fetch products")
		return
	}

	c.JSON(http.StatusOK, list)
}
