package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"catalog-orders/internal/models"
)

// OrderService es el flujo de pedidos que consumen los handlers.
type OrderService interface {
	CreateOrder(ctx context.Context, in models.OrderCreate) (string, error)
	ListUserOrders(ctx context.Context, userID string, q models.OrderQuery) (models.OrderListResponse, error)
}

type OrderHandler struct {
	svc     OrderService
	logger  *log.Entry
	timeout time.Duration
}

func NewOrderHandler(svc OrderService, logger *log.Entry, timeout time.Duration) *OrderHandler {
	return &OrderHandler{svc: svc, logger: logger, timeout: timeout}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var in models.OrderCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	id, err := h.svc.CreateOrder(ctx, in)
	if err != nil {
		respondError(c, h.logger, err, "could not create order")
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
}

// GET /orders/:userId?limit=&offset=
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	var q models.OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	list, err := h.svc.ListUserOrders(ctx, c.Param("userId"), q)
	if err != nil {
		respondError(c, h.logger, err, "could not fetch orders")
		return
	}

	c.JSON(http.StatusOK, list)
}
