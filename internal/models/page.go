package models

import "catalog-orders/internal/pagination"

// Page es la forma común de las respuestas de listado.
type Page[T any] struct {
	Data []T                 `json:"data"`
	Page pagination.Metadata `json:"page"`
}

type ProductListResponse = Page[ProductSummary]

type OrderListResponse = Page[OrderView]
