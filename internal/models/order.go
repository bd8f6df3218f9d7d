package models

import "time"

// OrderItem referencia un producto existente al crear el pedido.
type OrderItem struct {
	ProductID string `json:"productId" bson:"productId" validate:"required"`
	Qty       int    `json:"qty" bson:"qty" validate:"gt=0"`
}

// Order guarda el total calculado al crearse; cambios posteriores de precio no lo afectan.
type Order struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	UserID    string      `json:"userId" bson:"userId"`
	Items     []OrderItem `json:"items" bson:"items"`
	Total     float64     `json:"total" bson:"total"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
}

// OrderCreate es el cuerpo de POST /orders.
type OrderCreate struct {
	UserID string      `json:"userId" validate:"required"`
	Items  []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrderQuery son los parámetros de GET /orders/:userId.
type OrderQuery struct {
	Limit  int `form:"limit,default=10" validate:"gte=1,lte=100"`
	Offset int `form:"offset,default=0" validate:"gte=0"`
}

type ProductDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderItemView es una línea del pedido unida con los datos del producto.
type OrderItemView struct {
	ProductDetails ProductDetails `json:"productDetails"`
	Qty            int            `json:"qty"`
}

type OrderView struct {
	ID    string          `json:"id"`
	Items []OrderItemView `json:"items"`
	Total float64         `json:"total"`
}
