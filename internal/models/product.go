package models

// SizeVariant es una talla disponible del producto y su stock.
type SizeVariant struct {
	Size     string `json:"size" bson:"size" validate:"required"`
	Quantity int    `json:"quantity" bson:"quantity" validate:"gte=0"`
}

// Product representa un producto en el catálogo. No se modifica tras crearse.
type Product struct {
	ID    string        `json:"id" bson:"_id,omitempty"`
	Name  string        `json:"name" bson:"name"`
	Price float64       `json:"price" bson:"price"`
	Sizes []SizeVariant `json:"sizes" bson:"sizes"`
}

// ProductCreate es el cuerpo de POST /products.
type ProductCreate struct {
	Name  string        `json:"name" validate:"required"`
	Price float64       `json:"price" validate:"gt=0"`
	Sizes []SizeVariant `json:"sizes" validate:"required,dive"`
}

// ProductQuery son los parámetros de GET /products.
type ProductQuery struct {
	Name   string `form:"name"`
	Size   string `form:"size"`
	Limit  int    `form:"limit,default=10" validate:"gte=1,lte=100"`
	Offset int    `form:"offset,default=0" validate:"gte=0"`
}

// ProductSummary es la proyección de listado: nunca incluye las tallas.
type ProductSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Summary proyecta el producto para respuestas de listado.
func (p Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price}
}

type CreatedResponse struct {
	ID string `json:"id"`
}
