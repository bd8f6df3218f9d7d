// Package docstore implementa un almacén de documentos con semántica de
// consulta tipo MongoDB (igualdad, $elemMatch, $regex, skip/limit/sort) y el
// contrato Backend que cumplen tanto el almacén en memoria como MongoDB.
package docstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// IDField es el campo que guarda el identificador asignado en Insert.
const IDField = "_id"

// Document es un registro sin esquema.
type Document = bson.M

// Collection nombra una colección conocida del almacén.
type Collection string

const (
	Products Collection = "products"
	Orders   Collection = "orders"
)

// Collections lista las colecciones que todo backend debe exponer.
var Collections = []Collection{Products, Orders}

// Valid indica si la colección es una de las conocidas.
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

var (
	// ErrUnknownCollection es un error del llamador: la colección no existe.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnsupportedOperator se devuelve cuando el filtro usa un operador no soportado.
	ErrUnsupportedOperator = errors.New("unsupported filter operator")
	// ErrNoDocuments indica que FindOne no encontró ningún documento.
	ErrNoDocuments = errors.New("no documents in result")
)

// SortDirection sigue la convención de MongoDB: 1 ascendente, -1 descendente.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

// FindOptions reemplaza el cursor encadenable: skip, limit y un único criterio de orden.
// Limit <= 0 significa sin límite.
type FindOptions struct {
	Skip    int64
	Limit   int64
	SortKey string
	SortDir SortDirection
}

// Backend es el contrato de almacenamiento que usan los flujos de productos y pedidos.
type Backend interface {
	// Insert asigna un identificador nuevo, guarda el documento y devuelve el identificador.
	Insert(ctx context.Context, coll Collection, doc Document) (string, error)
	// FindOne devuelve el primer documento (en orden de inserción) que cumple el filtro o ErrNoDocuments.
	FindOne(ctx context.Context, coll Collection, filter Filter) (Document, error)
	// FindMany devuelve la página pedida y el total de coincidencias antes de skip/limit.
	FindMany(ctx context.Context, coll Collection, filter Filter, opts FindOptions) ([]Document, int64, error)
	// Count devuelve el total de documentos que cumplen el filtro.
	Count(ctx context.Context, coll Collection, filter Filter) (int64, error)
	// Ping comprueba que el backend responde.
	Ping(ctx context.Context) error
	// Name identifica el backend en health checks y logs.
	Name() string
}

// IDGenerator produce identificadores opacos. Deben ordenarse
// lexicográficamente en el mismo orden en que se generan.
type IDGenerator func() (string, error)

// NewID genera un UUIDv7: único y ordenado por tiempo de creación.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
