// Package pagination calcula los cursores next/previous de una página.
package pagination

import "strconv"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Metadata describe las páginas adyacentes. Limit es la cantidad de
// elementos realmente devueltos, no el tamaño de página pedido.
type Metadata struct {
	Next     *string `json:"next"`
	Limit    int     `json:"limit"`
	Previous *string `json:"previous"`
}

// Paginate es una función pura; todos los argumentos son no negativos.
func Paginate(offset, limit, total, returned int) Metadata {
	meta := Metadata{Limit: returned}

	if offset+limit < total {
		next := strconv.Itoa(offset + limit)
		meta.Next = &next
	}
	if offset > 0 {
		prev := strconv.Itoa(max(0, offset-limit))
		meta.Previous = &prev
	}
	return meta
}
