package service

import (
	"errors"
	"fmt"

	"catalog-orders/internal/docstore"
)

// ValidationError indica una entrada fuera de rango o incompleta.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError indica que una entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// StoreError envuelve un fallo inesperado del almacenamiento.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsValidation informa si err es (o envuelve) un ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound informa si err es (o envuelve) un NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnknownCollection detecta errores de programación que no deberían llegar a la frontera.
func IsUnknownCollection(err error) bool {
	return errors.Is(err, docstore.ErrUnknownCollection)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
