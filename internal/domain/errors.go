package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Motivos de rechazo de una devolución.
const (
	ReasonNoItemSelected   = "NoItemSelected"
	ReasonInvalidQuantity  = "InvalidQuantity"
	ReasonExceedsAvailable = "ExceedsAvailable"
)

// ValidationError rechazo corregible por el usuario (selección ausente, cantidad inválida o excedida).
// Max solo viene informado para ExceedsAvailable.
type ValidationError struct {
	Reason  string
	Max     *decimal.Decimal
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IntegrityError indica que una transacción padre y sus devoluciones no son consistentes
// (remanente negativo, padre inexistente). No se reintenta.
type IntegrityError struct {
	Op      string
	Message string
}

func (e *IntegrityError) Error() string {
	if e.Op == "" {
		return "integridad: " + e.Message
	}
	return fmt.Sprintf("integridad (%s): %s", e.Op, e.Message)
}

// PersistenceError falla del almacén (inalcanzable, escritura rechazada). El caller decide si reintenta.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Retryable siempre true: la operación es de un solo intento y el caller puede repetirla.
func (e *PersistenceError) Retryable() bool { return true }

// NewIntegrityError construye un IntegrityError.
func NewIntegrityError(op, format string, args ...any) *IntegrityError {
	return &IntegrityError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// AsValidation, AsIntegrity y AsPersistence clasifican un error con errors.As.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func AsIntegrity(err error) (*IntegrityError, bool) {
	var v *IntegrityError
	ok := errors.As(err, &v)
	return v, ok
}

func AsPersistence(err error) (*PersistenceError, bool) {
	var v *PersistenceError
	ok := errors.As(err, &v)
	return v, ok
}
