package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLine representa una línea de compra registrada a un proveedor.
// Inmutable una vez creada; solo cambia su modelo de lectura (TotalReturned, RemainingQuantity)
// cuando se confirma una devolución contra ella.
type PurchaseLine struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal // cantidad comprada (>= 0)
	Unit        string
	RatePerUnit decimal.Decimal // precio de compra
	SupplierID  string
	TotalAmount decimal.Decimal
	PurchasedAt time.Time

	// Modelo de lectura cacheado; se recalcula en cada devolución confirmada.
	TotalReturned     decimal.Decimal
	RemainingQuantity decimal.Decimal
}
