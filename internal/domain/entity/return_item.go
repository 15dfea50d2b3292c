package entity

import "github.com/shopspring/decimal"

// Motivos (opcionales) de una devolución.
const (
	ReturnReasonDamaged   = "damaged"
	ReturnReasonDefective = "defective"
	ReturnReasonExpired   = "expired"
	ReturnReasonWrongItem = "wrong_item"
	ReturnReasonExcess    = "excess"
	ReturnReasonOther     = "other"
)

// ReturnItem copia puntual de un ítem devuelto: nombre y tarifa se congelan al crear la devolución,
// cambios posteriores en el catálogo no alteran el histórico.
type ReturnItem struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	RatePerUnit decimal.Decimal
	LineTotal   decimal.Decimal // Quantity * RatePerUnit, precisión completa
}
