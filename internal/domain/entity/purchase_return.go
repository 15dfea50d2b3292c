package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseReturn devolución a proveedor contra una PurchaseLine. Inmutable después de creada.
type PurchaseReturn struct {
	ReturnID           string
	OriginalPurchaseID string
	ReturnDate         string // YYYY-MM-DD
	ReturnTime         string // HH:MM:SS
	ReturnedBy         string
	SupplierID         string
	Reason             string // opcional
	Notes              string // opcional
	Items              []ReturnItem
	TotalCreditAmount  decimal.Decimal
	CreatedAt          time.Time
}
