package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleReturn devolución de un cliente contra una SaleRecord. Inmutable después de creada.
type SaleReturn struct {
	ReturnID          string
	OriginalSaleID    string
	ReturnDate        string
	ReturnTime        string
	ReturnedBy        string
	Reason            string
	Notes             string
	Items             []ReturnItem
	TotalCreditAmount decimal.Decimal
	CreatedAt         time.Time
}
