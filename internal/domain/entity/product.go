package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product entrada del catálogo. Las devoluciones copian su nombre en el momento de crearse.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Price       decimal.Decimal // precio de venta
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
